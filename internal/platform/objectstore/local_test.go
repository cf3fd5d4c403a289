package objectstore

import (
	"context"
	"io"
	"testing"

	"github.com/yungbote/playlake/internal/platform/logger"
)

func newTestStore(t *testing.T) Store {
	t.Helper()
	log, err := logger.New("development")
	if err != nil {
		t.Fatalf("logger: %v", err)
	}
	store, err := New(context.Background(), log, Config{
		Mode:      ModeLocal,
		LocalRoot: t.TempDir(),
	})
	if err != nil {
		t.Fatalf("new local store: %v", err)
	}
	return store
}

func TestLocalStoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	if err := store.Write(ctx, "song_data/A/A/A/one.json", []byte(`{"a":1}`)); err != nil {
		t.Fatalf("write: %v", err)
	}
	if err := store.Write(ctx, "song_data/A/A/B/two.json", []byte(`{"b":2}`)); err != nil {
		t.Fatalf("write: %v", err)
	}
	if err := store.Write(ctx, "log_data/2018/11/events.json", []byte(`{"c":3}`)); err != nil {
		t.Fatalf("write: %v", err)
	}

	keys, err := store.List(ctx, "song_data/")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(keys) != 2 {
		t.Fatalf("list song_data: want=2 keys got=%d (%v)", len(keys), keys)
	}

	rc, err := store.Open(ctx, "song_data/A/A/A/one.json")
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	body, err := io.ReadAll(rc)
	_ = rc.Close()
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if string(body) != `{"a":1}` {
		t.Fatalf("body: want=%q got=%q", `{"a":1}`, string(body))
	}
}

func TestLocalStoreDeletePrefix(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	for _, key := range []string{
		"data/songs/year=2018/artist_id=A1/part-00000.jsonl",
		"data/songs/year=2019/artist_id=A2/part-00000.jsonl",
		"data/artists/part-00000.jsonl",
	} {
		if err := store.Write(ctx, key, []byte("x")); err != nil {
			t.Fatalf("write %s: %v", key, err)
		}
	}

	if err := store.DeletePrefix(ctx, "data/songs/"); err != nil {
		t.Fatalf("delete prefix: %v", err)
	}
	keys, err := store.List(ctx, "data/")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(keys) != 1 || keys[0] != "data/artists/part-00000.jsonl" {
		t.Fatalf("after delete: want only artists part, got=%v", keys)
	}
}

func TestLocalStoreOverwrite(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	key := "data/users/part-00000.jsonl"
	if err := store.Write(ctx, key, []byte("first")); err != nil {
		t.Fatalf("write: %v", err)
	}
	if err := store.Write(ctx, key, []byte("second")); err != nil {
		t.Fatalf("rewrite: %v", err)
	}
	rc, err := store.Open(ctx, key)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	body, _ := io.ReadAll(rc)
	_ = rc.Close()
	if string(body) != "second" {
		t.Fatalf("overwrite: want=%q got=%q", "second", string(body))
	}
}
