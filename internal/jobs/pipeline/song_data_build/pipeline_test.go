package song_data_build

import (
	"context"
	"io"
	"testing"

	jobrt "github.com/yungbote/playlake/internal/jobs/runtime"
	"github.com/yungbote/playlake/internal/platform/logger"
	"github.com/yungbote/playlake/internal/platform/objectstore"
	"github.com/yungbote/playlake/internal/records"
	"github.com/yungbote/playlake/internal/tables"
)

type fixture struct {
	log      *logger.Logger
	input    objectstore.Store
	output   objectstore.Store
	pipeline *Pipeline
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	log, err := logger.New("development")
	if err != nil {
		t.Fatalf("logger: %v", err)
	}
	ctx := context.Background()
	input, err := objectstore.New(ctx, log, objectstore.Config{Mode: objectstore.ModeLocal, LocalRoot: t.TempDir()})
	if err != nil {
		t.Fatalf("input store: %v", err)
	}
	output, err := objectstore.New(ctx, log, objectstore.Config{Mode: objectstore.ModeLocal, LocalRoot: t.TempDir()})
	if err != nil {
		t.Fatalf("output store: %v", err)
	}
	reader := records.NewReader(log, input)
	writer := tables.NewStoreWriter(log, output, "data")
	return &fixture{
		log:      log,
		input:    input,
		output:   output,
		pipeline: New(log, reader, writer, nil, "song_data/*/*/*/*.json"),
	}
}

func (f *fixture) seed(t *testing.T, key, body string) {
	t.Helper()
	if err := f.input.Write(context.Background(), key, []byte(body)); err != nil {
		t.Fatalf("seed %s: %v", key, err)
	}
}

func (f *fixture) run(t *testing.T) *jobrt.Context {
	t.Helper()
	jc := jobrt.NewContext(context.Background(), f.log, f.pipeline.Type())
	if err := f.pipeline.Run(jc); err != nil {
		t.Fatalf("run: %v", err)
	}
	return jc
}

const songOne = `{"song_id":"S1","title":"Test Song","artist_id":"A1","year":2004,"duration":210.5,"artist_name":"Test Artist","artist_location":"Oakland, CA"}`

func TestSongDataBuildWritesBothTables(t *testing.T) {
	f := newFixture(t)
	f.seed(t, "song_data/T/R/A/TRAAA.json", songOne)
	f.seed(t, "song_data/T/R/B/TRABB.json",
		`{"song_id":"S2","title":"Second","artist_id":"A2","year":2010,"duration":180,"artist_name":"Second Artist"}`)

	jc := f.run(t)
	if jc.Job.Status != "succeeded" {
		t.Fatalf("status: want=succeeded got=%q (%s)", jc.Job.Status, jc.Job.Error)
	}

	ctx := context.Background()
	songKeys, err := f.output.List(ctx, "data/songs/")
	if err != nil {
		t.Fatalf("list songs: %v", err)
	}
	if len(songKeys) != 2 {
		t.Fatalf("song partitions: want=2 got=%v", songKeys)
	}
	artistKeys, err := f.output.List(ctx, "data/artists/")
	if err != nil {
		t.Fatalf("list artists: %v", err)
	}
	if len(artistKeys) != 1 {
		t.Fatalf("artist parts: want=1 got=%v", artistKeys)
	}
}

func TestSongDataBuildRerunIdentical(t *testing.T) {
	f := newFixture(t)
	f.seed(t, "song_data/T/R/A/TRAAA.json", songOne)

	f.run(t)
	first := readAll(t, f.output, "data/songs/year=2004/artist_id=A1/part-00000.jsonl")
	f.run(t)
	second := readAll(t, f.output, "data/songs/year=2004/artist_id=A1/part-00000.jsonl")

	if first != second {
		t.Fatalf("rerun output differs:\nfirst =%q\nsecond=%q", first, second)
	}
}

func TestSongDataBuildDuplicateRecordsCollapse(t *testing.T) {
	f := newFixture(t)
	f.seed(t, "song_data/T/R/A/TRAAA.json", songOne)
	f.seed(t, "song_data/T/R/C/TRACC.json", songOne)

	jc := f.run(t)
	result := jc.Job.Result
	if result["songs"] != 1 || result["artists"] != 1 {
		t.Fatalf("dedup across objects: want 1/1 got %v/%v", result["songs"], result["artists"])
	}
}

func readAll(t *testing.T, store objectstore.Store, key string) string {
	t.Helper()
	rc, err := store.Open(context.Background(), key)
	if err != nil {
		t.Fatalf("open %s: %v", key, err)
	}
	body, err := io.ReadAll(rc)
	_ = rc.Close()
	if err != nil {
		t.Fatalf("read %s: %v", key, err)
	}
	return string(body)
}
