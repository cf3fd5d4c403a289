package objectstore

import (
	"context"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/yungbote/playlake/internal/platform/logger"
)

// localStore maps object keys onto files under a root directory. It backs
// the "local" storage mode used for development runs and tests.
type localStore struct {
	log  *logger.Logger
	root string
}

func newLocalStore(log *logger.Logger, cfg Config) (*localStore, error) {
	root := filepath.Clean(strings.TrimSpace(cfg.LocalRoot))
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("create local storage root %q: %w", root, err)
	}
	return &localStore{
		log:  log.With("store", "local", "root", root),
		root: root,
	}, nil
}

func (s *localStore) path(key string) string {
	return filepath.Join(s.root, filepath.FromSlash(key))
}

func (s *localStore) List(ctx context.Context, prefix string) ([]string, error) {
	out := []string{}
	err := filepath.WalkDir(s.root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if d.IsDir() {
			return nil
		}
		rel, err := filepath.Rel(s.root, p)
		if err != nil {
			return err
		}
		key := filepath.ToSlash(rel)
		if strings.HasPrefix(key, prefix) {
			out = append(out, key)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("list local prefix %q: %w", prefix, err)
	}
	sort.Strings(out)
	return out, nil
}

func (s *localStore) Open(ctx context.Context, key string) (io.ReadCloser, error) {
	f, err := os.Open(s.path(key))
	if err != nil {
		return nil, fmt.Errorf("open local object %q: %w", key, err)
	}
	return f, nil
}

func (s *localStore) Write(ctx context.Context, key string, data []byte) error {
	p := s.path(key)
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		return fmt.Errorf("create local dir for %q: %w", key, err)
	}
	if err := os.WriteFile(p, data, 0o644); err != nil {
		return fmt.Errorf("write local object %q: %w", key, err)
	}
	return nil
}

func (s *localStore) DeletePrefix(ctx context.Context, prefix string) error {
	keys, err := s.List(ctx, prefix)
	if err != nil {
		return err
	}
	for _, k := range keys {
		if err := os.Remove(s.path(k)); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("delete local object %q: %w", k, err)
		}
	}
	return nil
}
