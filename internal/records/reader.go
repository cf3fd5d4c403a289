package records

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"path"
	"strings"

	"github.com/yungbote/playlake/internal/platform/logger"
	"github.com/yungbote/playlake/internal/platform/objectstore"
)

// Reader yields raw records from every object whose key matches a
// glob-style pattern, one JSON object per line. A line that fails to decode
// is dropped and counted, never fatal for the batch.
type Reader struct {
	log   *logger.Logger
	store objectstore.Store
}

func NewReader(log *logger.Logger, store objectstore.Store) *Reader {
	return &Reader{
		log:   log.With("service", "RecordReader"),
		store: store,
	}
}

// Read lists keys under the pattern's literal prefix, filters them with
// path.Match semantics (`*` does not cross `/`), and decodes every matching
// object.
func (r *Reader) Read(ctx context.Context, pattern string) ([]Raw, error) {
	keys, err := r.store.List(ctx, literalPrefix(pattern))
	if err != nil {
		return nil, fmt.Errorf("list pattern %q: %w", pattern, err)
	}

	out := []Raw{}
	dropped := 0
	matched := 0
	for _, key := range keys {
		ok, err := path.Match(pattern, key)
		if err != nil {
			return nil, fmt.Errorf("bad pattern %q: %w", pattern, err)
		}
		if !ok {
			continue
		}
		matched++
		recs, bad, err := r.readObject(ctx, key)
		if err != nil {
			return nil, err
		}
		dropped += bad
		out = append(out, recs...)
	}
	r.log.Debug("Read records",
		"pattern", pattern,
		"objects", matched,
		"records", len(out),
		"dropped_lines", dropped,
	)
	return out, nil
}

func (r *Reader) readObject(ctx context.Context, key string) ([]Raw, int, error) {
	rc, err := r.store.Open(ctx, key)
	if err != nil {
		return nil, 0, fmt.Errorf("open %q: %w", key, err)
	}
	defer rc.Close()

	out := []Raw{}
	dropped := 0
	scanner := bufio.NewScanner(rc)
	scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)
	line := 0
	for scanner.Scan() {
		line++
		raw := strings.TrimSpace(scanner.Text())
		if raw == "" {
			continue
		}
		var rec Raw
		if err := json.Unmarshal([]byte(raw), &rec); err != nil {
			dropped++
			r.log.Warn("Dropping undecodable line",
				"key", key,
				"line", line,
				"error", err.Error(),
			)
			continue
		}
		out = append(out, rec)
	}
	if err := scanner.Err(); err != nil {
		return nil, dropped, fmt.Errorf("scan %q: %w", key, err)
	}
	return out, dropped, nil
}

// literalPrefix returns the pattern text before the first glob metacharacter,
// used to narrow the store listing.
func literalPrefix(pattern string) string {
	if i := strings.IndexAny(pattern, "*?["); i >= 0 {
		return pattern[:i]
	}
	return pattern
}
