package objectstore

import (
	"context"
	"io"

	"github.com/yungbote/playlake/internal/platform/logger"
)

// Store is the narrow object capability the ETL core needs: enumerate keys
// under a prefix, stream one object, replace one object, clear a prefix.
type Store interface {
	List(ctx context.Context, prefix string) ([]string, error)
	Open(ctx context.Context, key string) (io.ReadCloser, error)
	Write(ctx context.Context, key string, data []byte) error
	DeletePrefix(ctx context.Context, prefix string) error
}

func New(ctx context.Context, log *logger.Logger, cfg Config) (Store, error) {
	if err := ValidateConfig(cfg); err != nil {
		return nil, err
	}
	switch cfg.Mode {
	case ModeGCS, ModeGCSEmulator:
		return newGCSStore(ctx, log, cfg)
	case ModeLocal:
		return newLocalStore(log, cfg)
	default:
		return nil, &ConfigError{Code: ConfigErrorInvalidMode, Mode: string(cfg.Mode)}
	}
}
