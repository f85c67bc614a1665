package storage

import (
	"context"
	"fmt"

	"github.com/noah-isme/studyhub-api/pkg/config"
)

// New selects the driver named by cfg.Driver.
func New(ctx context.Context, cfg config.StorageConfig) (BlobStore, error) {
	switch cfg.Driver {
	case config.StorageDriverS3:
		return NewS3Storage(ctx, cfg)
	case config.StorageDriverLocal, "":
		return NewLocalStorage(cfg.LocalDir, cfg.PublicBaseURL)
	default:
		return nil, fmt.Errorf("unknown storage driver %q", cfg.Driver)
	}
}
