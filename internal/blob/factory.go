package blob

import (
	"context"
	"fmt"

	"morphcore/internal/config"
	"morphcore/internal/infra/blob/fs"
	"morphcore/internal/infra/blob/memory"
	"morphcore/internal/infra/blob/s3"
)

// Open selects a Store implementation from configuration
// (MORPHCORE_BLOB_DRIVER: fs|s3|memory, default fs).
func Open(ctx context.Context, cfg config.Blob) (Store, error) {
	driver := Driver(cfg.Driver)
	if driver == "" {
		driver = DriverFilesystem
	}
	switch driver {
	case DriverFilesystem:
		return fs.New(cfg.FSRoot)
	case DriverS3:
		return s3.New(ctx, cfg.S3)
	case DriverMemory:
		return memory.New(), nil
	default:
		return nil, fmt.Errorf("unknown blob driver %s", cfg.Driver)
	}
}

// NewMemory returns an in-memory store, mainly for tests of other packages.
func NewMemory() Store { return memory.New() }
