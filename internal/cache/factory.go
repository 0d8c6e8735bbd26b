package cache

import (
	"context"
	"fmt"

	"morphcore/internal/config"
	"morphcore/internal/infra/cache/memory"
	"morphcore/internal/infra/cache/postgres"
	"morphcore/internal/infra/cache/sqlite"
)

// Open selects a Store implementation from configuration
// (MORPHCORE_CACHE_DRIVER: memory|sqlite|postgres|none, default memory).
func Open(ctx context.Context, cfg config.Cache) (Store, error) {
	driver := Driver(cfg.Driver)
	if driver == "" {
		driver = DriverMemory
	}
	switch driver {
	case DriverMemory:
		return memory.New(cfg.Size)
	case DriverSQLite:
		return sqlite.New(ctx, cfg.SQLitePath)
	case DriverPostgres:
		return postgres.New(ctx, cfg.PostgresDSN)
	case DriverNone:
		return Disabled{}, nil
	default:
		return nil, fmt.Errorf("unknown cache driver %s", cfg.Driver)
	}
}

// Disabled is a Store that never hits.
type Disabled struct{}

// Get always misses.
func (Disabled) Get(context.Context, string) (Entry, bool, error) { return Entry{}, false, nil }

// Put discards the entry.
func (Disabled) Put(context.Context, string, Entry) error { return nil }

// Driver returns DriverNone.
func (Disabled) Driver() Driver { return DriverNone }

// Close is a no-op.
func (Disabled) Close() error { return nil }
