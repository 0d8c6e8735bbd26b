// Package postgres shares memoised crosses between server replicas through
// a Postgres table.
package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib" // register pgx as a database/sql driver

	"morphcore/internal/cache/core"
)

const (
	defaultDriver = "pgx"
	defaultDSN    = "postgres://localhost/morphcore?sslmode=disable"
)

var (
	sqlOpen = sql.Open
	openMu  sync.Mutex
)

// OverrideSQLOpen swaps the sql.Open hook and returns a restore function.
func OverrideSQLOpen(fn func(driverName, dsn string) (*sql.DB, error)) func() {
	openMu.Lock()
	prev := sqlOpen
	sqlOpen = fn
	openMu.Unlock()
	return func() {
		openMu.Lock()
		sqlOpen = prev
		openMu.Unlock()
	}
}

// Store implements core.Store on the cross_cache table.
type Store struct {
	db *sql.DB
}

// New opens a Postgres-backed cache using dsn (falls back to defaultDSN)
// and ensures the cache table exists.
func New(ctx context.Context, dsn string) (*Store, error) {
	if dsn == "" {
		dsn = defaultDSN
	}
	openMu.Lock()
	db, err := sqlOpen(defaultDriver, dsn)
	openMu.Unlock()
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}
	if _, err := db.ExecContext(ctx, createTable); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ensure cache table: %w", err)
	}
	return &Store{db: db}, nil
}

const createTable = `CREATE TABLE IF NOT EXISTS cross_cache (
	cache_key TEXT PRIMARY KEY,
	payload JSONB NOT NULL,
	created_at TIMESTAMPTZ NOT NULL
)`

const upsertEntry = `INSERT INTO cross_cache (cache_key, payload, created_at) VALUES ($1, $2, $3)
ON CONFLICT (cache_key) DO UPDATE SET payload = EXCLUDED.payload, created_at = EXCLUDED.created_at`

const selectEntry = `SELECT payload FROM cross_cache WHERE cache_key = $1`

// Get loads an entry; a missing row is a miss.
func (s *Store) Get(ctx context.Context, key string) (core.Entry, bool, error) {
	var payload []byte
	err := s.db.QueryRowContext(ctx, selectEntry, key).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Entry{}, false, nil
	}
	if err != nil {
		return core.Entry{}, false, fmt.Errorf("select cache entry: %w", err)
	}
	entry, err := core.DecodeEntry(payload)
	if err != nil {
		return core.Entry{}, false, err
	}
	return entry, true, nil
}

// Put upserts an entry.
func (s *Store) Put(ctx context.Context, key string, entry core.Entry) error {
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now().UTC()
	}
	payload, err := core.EncodeEntry(entry)
	if err != nil {
		return err
	}
	if _, err := s.db.ExecContext(ctx, upsertEntry, key, payload, entry.CreatedAt); err != nil {
		return fmt.Errorf("upsert cache entry: %w", err)
	}
	return nil
}

// DB exposes the underlying sql.DB for integration testing hooks.
func (s *Store) DB() *sql.DB { return s.db }

// Driver returns the cache driver identifier.
func (s *Store) Driver() core.Driver { return core.DriverPostgres }

// Close releases the connection pool.
func (s *Store) Close() error { return s.db.Close() }
