// Package sqlite persists memoised crosses in an embedded SQLite database so
// they survive restarts of a single process.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // pure go sqlite driver

	"morphcore/internal/cache/core"
)

const defaultPath = "morphcore.db"

// Store implements core.Store on a single table keyed by cross key.
type Store struct {
	db   *sql.DB
	path string
}

// New opens (creating if needed) the database at path.
func New(ctx context.Context, path string) (*Store, error) {
	if path == "" {
		path = defaultPath
	}
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil && !errors.Is(err, os.ErrExist) {
			return nil, fmt.Errorf("create dirs: %w", err)
		}
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	// a single connection keeps ":memory:" databases coherent and serialises writers
	db.SetMaxOpenConns(1)
	if _, err := db.ExecContext(ctx, `CREATE TABLE IF NOT EXISTS cross_cache (
		cache_key TEXT PRIMARY KEY,
		payload BLOB NOT NULL,
		created_at INTEGER NOT NULL
	)`); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create cache table: %w", err)
	}
	return &Store{db: db, path: path}, nil
}

// Get loads an entry; a missing row is a miss.
func (s *Store) Get(ctx context.Context, key string) (core.Entry, bool, error) {
	var payload []byte
	err := s.db.QueryRowContext(ctx, `SELECT payload FROM cross_cache WHERE cache_key = ?`, key).Scan(&payload)
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
	if _, err := s.db.ExecContext(ctx,
		`INSERT INTO cross_cache (cache_key, payload, created_at) VALUES (?, ?, ?)
		 ON CONFLICT(cache_key) DO UPDATE SET payload = excluded.payload, created_at = excluded.created_at`,
		key, payload, entry.CreatedAt.Unix(),
	); err != nil {
		return fmt.Errorf("upsert cache entry: %w", err)
	}
	return nil
}

// Path returns the database location.
func (s *Store) Path() string { return s.path }

// DB exposes the underlying sql.DB for integration testing hooks.
func (s *Store) DB() *sql.DB { return s.db }

// Driver returns the cache driver identifier.
func (s *Store) Driver() core.Driver { return core.DriverSQLite }

// Close releases the database handle.
func (s *Store) Close() error { return s.db.Close() }
