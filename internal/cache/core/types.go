// Package core defines the cross result cache abstraction. Concrete
// backends live under internal/infra/cache.
package core

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"morphcore/pkg/domain"
)

// Driver identifies a cache backend.
type Driver string

const (
	// DriverMemory keeps an LRU of recent crosses in process memory.
	DriverMemory Driver = "memory"
	// DriverSQLite persists crosses in an embedded SQLite file.
	DriverSQLite Driver = "sqlite"
	// DriverPostgres shares crosses between processes through Postgres.
	DriverPostgres Driver = "postgres"
	// DriverNone disables caching.
	DriverNone Driver = "none"
)

// Entry is a memoised cross. Results are derived data and are recomputed
// whenever an entry is missing.
type Entry struct {
	Results      []domain.CrossResult `json:"results"`
	ActiveLoci   int                  `json:"active_loci"`
	States       int                  `json:"states"`
	Combinations uint64               `json:"combinations"`
	CreatedAt    time.Time            `json:"created_at"`
}

// Clone returns a deep copy so cached rows cannot be mutated by callers.
func (e Entry) Clone() Entry {
	out := e
	out.Results = make([]domain.CrossResult, len(e.Results))
	for i, r := range e.Results {
		r.Genotype = append([]domain.GeneEntry{}, r.Genotype...)
		out.Results[i] = r
	}
	return out
}

// Store memoises crosses by canonical key. Get reports a miss with
// found=false and a nil error.
type Store interface {
	Get(ctx context.Context, key string) (Entry, bool, error)
	Put(ctx context.Context, key string, entry Entry) error
	Driver() Driver
	Close() error
}

// EncodeEntry serialises an entry for SQL backends.
func EncodeEntry(entry Entry) ([]byte, error) {
	b, err := json.Marshal(entry)
	if err != nil {
		return nil, fmt.Errorf("encode cache entry: %w", err)
	}
	return b, nil
}

// DecodeEntry parses an entry written by EncodeEntry.
func DecodeEntry(b []byte) (Entry, error) {
	var entry Entry
	if err := json.Unmarshal(b, &entry); err != nil {
		return Entry{}, fmt.Errorf("decode cache entry: %w", err)
	}
	if entry.Results == nil {
		entry.Results = []domain.CrossResult{}
	}
	return entry, nil
}
