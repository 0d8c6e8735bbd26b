// Package memory keeps recent crosses in an in-process LRU.
package memory

import (
	"context"
	"fmt"

	lru "github.com/hashicorp/golang-lru/v2"

	"morphcore/internal/cache/core"
)

// DefaultSize applies when a non-positive size is requested.
const DefaultSize = 1024

// Store implements core.Store on a fixed-size LRU. Entries are cloned on the
// way in and out.
type Store struct {
	entries *lru.Cache[string, core.Entry]
}

// New returns an LRU cache holding up to size crosses.
func New(size int) (*Store, error) {
	if size <= 0 {
		size = DefaultSize
	}
	entries, err := lru.New[string, core.Entry](size)
	if err != nil {
		return nil, fmt.Errorf("create lru: %w", err)
	}
	return &Store{entries: entries}, nil
}

// Get returns a copy of the cached entry.
func (s *Store) Get(_ context.Context, key string) (core.Entry, bool, error) {
	entry, ok := s.entries.Get(key)
	if !ok {
		return core.Entry{}, false, nil
	}
	return entry.Clone(), true, nil
}

// Put stores a copy of entry, evicting the least recently used one when full.
func (s *Store) Put(_ context.Context, key string, entry core.Entry) error {
	s.entries.Add(key, entry.Clone())
	return nil
}

// Len reports the number of cached crosses.
func (s *Store) Len() int { return s.entries.Len() }

// Driver returns the cache driver identifier.
func (s *Store) Driver() core.Driver { return core.DriverMemory }

// Close drops every entry.
func (s *Store) Close() error {
	s.entries.Purge()
	return nil
}
