// Package cache is the entry point to cross memoisation. It re-exports the
// core abstractions and opens the configured backend.
package cache

import "morphcore/internal/cache/core"

type (
	// Driver identifies a cache backend.
	Driver = core.Driver
	// Entry is a memoised cross.
	Entry = core.Entry
	// Store is the interface for cache backends.
	Store = core.Store
)

const (
	DriverMemory   = core.DriverMemory
	DriverSQLite   = core.DriverSQLite
	DriverPostgres = core.DriverPostgres
	DriverNone     = core.DriverNone
)
