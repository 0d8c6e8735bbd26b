package cache

import (
	"testing"

	"morphcore/testutil"
)

// TestOnlyCachePackageImportsInfra keeps the concrete cache backends behind
// the cache facade; everything else depends on cache.Store.
func TestOnlyCachePackageImportsInfra(t *testing.T) {
	testutil.AssertInfraBehindFacade(t, "morphcore/internal/infra/cache", "morphcore/internal/cache")
}
