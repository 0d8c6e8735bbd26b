package mcptools

import (
	"testing"

	"morphcore/testutil"
)

// TestNoInfraImports ensures storage backends are reached through their facades.
func TestNoInfraImports(t *testing.T) {
	testutil.AssertNoDirectImports(t, ".", testutil.InfraImportForbidden, "adapters must use internal/blob and internal/cache")
}
