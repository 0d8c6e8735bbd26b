package testutil

import (
	"sort"
	"strings"
	"testing"

	"golang.org/x/tools/go/packages"
)

// AssertInfraBehindFacade loads every package of the module (tests included)
// and fails if a package outside facadePrefix or infraPrefix imports a package
// under infraPrefix.
func AssertInfraBehindFacade(t testing.TB, infraPrefix, facadePrefix string) {
	t.Helper()
	cfg := &packages.Config{Mode: packages.NeedName | packages.NeedImports, Tests: true}
	pkgs, err := packages.Load(cfg, modulePath+"/...")
	if err != nil {
		t.Fatalf("load packages: %v", err)
	}
	seen := make(map[string]struct{})
	for _, pkg := range pkgs {
		if hasPathPrefix(pkg.PkgPath, facadePrefix) || hasPathPrefix(pkg.PkgPath, infraPrefix) {
			continue
		}
		for importPath := range pkg.Imports {
			if hasPathPrefix(importPath, infraPrefix) {
				seen[pkg.PkgPath+": "+importPath] = struct{}{}
			}
		}
	}
	if len(seen) == 0 {
		return
	}
	violations := make([]string, 0, len(seen))
	for v := range seen {
		violations = append(violations, v)
	}
	sort.Strings(violations)
	for _, v := range violations {
		t.Errorf("forbidden import of %s: %s", infraPrefix, v)
	}
	t.Fatalf("found %d forbidden imports of %s", len(violations), infraPrefix)
}

// hasPathPrefix matches path itself or any package below it. Test variants
// such as "p [p.test]" and "p_test" are folded onto p.
func hasPathPrefix(path, prefix string) bool {
	path, _, _ = strings.Cut(path, " ")
	path = strings.TrimSuffix(path, "_test")
	return path == prefix || strings.HasPrefix(path, prefix+"/")
}
