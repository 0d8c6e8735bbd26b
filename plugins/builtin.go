package plugins

import (
	"morphcore/pkg/catalog"
	"morphcore/plugins/ballpython"
	"morphcore/plugins/beardeddragon"
	"morphcore/plugins/cornsnake"
	"morphcore/plugins/hognose"
	"morphcore/plugins/leopardgecko"
)

// Builtin returns the bundled species plugins.
func Builtin() []catalog.Plugin {
	return []catalog.Plugin{
		ballpython.New(),
		leopardgecko.New(),
		cornsnake.New(),
		hognose.New(),
		beardeddragon.New(),
	}
}

// BuildCatalog installs the bundled plugins followed by any extras (such as
// a YAML overlay) and freezes the result.
func BuildCatalog(extra ...catalog.Plugin) (*catalog.Catalog, error) {
	b := catalog.NewBuilder()
	for _, p := range append(Builtin(), extra...) {
		if err := b.Install(p); err != nil {
			return nil, err
		}
	}
	return b.Build(), nil
}

// LoadCatalog builds the bundled catalog extended by the YAML overlay at
// overlayPath. An empty path skips the overlay.
func LoadCatalog(overlayPath string) (*catalog.Catalog, error) {
	if overlayPath == "" {
		return BuildCatalog()
	}
	overlay, err := catalog.LoadOverlayFile(overlayPath)
	if err != nil {
		return nil, err
	}
	return BuildCatalog(overlay)
}
