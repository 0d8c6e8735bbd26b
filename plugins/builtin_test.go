package plugins

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"morphcore/pkg/catalog"
	"morphcore/pkg/domain"
)

func TestBuildCatalogRegistersBundledSpecies(t *testing.T) {
	cat, err := BuildCatalog()
	if err != nil {
		t.Fatalf("build catalog: %v", err)
	}
	want := []domain.Species{
		domain.SpeciesBallPython,
		domain.SpeciesBeardedDragon,
		domain.SpeciesCornSnake,
		domain.SpeciesLeopardGecko,
		domain.SpeciesWesternHognose,
	}
	species := cat.Species()
	if len(species) != len(want) {
		t.Fatalf("expected %d species, got %+v", len(want), species)
	}
	for i, id := range want {
		if species[i].ID != id {
			t.Fatalf("species %d = %s, want %s", i, species[i].ID, id)
		}
		if species[i].Loci == 0 || species[i].DisplayName == "" {
			t.Fatalf("species %s missing loci or display name: %+v", id, species[i])
		}
	}
	if got := len(cat.Plugins()); got != len(Builtin()) {
		t.Fatalf("expected %d plugins, got %d", len(Builtin()), got)
	}
}

func TestBundledLociAreValid(t *testing.T) {
	cat, err := BuildCatalog()
	if err != nil {
		t.Fatalf("build catalog: %v", err)
	}
	for _, sp := range cat.Species() {
		for _, locus := range cat.LocusesForSpecies(sp.ID) {
			if !locus.Mode.Valid() {
				t.Fatalf("%s/%s has invalid mode %q", sp.ID, locus.Name, locus.Mode)
			}
			if locus.SuperName != "" && locus.Mode != domain.CoDominant {
				t.Fatalf("%s/%s: super name only applies to co-dominant loci", sp.ID, locus.Name)
			}
		}
	}
	pastel, ok := cat.Locus(domain.SpeciesBallPython, "pastel")
	if !ok || pastel.Mode != domain.CoDominant {
		t.Fatalf("expected co-dominant pastel, got %+v %v", pastel, ok)
	}
	if fire, _ := cat.Locus(domain.SpeciesBallPython, "Fire"); fire.SuperLabel() != "Black Eyed Leucistic" {
		t.Fatalf("unexpected fire super label %q", fire.SuperLabel())
	}
}

type extraSpecies struct{}

func (extraSpecies) Name() string    { return "crested_gecko" }
func (extraSpecies) Version() string { return "0.0.1" }
func (extraSpecies) Register(b *catalog.Builder) error {
	if err := b.RegisterSpecies("crested_gecko", ""); err != nil {
		return err
	}
	return b.RegisterLocus("crested_gecko", domain.Locus{Name: "Lilly White", Mode: domain.CoDominant})
}

func TestBuildCatalogWithExtras(t *testing.T) {
	cat, err := BuildCatalog(extraSpecies{})
	if err != nil {
		t.Fatalf("build catalog: %v", err)
	}
	if !cat.HasSpecies("crested_gecko") {
		t.Fatalf("expected crested gecko to be registered")
	}
	if _, err := BuildCatalog(extraSpecies{}, extraSpecies{}); !errors.Is(err, catalog.ErrDuplicatePlugin) {
		t.Fatalf("expected duplicate plugin error, got %v", err)
	}
}

func TestLoadCatalogWithOverlay(t *testing.T) {
	path := filepath.Join(t.TempDir(), "overlay.yaml")
	overlay := "species:\n  - id: crested_gecko\n    loci:\n      - name: Lilly White\n        mode: co-dominant\n"
	if err := os.WriteFile(path, []byte(overlay), 0o600); err != nil {
		t.Fatalf("write overlay: %v", err)
	}
	cat, err := LoadCatalog(path)
	if err != nil {
		t.Fatalf("load catalog: %v", err)
	}
	if !cat.HasSpecies("crested_gecko") || !cat.HasSpecies(domain.SpeciesBallPython) {
		t.Fatalf("expected bundled and overlay species, got %+v", cat.Species())
	}

	plain, err := LoadCatalog("")
	if err != nil {
		t.Fatalf("load bundled catalog: %v", err)
	}
	if plain.HasSpecies("crested_gecko") {
		t.Fatalf("empty overlay path must not add species")
	}

	if _, err := LoadCatalog(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Fatalf("expected error for missing overlay")
	}
}
