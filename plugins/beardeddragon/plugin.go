// Package beardeddragon registers the central bearded dragon (Pogona vitticeps) locus catalog.
package beardeddragon

import (
	"morphcore/pkg/catalog"
	"morphcore/pkg/domain"
)

// Plugin contributes bearded dragon loci.
type Plugin struct{}

// New constructs a bearded dragon plugin instance.
func New() Plugin {
	return Plugin{}
}

// Name returns the plugin identifier.
func (Plugin) Name() string { return "bearded_dragon" }

// Version returns the plugin semantic version.
func (Plugin) Version() string { return "0.1.0" }

// Register adds the species and its loci in display order.
func (Plugin) Register(b *catalog.Builder) error {
	if err := b.RegisterSpecies(domain.SpeciesBeardedDragon, "Bearded Dragon"); err != nil {
		return err
	}
	return b.RegisterLoci(domain.SpeciesBeardedDragon,
		domain.Locus{Name: "Leatherback", Mode: domain.CoDominant, SuperName: "Silkback"},
		domain.Locus{Name: "Dunner", Mode: domain.Dominant},
		domain.Locus{Name: "Hypomelanistic", Mode: domain.Recessive},
		domain.Locus{Name: "Translucent", Mode: domain.Recessive},
		domain.Locus{Name: "Witblits", Mode: domain.Recessive},
		domain.Locus{Name: "Zero", Mode: domain.Recessive},
	)
}
