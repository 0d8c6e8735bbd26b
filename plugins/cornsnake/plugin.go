// Package cornsnake registers the corn snake (Pantherophis guttatus) locus catalog.
package cornsnake

import (
	"morphcore/pkg/catalog"
	"morphcore/pkg/domain"
)

// Plugin contributes corn snake loci.
type Plugin struct{}

// New constructs a corn snake plugin instance.
func New() Plugin {
	return Plugin{}
}

// Name returns the plugin identifier.
func (Plugin) Name() string { return "corn_snake" }

// Version returns the plugin semantic version.
func (Plugin) Version() string { return "0.2.0" }

// Register adds the species and its loci in display order.
func (Plugin) Register(b *catalog.Builder) error {
	if err := b.RegisterSpecies(domain.SpeciesCornSnake, "Corn Snake"); err != nil {
		return err
	}
	return b.RegisterLoci(domain.SpeciesCornSnake,
		domain.Locus{Name: "Tessera", Mode: domain.Dominant},
		domain.Locus{Name: "Buf", Mode: domain.Dominant},
		domain.Locus{Name: "Amelanistic", Mode: domain.Recessive},
		domain.Locus{Name: "Anerythristic", Mode: domain.Recessive},
		domain.Locus{Name: "Hypomelanistic", Mode: domain.Recessive},
		domain.Locus{Name: "Charcoal", Mode: domain.Recessive},
		domain.Locus{Name: "Caramel", Mode: domain.Recessive},
		domain.Locus{Name: "Lavender", Mode: domain.Recessive},
		domain.Locus{Name: "Diffused", Mode: domain.Recessive},
		domain.Locus{Name: "Motley", Mode: domain.Recessive},
		domain.Locus{Name: "Palmetto", Mode: domain.Recessive},
		domain.Locus{Name: "Sunkissed", Mode: domain.Recessive},
	)
}
