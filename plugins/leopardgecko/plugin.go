// Package leopardgecko registers the leopard gecko (Eublepharis macularius) locus catalog.
package leopardgecko

import (
	"morphcore/pkg/catalog"
	"morphcore/pkg/domain"
)

// Plugin contributes leopard gecko loci.
type Plugin struct{}

// New constructs a leopard gecko plugin instance.
func New() Plugin {
	return Plugin{}
}

// Name returns the plugin identifier.
func (Plugin) Name() string { return "leopard_gecko" }

// Version returns the plugin semantic version.
func (Plugin) Version() string { return "0.2.0" }

// Register adds the species and its loci in display order.
func (Plugin) Register(b *catalog.Builder) error {
	if err := b.RegisterSpecies(domain.SpeciesLeopardGecko, "Leopard Gecko"); err != nil {
		return err
	}
	return b.RegisterLoci(domain.SpeciesLeopardGecko,
		domain.Locus{Name: "Mack Snow", Mode: domain.CoDominant, SuperName: "Super Snow"},
		domain.Locus{Name: "Lemon Frost", Mode: domain.CoDominant},
		domain.Locus{Name: "TUG Snow", Mode: domain.CoDominant, SuperName: "Super TUG Snow"},
		domain.Locus{Name: "White and Yellow", Mode: domain.Dominant},
		domain.Locus{Name: "Enigma", Mode: domain.Dominant},
		domain.Locus{Name: "Tremper Albino", Mode: domain.Recessive},
		domain.Locus{Name: "Bell Albino", Mode: domain.Recessive},
		domain.Locus{Name: "Rainwater Albino", Mode: domain.Recessive},
		domain.Locus{Name: "Eclipse", Mode: domain.Recessive},
		domain.Locus{Name: "Blizzard", Mode: domain.Recessive},
		domain.Locus{Name: "Murphy Patternless", Mode: domain.Recessive},
		domain.Locus{Name: "Marble Eye", Mode: domain.Recessive},
	)
}
