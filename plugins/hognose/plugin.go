// Package hognose registers the western hognose (Heterodon nasicus) locus catalog.
package hognose

import (
	"morphcore/pkg/catalog"
	"morphcore/pkg/domain"
)

// Plugin contributes western hognose loci.
type Plugin struct{}

// New constructs a western hognose plugin instance.
func New() Plugin {
	return Plugin{}
}

// Name returns the plugin identifier.
func (Plugin) Name() string { return "western_hognose" }

// Version returns the plugin semantic version.
func (Plugin) Version() string { return "0.1.0" }

// Register adds the species and its loci in display order.
func (Plugin) Register(b *catalog.Builder) error {
	if err := b.RegisterSpecies(domain.SpeciesWesternHognose, "Western Hognose"); err != nil {
		return err
	}
	return b.RegisterLoci(domain.SpeciesWesternHognose,
		domain.Locus{Name: "Anaconda", Mode: domain.CoDominant, SuperName: "Superconda"},
		domain.Locus{Name: "Arctic", Mode: domain.CoDominant, SuperName: "Super Arctic"},
		domain.Locus{Name: "Albino", Mode: domain.Recessive},
		domain.Locus{Name: "Axanthic", Mode: domain.Recessive},
		domain.Locus{Name: "Toffeeglow", Mode: domain.Recessive},
		domain.Locus{Name: "Lavender", Mode: domain.Recessive},
		domain.Locus{Name: "Evans Hypo", Mode: domain.Recessive},
		domain.Locus{Name: "Sable", Mode: domain.Recessive},
	)
}
