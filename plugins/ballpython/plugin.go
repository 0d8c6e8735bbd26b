// Package ballpython registers the ball python (Python regius) locus catalog.
package ballpython

import (
	"morphcore/pkg/catalog"
	"morphcore/pkg/domain"
)

// Plugin contributes ball python loci.
type Plugin struct{}

// New constructs a ball python plugin instance.
func New() Plugin {
	return Plugin{}
}

// Name returns the plugin identifier.
func (Plugin) Name() string { return "ball_python" }

// Version returns the plugin semantic version.
func (Plugin) Version() string { return "0.3.0" }

// Register adds the species and its loci in display order.
func (Plugin) Register(b *catalog.Builder) error {
	if err := b.RegisterSpecies(domain.SpeciesBallPython, "Ball Python"); err != nil {
		return err
	}
	return b.RegisterLoci(domain.SpeciesBallPython, Loci()...)
}

// Loci returns the ball python loci. Allelic complexes (the BEL and
// yellow belly groups) are modelled as independent loci.
func Loci() []domain.Locus {
	return []domain.Locus{
		{Name: "Pastel", Mode: domain.CoDominant},
		{Name: "Mojave", Mode: domain.CoDominant, SuperName: "Super Mojave"},
		{Name: "Lesser", Mode: domain.CoDominant, SuperName: "Super Lesser"},
		{Name: "Butter", Mode: domain.CoDominant, SuperName: "Super Butter"},
		{Name: "Fire", Mode: domain.CoDominant, SuperName: "Black Eyed Leucistic"},
		{Name: "Yellow Belly", Mode: domain.CoDominant, SuperName: "Ivory"},
		{Name: "Enchi", Mode: domain.CoDominant},
		{Name: "Cinnamon", Mode: domain.CoDominant},
		{Name: "Black Pastel", Mode: domain.CoDominant},
		{Name: "Leopard", Mode: domain.CoDominant},
		{Name: "GHI", Mode: domain.CoDominant},
		{Name: "Spotnose", Mode: domain.CoDominant},
		{Name: "Banana", Mode: domain.CoDominant},
		{Name: "Spider", Mode: domain.Dominant},
		{Name: "Pinstripe", Mode: domain.Dominant},
		{Name: "Albino", Mode: domain.Recessive},
		{Name: "Piebald", Mode: domain.Recessive},
		{Name: "Clown", Mode: domain.Recessive},
		{Name: "Axanthic", Mode: domain.Recessive},
		{Name: "Lavender Albino", Mode: domain.Recessive},
		{Name: "Genetic Stripe", Mode: domain.Recessive},
		{Name: "Desert Ghost", Mode: domain.Recessive},
	}
}
