// Package morph is the public entry point of the calculator. It exposes the
// locus catalog of the bundled species, the cross engine and the probability
// formatters behind four plain functions.
package morph

import (
	"sync"

	"morphcore/pkg/catalog"
	"morphcore/pkg/domain"
	"morphcore/pkg/genetics"
	"morphcore/pkg/probability"
	"morphcore/plugins"
)

var (
	defaultOnce    sync.Once
	defaultCatalog *catalog.Catalog
	defaultEngine  *genetics.Engine
)

func load() {
	defaultOnce.Do(func() {
		cat, err := plugins.BuildCatalog()
		if err != nil {
			// The bundled plugins are static; a registration error is a programming bug.
			panic("morph: build bundled catalog: " + err.Error())
		}
		defaultCatalog = cat
		defaultEngine = genetics.NewEngine(cat)
	})
}

// Catalog returns the bundled species catalog.
func Catalog() *catalog.Catalog {
	load()
	return defaultCatalog
}

// LocusesForSpecies returns the ordered loci known for a species, or an
// empty list when the species is not bundled.
func LocusesForSpecies(species domain.Species) []domain.Locus {
	return Catalog().LocusesForSpecies(species)
}

// CrossAllLoci computes the offspring phenotype distribution of two parents
// across every locus either of them carries. Unknown loci are ignored and an
// unknown species yields a single Normal result. The only error is
// genetics.ErrTooManyActiveLoci.
func CrossAllLoci(father, mother []domain.GeneEntry, species domain.Species) ([]domain.CrossResult, error) {
	load()
	return defaultEngine.Cross(father, mother, species)
}

// ProbabilityToPercent renders p as "25%", "12.5%" or "1.56%".
func ProbabilityToPercent(p float64) string { return probability.Percent(p) }

// ProbabilityToFraction renders p as a reduced fraction such as "1/4".
func ProbabilityToFraction(p float64) string { return probability.Fraction(p) }
