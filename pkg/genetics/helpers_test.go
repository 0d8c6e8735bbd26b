package genetics

import (
	"testing"

	"morphcore/pkg/catalog"
	"morphcore/pkg/domain"
)

const testSpecies domain.Species = "test_python"

func testCatalog(t testing.TB) *catalog.Catalog {
	t.Helper()
	b := catalog.NewBuilder()
	if err := b.RegisterSpecies(testSpecies, "Test Python"); err != nil {
		t.Fatalf("register species: %v", err)
	}
	err := b.RegisterLoci(testSpecies,
		domain.Locus{Name: "Albino", Mode: domain.Recessive},
		domain.Locus{Name: "Clown", Mode: domain.Recessive},
		domain.Locus{Name: "Pastel", Mode: domain.CoDominant},
		domain.Locus{Name: "Mojave", Mode: domain.CoDominant, SuperName: "Blue Eyed Leucistic"},
		domain.Locus{Name: "Pinstripe", Mode: domain.Dominant},
	)
	if err != nil {
		t.Fatalf("register loci: %v", err)
	}
	return b.Build()
}

func gene(locus string, copies int) domain.GeneEntry {
	return domain.GeneEntry{Locus: locus, Copies: copies}
}

func sumProbabilities(results []domain.CrossResult) float64 {
	var total float64
	for _, r := range results {
		total += r.Probability
	}
	return total
}

func findPhenotype(results []domain.CrossResult, phenotype string) (domain.CrossResult, bool) {
	for _, r := range results {
		if r.Phenotype == phenotype {
			return r, true
		}
	}
	return domain.CrossResult{}, false
}
