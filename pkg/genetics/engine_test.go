package genetics

import (
	"errors"
	"math"
	"reflect"
	"sort"
	"strconv"
	"strings"
	"testing"

	"morphcore/pkg/domain"
)

func TestCrossHetRecessivePair(t *testing.T) {
	engine := NewEngine(testCatalog(t))
	results, err := engine.Cross(
		[]domain.GeneEntry{gene("Albino", 1)},
		[]domain.GeneEntry{gene("Albino", 1)},
		testSpecies,
	)
	if err != nil {
		t.Fatalf("cross: %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("expected 2 phenotypes, got %+v", results)
	}
	if results[0].Phenotype != domain.NormalPhenotype || results[0].Probability != 0.75 {
		t.Fatalf("expected Normal at 0.75 first, got %+v", results[0])
	}
	if results[1].Phenotype != "Albino" || results[1].Probability != 0.25 {
		t.Fatalf("expected Albino at 0.25, got %+v", results[1])
	}
	// The het carrier (0.5) outweighs the wild type (0.25) within Normal.
	if got := results[0].Genotype; len(got) != 1 || got[0].Copies != 1 || got[0].Label != "Het Albino" {
		t.Fatalf("unexpected representative genotype %+v", got)
	}
}

func TestCrossHomozygousRecessiveByWildType(t *testing.T) {
	engine := NewEngine(testCatalog(t))
	results, err := engine.Cross(
		[]domain.GeneEntry{gene("Albino", 2)},
		nil,
		testSpecies,
	)
	if err != nil {
		t.Fatalf("cross: %v", err)
	}
	if len(results) != 1 {
		t.Fatalf("expected a single result, got %+v", results)
	}
	r := results[0]
	if r.Phenotype != domain.NormalPhenotype || r.Probability != 1 {
		t.Fatalf("expected 100%% Normal, got %+v", r)
	}
	want := []domain.GeneEntry{{Locus: "Albino", Mode: domain.Recessive, Copies: 1, Label: "Het Albino"}}
	if !reflect.DeepEqual(r.Genotype, want) {
		t.Fatalf("genotype = %+v, want %+v", r.Genotype, want)
	}
}

func TestCrossCoDominantHetPair(t *testing.T) {
	engine := NewEngine(testCatalog(t))
	results, err := engine.Cross(
		[]domain.GeneEntry{gene("Pastel", 1)},
		[]domain.GeneEntry{gene("Pastel", 1)},
		testSpecies,
	)
	if err != nil {
		t.Fatalf("cross: %v", err)
	}
	want := []struct {
		phenotype string
		p         float64
	}{
		{"Pastel", 0.5},
		{"Normal", 0.25},
		{"Super Pastel", 0.25},
	}
	if len(results) != len(want) {
		t.Fatalf("expected %d results, got %+v", len(want), results)
	}
	for i, w := range want {
		if results[i].Phenotype != w.phenotype || results[i].Probability != w.p {
			t.Fatalf("result %d = %+v, want %s at %v", i, results[i], w.phenotype, w.p)
		}
	}
}

func TestCrossMergesInvisibleCarriers(t *testing.T) {
	engine := NewEngine(testCatalog(t))
	ev, err := engine.Evaluate(
		[]domain.GeneEntry{gene("Albino", 1)},
		[]domain.GeneEntry{gene("Clown", 1)},
		testSpecies,
	)
	if err != nil {
		t.Fatalf("evaluate: %v", err)
	}
	if ev.Combinations != 4 {
		t.Fatalf("expected 4 combinations, got %d", ev.Combinations)
	}
	if len(ev.Results) != 1 {
		t.Fatalf("expected a single merged result, got %+v", ev.Results)
	}
	r := ev.Results[0]
	if r.Phenotype != domain.NormalPhenotype || r.Probability != 1 {
		t.Fatalf("expected 100%% Normal, got %+v", r)
	}
	// All four combinations are equally likely; the lexicographic tie-break
	// picks the wild type at both loci.
	if len(r.Genotype) != 2 || r.Genotype[0].Copies != 0 || r.Genotype[1].Copies != 0 {
		t.Fatalf("unexpected representative genotype %+v", r.Genotype)
	}
	if r.Genotype[0].Locus != "Albino" || r.Genotype[1].Locus != "Clown" {
		t.Fatalf("genotype should list active loci in catalog order, got %+v", r.Genotype)
	}
}

func TestCrossOrdersByProbabilityThenPhenotype(t *testing.T) {
	engine := NewEngine(testCatalog(t))
	results, err := engine.Cross(
		[]domain.GeneEntry{gene("Pastel", 1), gene("Albino", 1)},
		[]domain.GeneEntry{gene("Albino", 1)},
		testSpecies,
	)
	if err != nil {
		t.Fatalf("cross: %v", err)
	}
	var got []string
	for _, r := range results {
		got = append(got, r.Phenotype+"="+strconv.FormatFloat(r.Probability, 'g', -1, 64))
	}
	want := []string{"Normal=0.375", "Pastel=0.375", "Albino=0.125", "Albino, Pastel=0.125"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("results = %v, want %v", got, want)
	}
}

func TestCrossIgnoresCallerMode(t *testing.T) {
	engine := NewEngine(testCatalog(t))
	father := []domain.GeneEntry{{Locus: "Albino", Mode: domain.Dominant, Copies: 1}}
	mother := []domain.GeneEntry{{Locus: "Albino", Mode: domain.CoDominant, Copies: 1}}
	results, err := engine.Cross(father, mother, testSpecies)
	if err != nil {
		t.Fatalf("cross: %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("catalog mode should win, got %+v", results)
	}
	for _, r := range results {
		for _, g := range r.Genotype {
			if g.Mode != domain.Recessive {
				t.Fatalf("expected catalog mode recessive, got %s", g.Mode)
			}
		}
	}
}

func TestCrossUnknownInputsDegradeToNormal(t *testing.T) {
	engine := NewEngine(testCatalog(t))
	cases := map[string]struct {
		father, mother []domain.GeneEntry
		species        domain.Species
	}{
		"unknown species": {[]domain.GeneEntry{gene("Albino", 2)}, []domain.GeneEntry{gene("Albino", 2)}, "komodo_dragon"},
		"unknown locus":   {[]domain.GeneEntry{gene("Banana", 1)}, []domain.GeneEntry{gene("Banana", 1)}, testSpecies},
		"empty parents":   {nil, nil, testSpecies},
		"zero copies":     {[]domain.GeneEntry{gene("Pastel", 0)}, nil, testSpecies},
		"blank locus":     {[]domain.GeneEntry{gene("  ", 2)}, nil, testSpecies},
	}
	for name, tc := range cases {
		results, err := engine.Cross(tc.father, tc.mother, tc.species)
		if err != nil {
			t.Fatalf("%s: unexpected error %v", name, err)
		}
		if len(results) != 1 || results[0].Phenotype != domain.NormalPhenotype || results[0].Probability != 1 {
			t.Fatalf("%s: expected single 100%% Normal, got %+v", name, results)
		}
		if results[0].Genotype == nil || len(results[0].Genotype) != 0 {
			t.Fatalf("%s: expected empty genotype, got %+v", name, results[0].Genotype)
		}
	}
}

func TestCrossNilEngineSource(t *testing.T) {
	results, err := NewEngine(nil).Cross([]domain.GeneEntry{gene("Albino", 2)}, nil, testSpecies)
	if err != nil {
		t.Fatalf("cross: %v", err)
	}
	if len(results) != 1 || results[0].Phenotype != domain.NormalPhenotype {
		t.Fatalf("expected Normal without a catalog, got %+v", results)
	}
}

func TestCrossResolvesNamesAndDuplicates(t *testing.T) {
	engine := NewEngine(testCatalog(t))
	father := []domain.GeneEntry{gene("  pastel ", 1), gene("Pastel", 2)}
	results, err := engine.Cross(father, nil, testSpecies)
	if err != nil {
		t.Fatalf("cross: %v", err)
	}
	// First entry wins: a het father gives 50/50.
	if len(results) != 2 || results[0].Probability != 0.5 || results[1].Probability != 0.5 {
		t.Fatalf("unexpected results %+v", results)
	}
}

func TestCrossClampsCopies(t *testing.T) {
	engine := NewEngine(testCatalog(t))
	results, err := engine.Cross([]domain.GeneEntry{gene("Pastel", 7)}, []domain.GeneEntry{gene("Pastel", -3)}, testSpecies)
	if err != nil {
		t.Fatalf("cross: %v", err)
	}
	if len(results) != 1 || results[0].Phenotype != "Pastel" || results[0].Probability != 1 {
		t.Fatalf("expected clamped 2 x 0 to give 100%% Pastel, got %+v", results)
	}
}

func TestCrossDominantHomozygousLooksTheSame(t *testing.T) {
	engine := NewEngine(testCatalog(t))
	results, err := engine.Cross([]domain.GeneEntry{gene("Pinstripe", 1)}, []domain.GeneEntry{gene("Pinstripe", 1)}, testSpecies)
	if err != nil {
		t.Fatalf("cross: %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("expected Pinstripe and Normal, got %+v", results)
	}
	if results[0].Phenotype != "Pinstripe" || results[0].Probability != 0.75 {
		t.Fatalf("unexpected first result %+v", results[0])
	}
	if results[0].Genotype[0].Copies != 1 {
		t.Fatalf("het pinstripe (0.5) should represent the group, got %+v", results[0].Genotype)
	}
}

func TestCrossSuperNameLabel(t *testing.T) {
	engine := NewEngine(testCatalog(t))
	results, err := engine.Cross([]domain.GeneEntry{gene("Mojave", 2)}, []domain.GeneEntry{gene("Mojave", 2)}, testSpecies)
	if err != nil {
		t.Fatalf("cross: %v", err)
	}
	if len(results) != 1 || results[0].Phenotype != "Blue Eyed Leucistic" {
		t.Fatalf("expected BEL, got %+v", results)
	}
}

func TestCrossTooManyActiveLoci(t *testing.T) {
	engine := NewEngine(testCatalog(t), WithMaxActiveLoci(1))
	if engine.MaxActiveLoci() != 1 {
		t.Fatalf("expected limit 1, got %d", engine.MaxActiveLoci())
	}
	_, err := engine.Cross([]domain.GeneEntry{gene("Albino", 1), gene("Pastel", 1)}, nil, testSpecies)
	if !errors.Is(err, ErrTooManyActiveLoci) {
		t.Fatalf("expected ErrTooManyActiveLoci, got %v", err)
	}
	if NewEngine(nil, WithMaxActiveLoci(0)).MaxActiveLoci() != DefaultMaxActiveLoci {
		t.Fatalf("non-positive limit should keep the default")
	}
}

func TestEvaluateStates(t *testing.T) {
	engine := NewEngine(testCatalog(t))
	ev, err := engine.Evaluate(
		[]domain.GeneEntry{gene("Albino", 1), gene("Pastel", 1)},
		[]domain.GeneEntry{gene("Albino", 1), gene("Pastel", 1)},
		testSpecies,
	)
	if err != nil {
		t.Fatalf("evaluate: %v", err)
	}
	if len(ev.Active) != 2 || ev.Active[0].Locus.Name != "Albino" || ev.Active[1].Locus.Name != "Pastel" {
		t.Fatalf("unexpected active loci %+v", ev.Active)
	}
	if ev.Combinations != 9 {
		t.Fatalf("expected 9 combinations, got %d", ev.Combinations)
	}
	// Albino folds into 2 visual states, Pastel into 3.
	if ev.States != 6 {
		t.Fatalf("expected 6 states, got %d", ev.States)
	}
	if len(ev.Results) != 6 {
		t.Fatalf("expected 6 phenotypes, got %d", len(ev.Results))
	}
}

// TestCrossMatchesCartesianProduct checks the folding engine against a direct
// enumeration of every combination for all parent pairs over four loci.
func TestCrossMatchesCartesianProduct(t *testing.T) {
	cat := testCatalog(t)
	engine := NewEngine(cat)
	loci := []string{"Albino", "Pastel", "Mojave", "Pinstripe"}
	genotypes := allGenotypes(loci)
	for _, father := range genotypes {
		for _, mother := range genotypes {
			got, err := engine.Cross(father, mother, testSpecies)
			if err != nil {
				t.Fatalf("cross: %v", err)
			}
			want := bruteForce(engine, father, mother)
			if !reflect.DeepEqual(got, want) {
				t.Fatalf("father %v mother %v:\n got %+v\nwant %+v", father, mother, got, want)
			}
			if math.Abs(sumProbabilities(got)-1) > 1e-6 {
				t.Fatalf("probabilities sum to %v", sumProbabilities(got))
			}
			seen := make(map[string]bool, len(got))
			for _, r := range got {
				if seen[r.Phenotype] {
					t.Fatalf("duplicate phenotype %q", r.Phenotype)
				}
				seen[r.Phenotype] = true
				if r.Probability <= 0 || r.Probability > 1 {
					t.Fatalf("probability out of range: %+v", r)
				}
			}
		}
	}
}

func allGenotypes(loci []string) [][]domain.GeneEntry {
	out := [][]domain.GeneEntry{nil}
	for _, locus := range loci {
		var next [][]domain.GeneEntry
		for _, prefix := range out {
			for copies := 0; copies <= domain.MaxCopies; copies++ {
				g := append(append([]domain.GeneEntry(nil), prefix...), gene(locus, copies))
				next = append(next, g)
			}
		}
		out = next
	}
	return out
}

func bruteForce(engine *Engine, father, mother []domain.GeneEntry) []domain.CrossResult {
	active := engine.ActiveLoci(father, mother, testSpecies)
	type combo struct {
		genes []domain.GeneEntry
		p     float64
	}
	combos := []combo{{p: 1}}
	for _, al := range active {
		var next []combo
		for _, c := range combos {
			for _, copies := range al.Distribution.Outcomes() {
				g := append(append([]domain.GeneEntry(nil), c.genes...), domain.GeneEntry{
					Locus: al.Locus.Name, Mode: al.Locus.Mode, Copies: copies, Label: GenotypeLabel(al.Locus, copies),
				})
				next = append(next, combo{genes: g, p: c.p * al.Distribution.P(copies)})
			}
		}
		combos = next
	}

	groups := map[string]*domain.CrossResult{}
	bestP := map[string]float64{}
	for i, c := range combos {
		var labels []string
		for j, g := range c.genes {
			if e := Express(active[j].Locus, g.Copies); e.Expressed() {
				labels = append(labels, e.Label)
			}
		}
		ph := PhenotypeString(labels)
		r, ok := groups[ph]
		if !ok {
			genes := c.genes
			if genes == nil {
				genes = []domain.GeneEntry{}
			}
			groups[ph] = &domain.CrossResult{Phenotype: ph, Genotype: genes, Probability: c.p}
			bestP[ph] = c.p
			continue
		}
		r.Probability += c.p
		if c.p > bestP[ph] || (c.p == bestP[ph] && lessGenotype(c.genes, r.Genotype)) {
			r.Genotype = combos[i].genes
			bestP[ph] = c.p
		}
	}
	out := make([]domain.CrossResult, 0, len(groups))
	for _, r := range groups {
		out = append(out, *r)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Probability != out[j].Probability {
			return out[i].Probability > out[j].Probability
		}
		return strings.Compare(out[i].Phenotype, out[j].Phenotype) < 0
	})
	return out
}
