package genetics

import (
	"errors"
	"fmt"
	"sort"

	"morphcore/pkg/catalog"
	"morphcore/pkg/domain"
)

// DefaultMaxActiveLoci bounds the number of loci a single cross may combine.
// The number of phenotype states grows exponentially with active loci.
const DefaultMaxActiveLoci = 20

// ErrTooManyActiveLoci is returned when a cross exceeds the engine's locus limit.
var ErrTooManyActiveLoci = errors.New("too many active loci")

// zeroMass is the probability below which a phenotype group is dropped.
const zeroMass = 1e-9

// LocusSource supplies the ordered loci of a species.
type LocusSource interface {
	LocusesForSpecies(species domain.Species) []domain.Locus
}

// Engine combines per-locus distributions into offspring phenotype
// distributions. It holds no mutable state and is safe for concurrent use.
type Engine struct {
	loci      LocusSource
	maxActive int
}

// Option configures an Engine.
type Option func(*Engine)

// WithMaxActiveLoci overrides DefaultMaxActiveLoci. Non-positive values keep the default.
func WithMaxActiveLoci(n int) Option {
	return func(e *Engine) {
		if n > 0 {
			e.maxActive = n
		}
	}
}

// NewEngine constructs an engine over the given locus source.
func NewEngine(loci LocusSource, opts ...Option) *Engine {
	e := &Engine{loci: loci, maxActive: DefaultMaxActiveLoci}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// MaxActiveLoci returns the configured locus limit.
func (e *Engine) MaxActiveLoci() int { return e.maxActive }

// ActiveLocus is a catalog locus at which at least one parent carries the variant.
type ActiveLocus struct {
	Locus        domain.Locus
	Father       int
	Mother       int
	Distribution Distribution
}

// Evaluation is a cross result together with bookkeeping about the work done.
type Evaluation struct {
	Results []domain.CrossResult
	Active  []ActiveLocus
	// Combinations is the size of the full Cartesian product of per-locus outcomes.
	Combinations uint64
	// States is the peak number of phenotype states held while folding loci.
	States int
}

// Cross returns the offspring phenotype distribution for two parents.
func (e *Engine) Cross(father, mother []domain.GeneEntry, species domain.Species) ([]domain.CrossResult, error) {
	ev, err := e.Evaluate(father, mother, species)
	if err != nil {
		return nil, err
	}
	return ev.Results, nil
}

// ActiveLoci resolves both parents against the species catalog and returns
// the loci that take part in the cross, in catalog order. Entries naming
// loci outside the catalog are ignored; the first entry wins when a parent
// repeats a locus.
func (e *Engine) ActiveLoci(father, mother []domain.GeneEntry, species domain.Species) []ActiveLocus {
	var loci []domain.Locus
	if e.loci != nil {
		loci = e.loci.LocusesForSpecies(species)
	}
	fc := copiesByLocus(father)
	mc := copiesByLocus(mother)
	active := make([]ActiveLocus, 0, len(loci))
	for _, locus := range loci {
		key := catalog.NormalizeName(locus.Name)
		cf, cm := fc[key], mc[key]
		if cf == 0 && cm == 0 {
			continue
		}
		active = append(active, ActiveLocus{
			Locus:        locus,
			Father:       cf,
			Mother:       cm,
			Distribution: Transmit(cf, cm),
		})
	}
	return active
}

// Evaluate runs a cross and reports the work done alongside the results.
func (e *Engine) Evaluate(father, mother []domain.GeneEntry, species domain.Species) (Evaluation, error) {
	active := e.ActiveLoci(father, mother, species)
	if len(active) > e.maxActive {
		return Evaluation{Active: active}, fmt.Errorf("%w: %d active, limit %d", ErrTooManyActiveLoci, len(active), e.maxActive)
	}

	combinations := uint64(1)
	for _, al := range active {
		combinations *= uint64(len(al.Distribution.Outcomes()))
	}

	states, peak := fold(active)
	return Evaluation{
		Results:      group(states),
		Active:       active,
		Combinations: combinations,
		States:       peak,
	}, nil
}

func copiesByLocus(entries []domain.GeneEntry) map[string]int {
	out := make(map[string]int, len(entries))
	for _, entry := range entries {
		key := catalog.NormalizeName(entry.Locus)
		if key == "" {
			continue
		}
		if _, seen := out[key]; seen {
			continue
		}
		out[key] = domain.ClampCopies(entry.Copies)
	}
	return out
}

// state is a set of partial combinations sharing the same visual states over
// the loci folded so far. mass is their summed joint probability; best is
// the most likely member, used as the group's representative genotype.
type state struct {
	signature []byte
	labels    []string
	mass      float64
	best      []domain.GeneEntry
	bestMass  float64
}

// fold applies independent assortment one locus at a time. Partial
// combinations whose visual states agree are merged as they are produced, so
// the full Cartesian product is never materialised. Because every factor is
// positive, the representative of a merged state is the per-locus best
// extension of the prefix representative.
func fold(active []ActiveLocus) ([]*state, int) {
	current := []*state{{mass: 1, bestMass: 1}}
	peak := 1
	for _, al := range active {
		next := make([]*state, 0, len(current)*2)
		index := make(map[string]*state, len(current)*2)
		outcomes := al.Distribution.Outcomes()
		for _, prev := range current {
			for _, copies := range outcomes {
				p := al.Distribution.P(copies)
				expr := Express(al.Locus, copies)
				gene := domain.GeneEntry{
					Locus:  al.Locus.Name,
					Mode:   al.Locus.Mode,
					Copies: copies,
					Label:  GenotypeLabel(al.Locus, copies),
				}
				sig := append(append(make([]byte, 0, len(prev.signature)+1), prev.signature...), byte('0'+expr.State))
				candidate := appendGene(prev.best, gene)
				candidateMass := prev.bestMass * p

				st, ok := index[string(sig)]
				if !ok {
					labels := prev.labels
					if expr.Expressed() {
						labels = append(append(make([]string, 0, len(prev.labels)+1), prev.labels...), expr.Label)
					}
					st = &state{signature: sig, labels: labels, best: candidate, bestMass: candidateMass}
					index[string(sig)] = st
					next = append(next, st)
				} else if betterGenotype(candidateMass, candidate, st.bestMass, st.best) {
					st.best, st.bestMass = candidate, candidateMass
				}
				st.mass += prev.mass * p
			}
		}
		current = next
		if len(current) > peak {
			peak = len(current)
		}
	}
	return current, peak
}

func appendGene(prefix []domain.GeneEntry, gene domain.GeneEntry) []domain.GeneEntry {
	out := make([]domain.GeneEntry, len(prefix), len(prefix)+1)
	copy(out, prefix)
	return append(out, gene)
}

// betterGenotype orders representative candidates: higher joint probability
// first, then lexicographically smaller (locus name, copies) sequence.
// Probabilities here are exact dyadic values, so equality is meaningful.
func betterGenotype(mass float64, genes []domain.GeneEntry, otherMass float64, other []domain.GeneEntry) bool {
	if mass != otherMass {
		return mass > otherMass
	}
	return lessGenotype(genes, other)
}

func lessGenotype(a, b []domain.GeneEntry) bool {
	for i := 0; i < len(a) && i < len(b); i++ {
		if a[i].Locus != b[i].Locus {
			return a[i].Locus < b[i].Locus
		}
		if a[i].Copies != b[i].Copies {
			return a[i].Copies < b[i].Copies
		}
	}
	return len(a) < len(b)
}

// group merges states by phenotype string, drops numerically empty groups
// and orders the result by probability, then phenotype.
func group(states []*state) []domain.CrossResult {
	type bucket struct {
		result   domain.CrossResult
		bestMass float64
	}
	buckets := make(map[string]*bucket, len(states))
	order := make([]string, 0, len(states))
	for _, st := range states {
		phenotype := PhenotypeString(st.labels)
		b, ok := buckets[phenotype]
		if !ok {
			b = &bucket{result: domain.CrossResult{Phenotype: phenotype, Genotype: st.best}, bestMass: st.bestMass}
			buckets[phenotype] = b
			order = append(order, phenotype)
		} else if betterGenotype(st.bestMass, st.best, b.bestMass, b.result.Genotype) {
			b.result.Genotype, b.bestMass = st.best, st.bestMass
		}
		b.result.Probability += st.mass
	}

	results := make([]domain.CrossResult, 0, len(order))
	for _, phenotype := range order {
		b := buckets[phenotype]
		if b.result.Probability < zeroMass {
			continue
		}
		if b.result.Genotype == nil {
			b.result.Genotype = []domain.GeneEntry{}
		}
		results = append(results, b.result)
	}
	sort.SliceStable(results, func(i, j int) bool {
		if results[i].Probability != results[j].Probability {
			return results[i].Probability > results[j].Probability
		}
		return results[i].Phenotype < results[j].Phenotype
	})
	return results
}
