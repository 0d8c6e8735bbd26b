package genetics

import (
	"errors"
	"fmt"
	"strings"

	"morphcore/pkg/catalog"
	"morphcore/pkg/domain"
)

// Parse errors.
var (
	ErrUnknownLocus       = errors.New("unknown locus")
	ErrUncertainGenotype  = errors.New("uncertain genotype")
	ErrRepeatedLocus      = errors.New("locus listed more than once")
	errEmptyGenotypeToken = errors.New("empty genotype token")
)

// LocusResolver looks up loci by name within a species.
type LocusResolver interface {
	LocusSource
	Locus(species domain.Species, name string) (domain.Locus, bool)
}

// ParseGenotype converts keeper shorthand such as "pastel, het albino,
// super mojave" into gene entries. A bare locus name means the visual form:
// two copies for a recessive locus, one for co-dominant and dominant loci.
// Prefixes "het", "super", "homozygous"/"homo" and "visual" adjust the count,
// and a co-dominant super name ("Blue Eyed Leucistic") means two copies.
// "Normal" tokens are ignored. Possible hets cannot be modelled and are
// rejected.
func ParseGenotype(loci LocusResolver, species domain.Species, text string) ([]domain.GeneEntry, error) {
	var out []domain.GeneEntry
	seen := make(map[string]struct{})
	for _, raw := range strings.Split(text, ",") {
		token := catalog.NormalizeName(raw)
		if token == "" || token == catalog.NormalizeName(domain.NormalPhenotype) {
			continue
		}
		entry, err := parseToken(loci, species, token)
		if err != nil {
			return nil, fmt.Errorf("%q: %w", strings.TrimSpace(raw), err)
		}
		key := catalog.NormalizeName(entry.Locus)
		if _, dup := seen[key]; dup {
			return nil, fmt.Errorf("%w: %s", ErrRepeatedLocus, entry.Locus)
		}
		seen[key] = struct{}{}
		out = append(out, entry)
	}
	return out, nil
}

func parseToken(loci LocusResolver, species domain.Species, token string) (domain.GeneEntry, error) {
	if strings.HasPrefix(token, "pos ") || strings.HasPrefix(token, "possible ") || strings.Contains(token, "%") {
		return domain.GeneEntry{}, ErrUncertainGenotype
	}
	if locus, ok := superForm(loci, species, token); ok {
		return domain.GeneEntry{Locus: locus.Name, Mode: locus.Mode, Copies: 2}, nil
	}

	copies := -1
	name := token
	for _, prefix := range []struct {
		word   string
		copies int
	}{
		{"het ", 1},
		{"super ", 2},
		{"homozygous ", 2},
		{"homo ", 2},
		{"visual ", 0},
	} {
		if strings.HasPrefix(token, prefix.word) {
			name = strings.TrimSpace(strings.TrimPrefix(token, prefix.word))
			copies = prefix.copies
			break
		}
	}
	if name == "" {
		return domain.GeneEntry{}, errEmptyGenotypeToken
	}
	locus, ok := loci.Locus(species, name)
	if !ok {
		return domain.GeneEntry{}, fmt.Errorf("%w %q for %s", ErrUnknownLocus, name, species)
	}
	if copies <= 0 {
		copies = 1
		if locus.Mode == domain.Recessive {
			copies = 2
		}
	}
	return domain.GeneEntry{Locus: locus.Name, Mode: locus.Mode, Copies: copies}, nil
}

func superForm(loci LocusResolver, species domain.Species, token string) (domain.Locus, bool) {
	for _, locus := range loci.LocusesForSpecies(species) {
		if locus.Mode == domain.CoDominant && locus.SuperName != "" && catalog.NormalizeName(locus.SuperName) == token {
			return locus, true
		}
	}
	return domain.Locus{}, false
}
