// Package domain defines the value types shared by the morph genetics
// calculator: species identifiers, loci, per-parent gene entries and the
// rows of a cross result.
package domain

import (
	"errors"
	"fmt"
	"strings"
)

// Species identifies which locus catalog applies to a cross.
type Species string

// Built-in species identifiers. Overlay catalogs may register additional ones.
const (
	SpeciesBallPython     Species = "ball_python"
	SpeciesLeopardGecko   Species = "leopard_gecko"
	SpeciesCornSnake      Species = "corn_snake"
	SpeciesWesternHognose Species = "western_hognose"
	SpeciesBeardedDragon  Species = "bearded_dragon"
)

// String returns the species identifier.
func (s Species) String() string { return string(s) }

// InheritanceMode describes how the copies carried at a locus show up visually.
type InheritanceMode string

// Supported inheritance modes.
const (
	// Recessive traits are visible only when both alleles carry the variant.
	Recessive InheritanceMode = "recessive"
	// CoDominant traits are visible with one copy and show a distinct super form with two.
	CoDominant InheritanceMode = "co-dominant"
	// Dominant traits look the same with one or two copies.
	Dominant InheritanceMode = "dominant"
)

// Valid reports whether the mode is one of the supported inheritance modes.
func (m InheritanceMode) Valid() bool {
	switch m {
	case Recessive, CoDominant, Dominant:
		return true
	default:
		return false
	}
}

// ErrInvalidMode is returned when an inheritance mode string is not recognised.
var ErrInvalidMode = errors.New("invalid inheritance mode")

// ParseInheritanceMode accepts the canonical mode names plus the spellings
// keepers commonly use ("codominant", "incomplete dominant").
func ParseInheritanceMode(raw string) (InheritanceMode, error) {
	switch strings.ToLower(strings.Join(strings.Fields(raw), " ")) {
	case "recessive":
		return Recessive, nil
	case "co-dominant", "codominant", "co dominant", "incomplete dominant", "incomplete-dominant":
		return CoDominant, nil
	case "dominant":
		return Dominant, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidMode, raw)
	}
}

// Locus is a named gene position within a species catalog.
type Locus struct {
	Name string          `json:"name" yaml:"name"`
	Mode InheritanceMode `json:"mode" yaml:"mode"`
	// SuperName labels the homozygous form of a co-dominant locus.
	SuperName string `json:"super_name,omitempty" yaml:"super_name,omitempty"`
}

// SuperLabel returns the display label for two copies of a co-dominant locus.
func (l Locus) SuperLabel() string {
	if l.SuperName != "" {
		return l.SuperName
	}
	return "Super " + l.Name
}

// MaxCopies is the number of alleles at a diploid locus.
const MaxCopies = 2

// ErrInvalidCopies is returned when a copy count falls outside 0..2.
var ErrInvalidCopies = errors.New("copies must be 0, 1 or 2")

// GeneEntry records one individual's zygosity at one locus. Copies counts
// variant alleles: 0 wild type, 1 heterozygous, 2 homozygous.
type GeneEntry struct {
	Locus  string          `json:"locus"`
	Mode   InheritanceMode `json:"mode,omitempty"`
	Copies int             `json:"copies"`
	// Label is filled on cross output only, e.g. "Het Albino" or "Super Pastel".
	Label string `json:"label,omitempty"`
}

// NewGeneEntry validates the copy count and returns a gene entry. The mode is
// left empty; the catalog supplies it.
func NewGeneEntry(locus string, copies int) (GeneEntry, error) {
	if strings.TrimSpace(locus) == "" {
		return GeneEntry{}, errors.New("locus name required")
	}
	if copies < 0 || copies > MaxCopies {
		return GeneEntry{}, fmt.Errorf("%w: %s has %d", ErrInvalidCopies, locus, copies)
	}
	return GeneEntry{Locus: strings.TrimSpace(locus), Copies: copies}, nil
}

// ClampCopies forces a copy count into 0..2.
func ClampCopies(copies int) int {
	switch {
	case copies < 0:
		return 0
	case copies > MaxCopies:
		return MaxCopies
	default:
		return copies
	}
}

// NormalPhenotype is the phenotype reported when no locus is visually expressed.
const NormalPhenotype = "Normal"

// CrossResult is one row of an offspring phenotype distribution.
type CrossResult struct {
	Phenotype   string      `json:"phenotype"`
	Genotype    []GeneEntry `json:"genotype"`
	Probability float64     `json:"probability"`
}
