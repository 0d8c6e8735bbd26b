package genetics

import (
	"strings"

	"morphcore/pkg/domain"
)

// VisualState classifies how a locus looks for a given copy count.
type VisualState uint8

// Visual states. Recessive and dominant loci only use Hidden and Visible;
// co-dominant loci distinguish Visible from Super.
const (
	Hidden VisualState = iota
	Visible
	Super
)

// Expression is the visual outcome of one locus.
type Expression struct {
	State VisualState
	Label string
}

// Expressed reports whether the locus contributes to the phenotype.
func (e Expression) Expressed() bool { return e.State != Hidden }

// Express maps a locus and offspring copy count to its visual expression.
func Express(locus domain.Locus, copies int) Expression {
	switch locus.Mode {
	case domain.Recessive:
		if copies == 2 {
			return Expression{State: Visible, Label: locus.Name}
		}
	case domain.CoDominant:
		switch copies {
		case 1:
			return Expression{State: Visible, Label: locus.Name}
		case 2:
			return Expression{State: Super, Label: locus.SuperLabel()}
		}
	case domain.Dominant:
		if copies >= 1 {
			return Expression{State: Visible, Label: locus.Name}
		}
	}
	return Expression{State: Hidden}
}

// GenotypeLabel names the genotype at one locus, including invisible
// carriers: "Het Albino", "Pastel", "Super Pastel", "Homozygous Pinstripe".
// Wild type yields an empty string.
func GenotypeLabel(locus domain.Locus, copies int) string {
	switch copies {
	case 1:
		if locus.Mode == domain.Recessive {
			return "Het " + locus.Name
		}
		return locus.Name
	case 2:
		switch locus.Mode {
		case domain.CoDominant:
			return locus.SuperLabel()
		case domain.Dominant:
			return "Homozygous " + locus.Name
		}
		return locus.Name
	}
	return ""
}

// PhenotypeString joins expressed labels, already in catalog order.
func PhenotypeString(labels []string) string {
	if len(labels) == 0 {
		return domain.NormalPhenotype
	}
	return strings.Join(labels, ", ")
}
