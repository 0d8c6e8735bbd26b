// Package genetics implements the Mendelian cross calculator: single-locus
// transmission, phenotype expression and the multi-locus cross engine.
//
// Transmission and expression are separate stages. Transmit depends only on
// copy counts; the inheritance mode is consulted solely when labelling and
// grouping outcomes.
package genetics

import "morphcore/pkg/domain"

// Distribution is an offspring copy-count distribution at one locus, indexed
// by copies (0, 1, 2).
type Distribution [domain.MaxCopies + 1]float64

// P returns the probability of the given copy count.
func (d Distribution) P(copies int) float64 {
	if copies < 0 || copies > domain.MaxCopies {
		return 0
	}
	return d[copies]
}

// Outcomes lists the copy counts with non-zero probability in ascending order.
func (d Distribution) Outcomes() []int {
	out := make([]int, 0, len(d))
	for copies, p := range d {
		if p > 0 {
			out = append(out, copies)
		}
	}
	return out
}

// Degenerate reports whether the distribution is certain wild type.
func (d Distribution) Degenerate() bool {
	return d[0] == 1
}

// Transmit computes the offspring distribution for one locus from the
// father's and mother's copy counts, which must already be within 0..2.
func Transmit(father, mother int) Distribution {
	pf := transmitVariant(father)
	pm := transmitVariant(mother)
	return Distribution{
		(1 - pf) * (1 - pm),
		pf*(1-pm) + (1-pf)*pm,
		pf * pm,
	}
}

// transmitVariant is the chance a parent passes on the variant allele.
func transmitVariant(copies int) float64 {
	return float64(copies) / domain.MaxCopies
}
