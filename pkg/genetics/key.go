package genetics

import (
	"strconv"
	"strings"

	"morphcore/pkg/domain"
)

// Key returns a canonical identifier for a cross. Parents are resolved
// against the catalog first, so spelling, entry order, unknown loci and
// zero-copy entries do not change the key. Each active locus carries its
// catalog mode and super label, so the same request against a catalog that
// redefines a locus yields a different key. Crosses with equal keys produce
// equal results.
func (e *Engine) Key(father, mother []domain.GeneEntry, species domain.Species) string {
	active := e.ActiveLoci(father, mother, species)
	var b strings.Builder
	b.WriteString(string(species))
	for _, al := range active {
		b.WriteByte('|')
		b.WriteString(al.Locus.Name)
		b.WriteByte('(')
		b.WriteString(string(al.Locus.Mode))
		if al.Locus.Mode == domain.CoDominant {
			b.WriteByte(':')
			b.WriteString(al.Locus.SuperLabel())
		}
		b.WriteString(")=")
		b.WriteString(strconv.Itoa(al.Father))
		b.WriteByte(':')
		b.WriteString(strconv.Itoa(al.Mother))
	}
	return b.String()
}
