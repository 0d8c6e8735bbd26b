// Package catalog holds the per-species locus registry. Species modules
// contribute loci through a Builder; Build freezes the result into an
// immutable Catalog that is safe for concurrent reads.
package catalog

import (
	"sort"
	"strings"

	"morphcore/pkg/domain"
)

// Plugin describes a species module that contributes loci to the catalog.
type Plugin interface {
	Name() string
	Version() string
	Register(builder *Builder) error
}

// PluginMetadata stores metadata describing an installed plugin.
type PluginMetadata struct {
	Name    string           `json:"name"`
	Version string           `json:"version"`
	Species []domain.Species `json:"species"`
}

// SpeciesInfo summarises one registered species.
type SpeciesInfo struct {
	ID          domain.Species `json:"id"`
	DisplayName string         `json:"display_name"`
	Loci        int            `json:"loci"`
}

type speciesEntry struct {
	info  SpeciesInfo
	loci  []domain.Locus
	index map[string]int
}

// Catalog is the immutable locus registry. A nil Catalog behaves as empty.
type Catalog struct {
	species map[domain.Species]*speciesEntry
	ids     []domain.Species
	plugins []PluginMetadata
}

// LocusesForSpecies returns the ordered loci for a species. Unknown species
// yield an empty list. The returned slice is a copy.
func (c *Catalog) LocusesForSpecies(species domain.Species) []domain.Locus {
	if c == nil {
		return []domain.Locus{}
	}
	entry, ok := c.species[species]
	if !ok {
		return []domain.Locus{}
	}
	out := make([]domain.Locus, len(entry.loci))
	copy(out, entry.loci)
	return out
}

// Locus resolves a locus by name within a species. Matching ignores case and
// repeated whitespace.
func (c *Catalog) Locus(species domain.Species, name string) (domain.Locus, bool) {
	if c == nil {
		return domain.Locus{}, false
	}
	entry, ok := c.species[species]
	if !ok {
		return domain.Locus{}, false
	}
	idx, ok := entry.index[NormalizeName(name)]
	if !ok {
		return domain.Locus{}, false
	}
	return entry.loci[idx], true
}

// HasSpecies reports whether the species is registered.
func (c *Catalog) HasSpecies(species domain.Species) bool {
	if c == nil {
		return false
	}
	_, ok := c.species[species]
	return ok
}

// Species lists registered species ordered by identifier.
func (c *Catalog) Species() []SpeciesInfo {
	if c == nil {
		return nil
	}
	out := make([]SpeciesInfo, 0, len(c.ids))
	for _, id := range c.ids {
		out = append(out, c.species[id].info)
	}
	return out
}

// Plugins returns metadata for the plugins the catalog was built from.
func (c *Catalog) Plugins() []PluginMetadata {
	if c == nil {
		return nil
	}
	out := make([]PluginMetadata, len(c.plugins))
	for i, meta := range c.plugins {
		meta.Species = append([]domain.Species(nil), meta.Species...)
		out[i] = meta
	}
	return out
}

// NormalizeName folds a locus name for lookups.
func NormalizeName(name string) string {
	return strings.ToLower(strings.Join(strings.Fields(name), " "))
}

func sortedSpecies(m map[domain.Species]*speciesEntry) []domain.Species {
	ids := make([]domain.Species, 0, len(m))
	for id := range m {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}
