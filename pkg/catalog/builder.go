package catalog

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"morphcore/pkg/domain"
)

// Registration errors.
var (
	ErrInvalidSpecies  = errors.New("invalid species identifier")
	ErrUnknownSpecies  = errors.New("species not registered")
	ErrDuplicateLocus  = errors.New("duplicate locus")
	ErrLabelCollision  = errors.New("display label collision")
	ErrDuplicatePlugin = errors.New("plugin already installed")
)

var speciesPattern = regexp.MustCompile(`^[a-z][a-z0-9_]*$`)

// Builder accumulates species and loci before the catalog is frozen.
type Builder struct {
	species map[domain.Species]*speciesEntry
	labels  map[domain.Species]map[string]string
	plugins []PluginMetadata
}

// NewBuilder constructs an empty catalog builder.
func NewBuilder() *Builder {
	return &Builder{
		species: make(map[domain.Species]*speciesEntry),
		labels:  make(map[domain.Species]map[string]string),
	}
}

// RegisterSpecies declares a species. Registering an existing species is a
// no-op apart from filling in a missing display name, which lets overlays
// extend built-in species.
func (b *Builder) RegisterSpecies(id domain.Species, displayName string) error {
	if !speciesPattern.MatchString(string(id)) {
		return fmt.Errorf("%w: %q", ErrInvalidSpecies, id)
	}
	if entry, ok := b.species[id]; ok {
		if entry.info.DisplayName == "" {
			entry.info.DisplayName = strings.TrimSpace(displayName)
		}
		return nil
	}
	b.species[id] = &speciesEntry{
		info:  SpeciesInfo{ID: id, DisplayName: strings.TrimSpace(displayName)},
		index: make(map[string]int),
	}
	b.labels[id] = make(map[string]string)
	return nil
}

// RegisterLoci appends loci to a registered species in the given order.
func (b *Builder) RegisterLoci(id domain.Species, loci ...domain.Locus) error {
	for _, locus := range loci {
		if err := b.RegisterLocus(id, locus); err != nil {
			return err
		}
	}
	return nil
}

// RegisterLocus appends a single locus to a registered species. Locus names
// must be unique within the species and every display label the locus can
// produce must not collide with another locus's labels.
func (b *Builder) RegisterLocus(id domain.Species, locus domain.Locus) error {
	entry, ok := b.species[id]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownSpecies, id)
	}
	locus.Name = strings.Join(strings.Fields(locus.Name), " ")
	locus.SuperName = strings.Join(strings.Fields(locus.SuperName), " ")
	if locus.Name == "" {
		return fmt.Errorf("%s: locus name required", id)
	}
	if !locus.Mode.Valid() {
		return fmt.Errorf("%s/%s: %w %q", id, locus.Name, domain.ErrInvalidMode, locus.Mode)
	}
	if locus.Mode != domain.CoDominant {
		locus.SuperName = ""
	}
	key := NormalizeName(locus.Name)
	if _, exists := entry.index[key]; exists {
		return fmt.Errorf("%w: %s/%s", ErrDuplicateLocus, id, locus.Name)
	}
	labels := []string{locus.Name}
	if locus.Mode == domain.CoDominant {
		labels = append(labels, locus.SuperLabel())
	}
	seen := b.labels[id]
	for _, label := range labels {
		if NormalizeName(label) == NormalizeName(domain.NormalPhenotype) {
			return fmt.Errorf("%w: %s label %q is reserved", ErrLabelCollision, id, label)
		}
		if owner, clash := seen[NormalizeName(label)]; clash {
			return fmt.Errorf("%w: %s label %q already used by %s", ErrLabelCollision, id, label, owner)
		}
	}
	for _, label := range labels {
		seen[NormalizeName(label)] = locus.Name
	}
	entry.index[key] = len(entry.loci)
	entry.loci = append(entry.loci, locus)
	return nil
}

// Install runs a plugin's registration and records its metadata.
func (b *Builder) Install(plugin Plugin) error {
	if plugin == nil {
		return fmt.Errorf("plugin cannot be nil")
	}
	for _, meta := range b.plugins {
		if meta.Name == plugin.Name() {
			return fmt.Errorf("%w: %s", ErrDuplicatePlugin, plugin.Name())
		}
	}
	before := make(map[domain.Species]int, len(b.species))
	for id, entry := range b.species {
		before[id] = len(entry.loci)
	}
	if err := plugin.Register(b); err != nil {
		return fmt.Errorf("install %s: %w", plugin.Name(), err)
	}
	meta := PluginMetadata{Name: plugin.Name(), Version: plugin.Version()}
	for _, id := range sortedSpecies(b.species) {
		count, existed := before[id]
		if !existed || count != len(b.species[id].loci) {
			meta.Species = append(meta.Species, id)
		}
	}
	b.plugins = append(b.plugins, meta)
	return nil
}

// Build freezes the builder into an immutable catalog. The builder may keep
// being used afterwards without affecting the returned catalog.
func (b *Builder) Build() *Catalog {
	species := make(map[domain.Species]*speciesEntry, len(b.species))
	for id, entry := range b.species {
		cp := &speciesEntry{
			info:  entry.info,
			loci:  append([]domain.Locus(nil), entry.loci...),
			index: make(map[string]int, len(entry.index)),
		}
		for k, v := range entry.index {
			cp.index[k] = v
		}
		if cp.info.DisplayName == "" {
			cp.info.DisplayName = DisplayName(id)
		}
		cp.info.Loci = len(cp.loci)
		species[id] = cp
	}
	plugins := make([]PluginMetadata, len(b.plugins))
	for i, meta := range b.plugins {
		meta.Species = append([]domain.Species(nil), meta.Species...)
		plugins[i] = meta
	}
	return &Catalog{species: species, ids: sortedSpecies(species), plugins: plugins}
}
