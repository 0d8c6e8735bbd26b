package catalog

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"gopkg.in/yaml.v3"

	"morphcore/pkg/domain"
)

// Overlay is a YAML-declared catalog extension applied at startup. It can add
// species or append loci to species that built-in plugins already provide.
//
//	species:
//	  - id: crested_gecko
//	    display_name: Crested Gecko
//	    loci:
//	      - name: Lilly White
//	        mode: co-dominant
//	        super_name: Super Lilly White
type Overlay struct {
	Source  string           `yaml:"-"`
	Species []OverlaySpecies `yaml:"species"`
}

// OverlaySpecies declares one species block in an overlay file.
type OverlaySpecies struct {
	ID          string         `yaml:"id"`
	DisplayName string         `yaml:"display_name,omitempty"`
	Loci        []OverlayLocus `yaml:"loci"`
}

// OverlayLocus declares one locus in an overlay file.
type OverlayLocus struct {
	Name      string `yaml:"name"`
	Mode      string `yaml:"mode"`
	SuperName string `yaml:"super_name,omitempty"`
}

// LoadOverlay decodes an overlay document. Unknown keys are rejected.
func LoadOverlay(r io.Reader) (Overlay, error) {
	var overlay Overlay
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&overlay); err != nil {
		if errors.Is(err, io.EOF) {
			return Overlay{}, nil
		}
		return Overlay{}, fmt.Errorf("decode catalog overlay: %w", err)
	}
	return overlay, nil
}

// LoadOverlayFile reads an overlay from disk.
func LoadOverlayFile(path string) (Overlay, error) {
	f, err := os.Open(path)
	if err != nil {
		return Overlay{}, fmt.Errorf("open catalog overlay: %w", err)
	}
	defer func() { _ = f.Close() }()
	overlay, err := LoadOverlay(f)
	if err != nil {
		return Overlay{}, err
	}
	overlay.Source = path
	return overlay, nil
}

// Name implements Plugin.
func (o Overlay) Name() string {
	if o.Source != "" {
		return "overlay:" + o.Source
	}
	return "overlay"
}

// Version implements Plugin.
func (Overlay) Version() string { return "0" }

// Register implements Plugin.
func (o Overlay) Register(b *Builder) error {
	for _, sp := range o.Species {
		id := domain.Species(strings.TrimSpace(sp.ID))
		if err := b.RegisterSpecies(id, sp.DisplayName); err != nil {
			return err
		}
		for _, raw := range sp.Loci {
			mode, err := domain.ParseInheritanceMode(raw.Mode)
			if err != nil {
				return fmt.Errorf("%s/%s: %w", id, raw.Name, err)
			}
			locus := domain.Locus{
				Name:      titleIfLower(raw.Name),
				Mode:      mode,
				SuperName: titleIfLower(raw.SuperName),
			}
			if err := b.RegisterLocus(id, locus); err != nil {
				return err
			}
		}
	}
	return nil
}

// DisplayName derives a human readable name from a species identifier,
// e.g. ball_python becomes "Ball Python".
func DisplayName(id domain.Species) string {
	return cases.Title(language.English).String(strings.ReplaceAll(string(id), "_", " "))
}

// titleIfLower title-cases names typed entirely in lower case and leaves
// deliberate capitalisation such as "GHI" alone.
func titleIfLower(name string) string {
	name = strings.TrimSpace(name)
	if name == "" || name != strings.ToLower(name) {
		return name
	}
	return cases.Title(language.English).String(name)
}
