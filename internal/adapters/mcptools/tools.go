// Package mcptools exposes the cross service as Model Context Protocol tools.
package mcptools

import (
	"context"
	"errors"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"morphcore/internal/core"
	"morphcore/pkg/domain"
)

const serverName = "morphcore"

// SpeciesListInput takes no arguments.
type SpeciesListInput struct{}

// SpeciesEntry summarises one species.
type SpeciesEntry struct {
	ID          string `json:"id" jsonschema:"species identifier used by the other tools"`
	DisplayName string `json:"display_name" jsonschema:"human readable species name"`
	Loci        int    `json:"loci" jsonschema:"number of catalogued loci"`
}

// SpeciesListResult lists registered species.
type SpeciesListResult struct {
	Species []SpeciesEntry `json:"species" jsonschema:"registered species"`
}

// LociListInput selects a species.
type LociListInput struct {
	Species string `json:"species" jsonschema:"species identifier, e.g. ball_python"`
}

// LocusEntry describes one locus.
type LocusEntry struct {
	Name      string `json:"name" jsonschema:"locus name"`
	Mode      string `json:"mode" jsonschema:"recessive, co-dominant or dominant"`
	SuperName string `json:"super_name,omitempty" jsonschema:"name of the two-copy form of a co-dominant locus"`
}

// LociListResult lists the loci of a species in catalog order.
type LociListResult struct {
	Species string       `json:"species" jsonschema:"species identifier"`
	Loci    []LocusEntry `json:"loci" jsonschema:"loci in catalog order"`
}

// GeneInput is one parent's copy count at a locus.
type GeneInput struct {
	Locus  string `json:"locus" jsonschema:"locus name"`
	Copies int    `json:"copies" jsonschema:"variant copies: 0, 1 or 2"`
}

// CrossInput describes a pairing.
type CrossInput struct {
	Species        string      `json:"species" jsonschema:"species identifier, e.g. ball_python"`
	Father         []GeneInput `json:"father,omitempty" jsonschema:"father genotype as locus copy counts"`
	Mother         []GeneInput `json:"mother,omitempty" jsonschema:"mother genotype as locus copy counts"`
	FatherGenotype string      `json:"father_genotype,omitempty" jsonschema:"father genotype shorthand, e.g. 'pastel, het albino'; overrides father"`
	MotherGenotype string      `json:"mother_genotype,omitempty" jsonschema:"mother genotype shorthand; overrides mother"`
}

// CrossRow is one offspring phenotype.
type CrossRow struct {
	Phenotype   string   `json:"phenotype" jsonschema:"visible phenotype, or Normal"`
	Probability float64  `json:"probability" jsonschema:"probability in [0,1]"`
	Percent     string   `json:"percent" jsonschema:"probability as a percentage"`
	Fraction    string   `json:"fraction" jsonschema:"probability as a reduced fraction"`
	Genotype    []string `json:"genotype" jsonschema:"labels of the most likely genotype behind the phenotype"`
}

// CrossResult is the offspring distribution.
type CrossResult struct {
	Species    string     `json:"species" jsonschema:"species identifier"`
	Rows       []CrossRow `json:"rows" jsonschema:"phenotypes by descending probability"`
	ActiveLoci int        `json:"active_loci" jsonschema:"loci at which either parent carries a variant"`
	Cached     bool       `json:"cached" jsonschema:"whether the result came from the cross cache"`
}

// NewServer builds an MCP server exposing list_species, list_loci and
// cross_calculator over svc.
func NewServer(svc *core.Service, version string) *mcp.Server {
	server := mcp.NewServer(&mcp.Implementation{Name: serverName, Version: version}, nil)
	Register(server, svc)
	return server
}

// Register adds the tools to an existing server.
func Register(server *mcp.Server, svc *core.Service) {
	mcp.AddTool(server, &mcp.Tool{
		Name:        "list_species",
		Description: "List the species with a morph catalog",
	}, SpeciesListHandler(svc))
	mcp.AddTool(server, &mcp.Tool{
		Name:        "list_loci",
		Description: "List the loci of a species with their inheritance modes",
	}, LociListHandler(svc))
	mcp.AddTool(server, &mcp.Tool{
		Name:        "cross_calculator",
		Description: "Compute the offspring phenotype distribution of a pairing",
	}, CrossHandler(svc))
}

// Serve runs server on transport until ctx is cancelled.
func Serve(ctx context.Context, server *mcp.Server, transport mcp.Transport) error {
	err := server.Run(ctx, transport)
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("serve MCP: %w", err)
	}
	return nil
}

// ServeStdio runs server over stdin/stdout.
func ServeStdio(ctx context.Context, server *mcp.Server) error {
	return Serve(ctx, server, &mcp.StdioTransport{})
}

// SpeciesListHandler lists species.
func SpeciesListHandler(svc *core.Service) mcp.ToolHandlerFor[SpeciesListInput, SpeciesListResult] {
	return func(_ context.Context, _ *mcp.CallToolRequest, _ SpeciesListInput) (*mcp.CallToolResult, SpeciesListResult, error) {
		infos := svc.Species()
		out := SpeciesListResult{Species: make([]SpeciesEntry, 0, len(infos))}
		for _, info := range infos {
			out.Species = append(out.Species, SpeciesEntry{
				ID:          string(info.ID),
				DisplayName: info.DisplayName,
				Loci:        info.Loci,
			})
		}
		return nil, out, nil
	}
}

// LociListHandler lists the loci of one species.
func LociListHandler(svc *core.Service) mcp.ToolHandlerFor[LociListInput, LociListResult] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, input LociListInput) (*mcp.CallToolResult, LociListResult, error) {
		loci, err := svc.Loci(ctx, domain.Species(input.Species))
		if err != nil {
			return nil, LociListResult{}, err
		}
		out := LociListResult{Species: input.Species, Loci: make([]LocusEntry, 0, len(loci))}
		for _, l := range loci {
			out.Loci = append(out.Loci, LocusEntry{Name: l.Name, Mode: string(l.Mode), SuperName: l.SuperName})
		}
		return nil, out, nil
	}
}

// CrossHandler runs a cross.
func CrossHandler(svc *core.Service) mcp.ToolHandlerFor[CrossInput, CrossResult] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, input CrossInput) (*mcp.CallToolResult, CrossResult, error) {
		species := domain.Species(input.Species)
		father, err := parent(ctx, svc, species, input.FatherGenotype, input.Father)
		if err != nil {
			return nil, CrossResult{}, err
		}
		mother, err := parent(ctx, svc, species, input.MotherGenotype, input.Mother)
		if err != nil {
			return nil, CrossResult{}, err
		}
		report, err := svc.Cross(ctx, core.CrossRequest{Species: species, Father: father, Mother: mother})
		if err != nil {
			return nil, CrossResult{}, err
		}
		out := CrossResult{
			Species:    input.Species,
			Rows:       make([]CrossRow, 0, len(report.Rows)),
			ActiveLoci: report.ActiveLoci,
			Cached:     report.Cached,
		}
		for _, row := range report.Rows {
			labels := make([]string, 0, len(row.Genotype))
			for _, g := range row.Genotype {
				if g.Label != "" {
					labels = append(labels, g.Label)
				}
			}
			out.Rows = append(out.Rows, CrossRow{
				Phenotype:   row.Phenotype,
				Probability: row.Probability,
				Percent:     row.Percent,
				Fraction:    row.Fraction,
				Genotype:    labels,
			})
		}
		return nil, out, nil
	}
}

func parent(ctx context.Context, svc *core.Service, species domain.Species, text string, genes []GeneInput) ([]domain.GeneEntry, error) {
	if text != "" {
		return svc.ParseGenotype(ctx, species, text)
	}
	out := make([]domain.GeneEntry, len(genes))
	for i, g := range genes {
		out[i] = domain.GeneEntry{Locus: g.Locus, Copies: g.Copies}
	}
	return out, nil
}
