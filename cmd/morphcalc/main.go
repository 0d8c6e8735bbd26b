// Command morphcalc computes the offspring phenotype distribution of a
// pairing from genotype shorthand:
//
//	morphcalc -species ball_python -father "pastel, het albino" -mother albino
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"morphcore/internal/config"
	"morphcore/internal/core"
	"morphcore/pkg/domain"
	"morphcore/plugins"
)

func main() {
	if err := run(context.Background(), os.Args[1:], os.Stdout); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return
		}
		config.Exitf("morphcalc: %v", err)
	}
}

type options struct {
	species string
	father  string
	mother  string
	overlay string
	maxLoci int
	asJSON  bool
	list    bool
}

func parseFlags(args []string, out io.Writer) (options, error) {
	var opts options
	fs := flag.NewFlagSet("morphcalc", flag.ContinueOnError)
	fs.SetOutput(out)
	fs.StringVar(&opts.species, "species", string(domain.SpeciesBallPython), "species identifier")
	fs.StringVar(&opts.father, "father", "", "father genotype, e.g. \"pastel, het albino\"")
	fs.StringVar(&opts.mother, "mother", "", "mother genotype")
	fs.StringVar(&opts.overlay, "overlay", os.Getenv(config.EnvPrefix+"CATALOG_OVERLAY"), "YAML catalog overlay")
	fs.IntVar(&opts.maxLoci, "max-loci", 0, "active locus limit (0 keeps the default)")
	fs.BoolVar(&opts.asJSON, "json", false, "print the report as JSON")
	fs.BoolVar(&opts.list, "list", false, "list the loci of -species and exit")
	if err := fs.Parse(args); err != nil {
		return options{}, err
	}
	if fs.NArg() > 0 {
		return options{}, fmt.Errorf("unexpected arguments %v", fs.Args())
	}
	return opts, nil
}

func run(ctx context.Context, args []string, out io.Writer) error {
	opts, err := parseFlags(args, out)
	if err != nil {
		return err
	}
	cat, err := plugins.LoadCatalog(opts.overlay)
	if err != nil {
		return err
	}
	svc := core.NewService(cat, core.WithMaxActiveLoci(opts.maxLoci))
	species := domain.Species(opts.species)

	if opts.list {
		loci, err := svc.Loci(ctx, species)
		if err != nil {
			return err
		}
		return printLoci(out, loci, opts.asJSON)
	}

	father, err := svc.ParseGenotype(ctx, species, opts.father)
	if err != nil {
		return fmt.Errorf("father: %w", err)
	}
	mother, err := svc.ParseGenotype(ctx, species, opts.mother)
	if err != nil {
		return fmt.Errorf("mother: %w", err)
	}
	report, err := svc.Cross(ctx, core.CrossRequest{Species: species, Father: father, Mother: mother})
	if err != nil {
		return err
	}
	if opts.asJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(report)
	}
	return printReport(out, report, opts)
}

func printLoci(out io.Writer, loci []domain.Locus, asJSON bool) error {
	if asJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(loci)
	}
	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	for _, l := range loci {
		super := ""
		if l.Mode == domain.CoDominant {
			super = l.SuperLabel()
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\n", l.Name, l.Mode, super)
	}
	return tw.Flush()
}

func printReport(out io.Writer, report core.CrossReport, opts options) error {
	p := message.NewPrinter(language.English)
	p.Fprintf(out, "%s: %s x %s\n", report.Species, orNormal(opts.father), orNormal(opts.mother))
	p.Fprintf(out, "%d active loci, %d combinations, %d phenotypes\n\n", report.ActiveLoci, report.Combinations, len(report.Rows))
	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', tabwriter.AlignRight)
	for _, row := range report.Rows {
		fmt.Fprintf(tw, "%s\t%s\t  %s\t\n", row.Percent, row.Fraction, row.Phenotype)
	}
	return tw.Flush()
}

func orNormal(genotype string) string {
	if genotype == "" {
		return domain.NormalPhenotype
	}
	return genotype
}
