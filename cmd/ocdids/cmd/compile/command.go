// Package compile provides the compile command.
package compile

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/opencivicdata/ocdids/cmd/application"
	"github.com/opencivicdata/ocdids/internal/cmd/alerts"
	"github.com/opencivicdata/ocdids/internal/cmd/output"
	"github.com/opencivicdata/ocdids/pkg/compiler"
)

// Options holds the compile command flags.
type Options struct {
	Root        string
	Output      string
	Provenance  string
	StatsFormat string
	Unique      []string
	Check       bool
}

// NewCommand creates the compile command.
func NewCommand(app application.Application) *cobra.Command {
	opts := &Options{}

	cmd := &cobra.Command{
		Use:     "compile <country>",
		GroupID: "core",
		Short:   "Compile a country's fragments into its canonical CSV",
		Long: `Compile merges every fragment under identifiers/country-<cc>/ into
identifiers/country-<cc>.csv.

Fragments are validated and cross-checked: ids and dates must be well formed,
fragments must agree on every field, every parent must exist, sameAs must
point at a canonical id, every record needs a name and configured unique
fields must not repeat. Any problem aborts the run, all problems are reported
together and the canonical file is left untouched.

Statistics are written to stderr.`,
		Example: `  ocdids compile us                         # Write identifiers/country-us.csv
  ocdids compile ca --check                 # Fail if country-ca.csv is stale
  ocdids compile us --unique census_geoid   # Override unique fields
  ocdids compile us --stats-format json     # Machine-readable statistics`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !cmd.Flags().Changed("unique") {
				opts.Unique = app.UniqueFields(args[0])
			}
			return Run(cmd, app, opts, args[0])
		},
	}

	cmd.Flags().StringVar(&opts.Root, "root", "", "repository root (default from config, else .)")
	cmd.Flags().StringVar(&opts.Output, "output", "", "write the canonical file to this path")
	cmd.Flags().StringVar(&opts.Provenance, "provenance", "", "also write field provenance as YAML to this path")
	cmd.Flags().StringVar(&opts.StatsFormat, "stats-format", "", "statistics format: table, json, yaml")
	cmd.Flags().StringSliceVar(&opts.Unique, "unique", nil, "fields that must be unique besides id (repeatable)")
	cmd.Flags().BoolVar(&opts.Check, "check", false, "compare with the existing canonical file instead of writing it")

	return cmd
}

// Run compiles one country and reports the result on the command's stderr.
func Run(cmd *cobra.Command, app application.Application, opts *Options, country string) error {
	statsFormat := opts.StatsFormat
	if statsFormat == "" {
		statsFormat = app.StatsFormat()
	}
	format, err := output.ParseFormat(statsFormat)
	if err != nil {
		return err
	}

	root := opts.Root
	if root == "" {
		root = app.Root()
	}

	c, err := compiler.New(app.Fs(),
		compiler.WithRoot(root),
		compiler.WithUniqueFields(country, opts.Unique...),
		compiler.WithOutput(opts.Output),
		compiler.WithCheck(opts.Check),
		compiler.WithProvenance(opts.Provenance),
		compiler.WithLogger(app.Logger()),
	)
	if err != nil {
		return err
	}

	result, err := c.Compile(cmd.Context(), country)
	if err != nil {
		return err
	}

	stderr := cmd.ErrOrStderr()
	if format == "" {
		format = detect(stderr)
	}
	if err := output.FormatStats(stderr, format, result.Stats); err != nil {
		return err
	}

	writer := alerts.NewFormatWriter(stderr, output.FormatTable)
	if app.NoColor() {
		writer.WithColor(false)
	}
	for _, warning := range result.Warnings {
		if err := writer.WriteAlert(alerts.NewWarning(warning)); err != nil {
			return err
		}
	}

	name := result.Country
	if result.CountryName != "" {
		name = result.CountryName
	}
	if !result.Written {
		return writer.WriteAlert(alerts.NewInfo(fmt.Sprintf("%s: %s is up to date (%d records)", name, result.Output, result.Stats.Records)))
	}
	return writer.WriteAlert(alerts.NewSuccess(fmt.Sprintf("%s: wrote %s (%d records)", name, result.Output, result.Stats.Records)))
}

func detect(w io.Writer) output.Format {
	if f, ok := w.(*os.File); ok {
		return output.DetectFormat("", f)
	}
	return output.FormatTable
}
