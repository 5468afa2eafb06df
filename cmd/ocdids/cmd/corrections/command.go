// Package corrections provides the corrections command.
package corrections

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/opencivicdata/ocdids/cmd/application"
	"github.com/opencivicdata/ocdids/internal/cmd/alerts"
	"github.com/opencivicdata/ocdids/internal/cmd/output"
	"github.com/opencivicdata/ocdids/pkg/corrections"
)

// NewCommand creates the corrections command.
func NewCommand(app application.Application) *cobra.Command {
	var root string

	cmd := &cobra.Command{
		Use:     "corrections <country>",
		GroupID: "core",
		Short:   "Compile a country's id corrections",
		Long: `Corrections merges corrections/country-<cc>/**/*.csv into
corrections/country-<cc>.csv.

Each file needs incorrectId, id and note columns. Corrected ids must be well
formed and present in the compiled identifiers/country-<cc>.csv, so run
compile first.`,
		Example: `  ocdids corrections us`,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if root == "" {
				root = app.Root()
			}

			result, err := corrections.Compile(app.Fs(), root, args[0], corrections.WithLogger(app.Logger()))
			if err != nil {
				return err
			}

			writer := alerts.NewFormatWriter(cmd.ErrOrStderr(), output.FormatTable)
			if app.NoColor() {
				writer.WithColor(false)
			}
			for _, warning := range result.Warnings {
				if err := writer.WriteAlert(alerts.NewWarning(warning)); err != nil {
					return err
				}
			}
			msg := fmt.Sprintf("wrote %s (%d corrections from %d files)", result.Output, len(result.Corrections), len(result.Files))
			return writer.WriteAlert(alerts.NewSuccess(msg))
		},
	}

	cmd.Flags().StringVar(&root, "root", "", "repository root (default from config, else .)")

	return cmd
}
