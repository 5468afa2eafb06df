package app

import (
	"github.com/spf13/cobra"

	"github.com/opencivicdata/ocdids/cmd/ocdids/cmd/compile"
	"github.com/opencivicdata/ocdids/cmd/ocdids/cmd/corrections"
)

// CreateCompileCommand creates the compile command with app dependencies.
func (a *App) CreateCompileCommand() *cobra.Command {
	return compile.NewCommand(a)
}

// CreateCorrectionsCommand creates the corrections command with app dependencies.
func (a *App) CreateCorrectionsCommand() *cobra.Command {
	return corrections.NewCommand(a)
}

// CreateVersionCommand creates the version command.
func (a *App) CreateVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Run: func(cmd *cobra.Command, args []string) {
			cmd.Printf("ocdids %s\n", a.version)
			if a.config.Verbose {
				cmd.Printf("  commit:   %s\n", a.commit)
				cmd.Printf("  built:    %s\n", a.date)
				cmd.Printf("  built by: %s\n", a.builtBy)
			}
		},
	}
}
