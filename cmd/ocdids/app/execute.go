package app

import (
	"context"
	"os"

	"github.com/spf13/cobra"

	"github.com/opencivicdata/ocdids/internal/cmd/alerts"
	"github.com/opencivicdata/ocdids/internal/cmd/output"
)

// Execute runs the ocdids CLI application with the given arguments.
// This is the main entry point called from main.go.
func (a *App) Execute(ctx context.Context, args []string) error {
	rootCmd := a.createRootCommand()
	rootCmd.SetArgs(args)
	return rootCmd.ExecuteContext(ctx)
}

// createRootCommand creates the root cobra command with all subcommands.
func (a *App) createRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:     "ocdids",
		Short:   "OCD division identifier compiler",
		Version: a.version,
		Long: `ocdids compiles the per-source CSV fragments of an Open Civic Data
division identifier repository into one canonical CSV per country.

Run it from the repository root, or point --root (or root in
~/.ocdids.yaml) at it.`,
		PersistentPreRunE: a.setupCommand,
		SilenceUsage:      true,
		SilenceErrors:     true,
	}

	rootCmd.AddGroup(&cobra.Group{
		ID:    "core",
		Title: "Core Commands:",
	})

	rootCmd.PersistentFlags().StringVar(&a.config.ConfigFile, "config", "", "config file (default is $HOME/.ocdids.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&a.config.Verbose, "verbose", "v", a.config.Verbose, "verbose output (shortcut for --log-level=debug)")
	rootCmd.PersistentFlags().BoolVarP(&a.config.Quiet, "quiet", "q", a.config.Quiet, "minimal output (shortcut for --log-level=warn)")
	rootCmd.PersistentFlags().BoolVar(&a.config.NoColor, "no-color", a.config.NoColor, "disable colored output")
	rootCmd.PersistentFlags().StringVar(&a.config.LogLevel, "log-level", a.config.LogLevel, "log level: trace, debug, info, warn, error (overrides -v/-q)")

	rootCmd.SetVersionTemplate("ocdids {{.Version}}\n")

	a.registerCommands(rootCmd)

	return rootCmd
}

// setupCommand is called before any command runs.
func (a *App) setupCommand(cmd *cobra.Command, _ []string) error {
	if cmd.Flags().Changed("config") {
		flags := *a.config
		loaded, err := LoadConfig(flags.ConfigFile)
		if err != nil {
			return err
		}
		loaded.UpdateFromFlags(flags.Verbose, flags.Quiet, flags.NoColor, flags.LogLevel)
		a.config = loaded
	}

	logger := NewLogger(a.config)
	a.logger = &logger

	return nil
}

// registerCommands registers all subcommands with the root command.
func (a *App) registerCommands(rootCmd *cobra.Command) {
	rootCmd.AddCommand(a.CreateCompileCommand())
	rootCmd.AddCommand(a.CreateCorrectionsCommand())
	rootCmd.AddCommand(a.CreateVersionCommand())
}

// ExitOnError prints err to stderr and exits with status 1.
// This is meant to be used in main.go for top-level error handling.
func ExitOnError(err error) {
	if err == nil {
		return
	}
	writer := alerts.NewFormatWriter(os.Stderr, output.FormatTable)
	if os.Getenv("NO_COLOR") != "" {
		writer.WithColor(false)
	}
	if werr := writer.WriteAlert(alerts.FromError(err)); werr != nil {
		_, _ = os.Stderr.WriteString(err.Error() + "\n")
	}
	os.Exit(1)
}
