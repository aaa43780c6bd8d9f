package commands

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/broadsea-tools/broadseactl/pkg/settings"
)

var (
	// Global flags
	settingsPath string
	verbose      bool
	jsonOutput   bool
)

// Execute runs the root command
func Execute(ctx context.Context, version, commit, buildDate string) error {
	rootCmd := newRootCommand(version, commit, buildDate)
	return rootCmd.ExecuteContext(ctx)
}

func newRootCommand(version, commit, buildDate string) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "broadseactl",
		Short: "broadseactl - validated environment files for Broadsea deployments",
		Long: `broadseactl generates the environment file a Broadsea (OHDSI) container
deployment consumes, from a declared key template plus override sources.

Instead of hand-editing .env and finding out at container start what was
mistyped, the template declares every recognized key with its default,
type, and documentation; overrides come from files and the process
environment with fixed later-wins precedence; the merged result is
type-checked and policy-checked before a byte-deterministic file is
written atomically.

Features:
  - Declarative key template with typed constraints
  - Ordered override sources: files, then environment
  - All validation errors collected in one run
  - Cross-key policy checks via OPA/Rego
  - Atomic, byte-deterministic output
  - Render history with output checksums`,
		Version:       fmt.Sprintf("%s (commit: %s, built: %s)", version, commit, buildDate),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			// The settings file cannot be loaded before flag parsing,
			// so the logging section is applied here, on top of the
			// bootstrap logger main set up.
			if cfg, err := loadSettings(); err == nil {
				applyLogging(cfg.Logging, os.Stderr)
			}
			if verbose {
				zerolog.SetGlobalLevel(zerolog.DebugLevel)
			}
		},
	}

	// Persistent flags available to all commands
	rootCmd.PersistentFlags().StringVarP(&settingsPath, "settings", "c", "", "settings file path (default broadseactl.yaml if present)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose output")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "output in JSON format")

	// Add subcommands
	rootCmd.AddCommand(newInitCommand())
	rootCmd.AddCommand(newRenderCommand())
	rootCmd.AddCommand(newValidateCommand())
	rootCmd.AddCommand(newExplainCommand())
	rootCmd.AddCommand(newDiffCommand())
	rootCmd.AddCommand(newWatchCommand())
	rootCmd.AddCommand(newHistoryCommand())

	return rootCmd
}

// applyLogging reconfigures the global logger from the settings file's
// logging section. The LOG_LEVEL environment variable and --verbose
// keep precedence over the file.
func applyLogging(cfg settings.LoggingSettings, out io.Writer) {
	switch cfg.Format {
	case "json":
		log.Logger = zerolog.New(out).With().Timestamp().Logger()
	case "console":
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: out})
	}

	if os.Getenv("LOG_LEVEL") != "" {
		return
	}
	if level, err := zerolog.ParseLevel(cfg.Level); err == nil && cfg.Level != "" {
		zerolog.SetGlobalLevel(level)
	}
}
