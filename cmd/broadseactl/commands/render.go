package commands

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/broadsea-tools/broadseactl/pkg/emit"
	"github.com/broadsea-tools/broadseactl/pkg/history"
)

func newRenderCommand() *cobra.Command {
	var (
		flags     pipelineFlags
		output    string
		dryRun    bool
		noHistory bool
	)

	cmd := &cobra.Command{
		Use:   "render",
		Short: "Resolve, validate, and write the environment file",
		Long: `Render merges the override sources into the template, validates the
result, runs policy checks, and writes the environment file atomically.

Override precedence is fixed: files in the order given, then the process
environment last. Later sources win. With identical inputs the output is
byte-identical, so re-rendering before every deployment is safe and
cheap.`,
		Example: `  # Render with the settings-file defaults
  broadseactl render

  # Explicit template, two override files, custom output
  broadseactl render -t broadsea.env.template -f site.env -f prod.env -o deploy/.env

  # Print the file to stdout without writing anything
  broadseactl render --dry-run`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadSettings()
			if err != nil {
				return err
			}
			templatePath, overridePaths, useEnv, policyPaths, policyMode := flags.effective(cfg)
			if output == "" {
				output = cfg.Output
			}

			log.Info().
				Str("template", templatePath).
				Strs("overrides", overridePaths).
				Bool("env", useEnv).
				Str("output", output).
				Msg("Rendering configuration")

			_, res, err := resolvePipeline(templatePath, overridePaths, useEnv)
			if err != nil {
				return err
			}

			if err := runPolicies(cmd.Context(), res, policyPaths, policyMode); err != nil {
				return err
			}

			content := emit.Render(res)

			if dryRun {
				fmt.Print(string(content))
				return nil
			}

			if err := emit.Write(res, output); err != nil {
				return err
			}
			fmt.Printf("Wrote %s (%d keys)\n", output, res.Len())

			if cfg.History.Enabled && !noHistory {
				recordRender(cmd, res.RunID, templatePath, output, res.Len(), content, cfg.History.Path)
			}

			return nil
		},
	}

	cmd.Flags().StringVarP(&flags.templatePath, "template", "t", "", "template file path")
	cmd.Flags().StringArrayVarP(&flags.overridePaths, "override", "f", nil, "override file, repeatable, later wins")
	cmd.Flags().BoolVar(&flags.noEnv, "no-env", false, "do not consult the process environment")
	cmd.Flags().StringArrayVar(&flags.policyPaths, "policy", nil, "extra policy file or directory, repeatable")
	cmd.Flags().StringVar(&flags.policyMode, "policy-mode", "", "policy mode: advisory or enforcing")
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file path")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "print the rendered file instead of writing it")
	cmd.Flags().BoolVar(&noHistory, "no-history", false, "skip recording this render in the history database")

	return cmd
}

// recordRender stores the render in the history database. History is
// bookkeeping, not output: a failure here is logged and the render
// still succeeds.
func recordRender(cmd *cobra.Command, runID, templatePath, output string, keyCount int, content []byte, dbPath string) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		log.Warn().Err(err).Msg("Failed to create history directory")
		return
	}

	store, err := history.Open(cmd.Context(), dbPath)
	if err != nil {
		log.Warn().Err(err).Msg("Failed to open history database")
		return
	}
	defer store.Close()

	checksum := history.Checksum(content)
	if prev, err := store.Last(cmd.Context(), output); err == nil && prev != nil && prev.Checksum == checksum {
		log.Info().Str("run_id", prev.ID).Msg("Output is byte-identical to the previous render")
	}

	err = store.Record(cmd.Context(), &history.Render{
		ID:           runID,
		TemplatePath: templatePath,
		OutputPath:   output,
		KeyCount:     keyCount,
		Checksum:     checksum,
		RenderedAt:   time.Now(),
	})
	if err != nil {
		log.Warn().Err(err).Msg("Failed to record render history")
	}
}
