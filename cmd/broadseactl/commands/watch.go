package commands

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/broadsea-tools/broadseactl/pkg/emit"
	"github.com/broadsea-tools/broadseactl/pkg/watcher"
)

func newWatchCommand() *cobra.Command {
	var (
		flags    pipelineFlags
		output   string
		debounce time.Duration
	)

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Re-render whenever the template or an override file changes",
		Long: `Watch renders once, then keeps watching the template and override files
and re-renders on every change. Rapid edit bursts are debounced into a
single render. A render that fails validation or policy is logged and
the previous output file stays in place.

Stop with Ctrl-C.`,
		Example: `  broadseactl watch

  # Slower debounce for editors that save in many small writes
  broadseactl watch --debounce 1s`,
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

			render := func() {
				_, res, err := resolvePipeline(templatePath, overridePaths, useEnv)
				if err != nil {
					log.Error().Err(err).Msg("Render failed; keeping previous output")
					return
				}
				if err := runPolicies(cmd.Context(), res, policyPaths, policyMode); err != nil {
					log.Error().Err(err).Msg("Policy check failed; keeping previous output")
					return
				}
				if err := emit.Write(res, output); err != nil {
					log.Error().Err(err).Msg("Write failed; keeping previous output")
					return
				}
				log.Info().
					Str("output", output).
					Int("keys", res.Len()).
					Msg("Rendered")
			}

			// Render immediately so the output reflects the current
			// sources before the first change arrives.
			render()

			paths := append([]string{templatePath}, overridePaths...)
			w, err := watcher.New(log.Logger, paths, debounce)
			if err != nil {
				return fmt.Errorf("starting watcher: %w", err)
			}
			defer w.Close()

			log.Info().Strs("paths", paths).Msg("Watching for changes")
			if err := w.Run(cmd.Context(), render); err != nil && !errors.Is(err, context.Canceled) {
				return err
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
	cmd.Flags().DurationVar(&debounce, "debounce", watcher.DefaultDebounce, "quiet period before re-rendering")

	return cmd
}
