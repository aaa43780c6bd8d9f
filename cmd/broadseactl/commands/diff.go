package commands

import (
	"fmt"
	"os"
	"sort"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/broadsea-tools/broadseactl/pkg/resolve"
)

func newDiffCommand() *cobra.Command {
	var (
		flags    pipelineFlags
		output   string
		exitCode bool
	)

	cmd := &cobra.Command{
		Use:   "diff",
		Short: "Show how a fresh render would change the output file",
		Long: `Diff resolves the configuration from the current template and override
sources and compares it against the environment file on disk. Keys that
would be added, removed, or changed are listed; secrets stay on your
terminal, nothing is written.

A missing output file diffs against nothing, so every key shows as
added.`,
		Example: `  # What would change if I re-rendered now?
  broadseactl diff

  # Fail a CI step when the deployed file is stale
  broadseactl diff --exit-code`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadSettings()
			if err != nil {
				return err
			}
			templatePath, overridePaths, useEnv, _, _ := flags.effective(cfg)
			if output == "" {
				output = cfg.Output
			}

			_, res, err := resolvePipeline(templatePath, overridePaths, useEnv)
			if err != nil {
				return err
			}

			current := map[string]string{}
			if _, statErr := os.Stat(output); statErr == nil {
				current, err = resolve.FileProvider{Path: output, Required: true}.Load()
				if err != nil {
					return err
				}
			} else {
				log.Warn().Str("output", output).Msg("Output file does not exist; diffing against nothing")
			}

			changes := diffMaps(current, res.Map())
			if len(changes) == 0 {
				fmt.Println("No changes: output file matches a fresh render")
				return nil
			}

			for _, c := range changes {
				fmt.Println(c)
			}
			fmt.Printf("%d key(s) would change\n", len(changes))

			if exitCode {
				return fmt.Errorf("output file %s is stale", output)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&flags.templatePath, "template", "t", "", "template file path")
	cmd.Flags().StringArrayVarP(&flags.overridePaths, "override", "f", nil, "override file, repeatable, later wins")
	cmd.Flags().BoolVar(&flags.noEnv, "no-env", false, "do not consult the process environment")
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file path to compare against")
	cmd.Flags().BoolVar(&exitCode, "exit-code", false, "exit non-zero when the output file is stale")

	return cmd
}

// diffMaps returns human-readable change lines, sorted by key.
func diffMaps(current, fresh map[string]string) []string {
	keys := make(map[string]struct{}, len(current)+len(fresh))
	for k := range current {
		keys[k] = struct{}{}
	}
	for k := range fresh {
		keys[k] = struct{}{}
	}

	sorted := make([]string, 0, len(keys))
	for k := range keys {
		sorted = append(sorted, k)
	}
	sort.Strings(sorted)

	var changes []string
	for _, k := range sorted {
		oldV, inCurrent := current[k]
		newV, inFresh := fresh[k]
		switch {
		case !inCurrent:
			changes = append(changes, fmt.Sprintf("+ %s=%s", k, newV))
		case !inFresh:
			changes = append(changes, fmt.Sprintf("- %s=%s", k, oldV))
		case oldV != newV:
			changes = append(changes, fmt.Sprintf("~ %s: %s -> %s", k, oldV, newV))
		}
	}
	return changes
}
