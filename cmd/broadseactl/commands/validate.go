package commands

import (
	"fmt"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

func newValidateCommand() *cobra.Command {
	var flags pipelineFlags

	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Check the configuration without writing anything",
		Long: `Validate runs the full pipeline - template parse, override merge, type
checks, policy checks - and reports every problem it finds, without
touching the output file.

All problems are collected before failing: every missing required key
and every type violation is reported in one run.`,
		Example: `  # Validate with the settings-file defaults
  broadseactl validate

  # Validate a candidate override file before committing it
  broadseactl validate -f candidate.env --policy-mode enforcing`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadSettings()
			if err != nil {
				return err
			}
			templatePath, overridePaths, useEnv, policyPaths, policyMode := flags.effective(cfg)

			log.Info().
				Str("template", templatePath).
				Strs("overrides", overridePaths).
				Bool("env", useEnv).
				Msg("Validating configuration")

			_, res, err := resolvePipeline(templatePath, overridePaths, useEnv)
			if err != nil {
				return err
			}

			if err := runPolicies(cmd.Context(), res, policyPaths, policyMode); err != nil {
				return err
			}

			fmt.Printf("Configuration is valid: %d keys resolved\n", res.Len())
			return nil
		},
	}

	cmd.Flags().StringVarP(&flags.templatePath, "template", "t", "", "template file path")
	cmd.Flags().StringArrayVarP(&flags.overridePaths, "override", "f", nil, "override file, repeatable, later wins")
	cmd.Flags().BoolVar(&flags.noEnv, "no-env", false, "do not consult the process environment")
	cmd.Flags().StringArrayVar(&flags.policyPaths, "policy", nil, "extra policy file or directory, repeatable")
	cmd.Flags().StringVar(&flags.policyMode, "policy-mode", "", "policy mode: advisory or enforcing")

	return cmd
}
