package commands

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/broadsea-tools/broadseactl/pkg/template"
)

func newExplainCommand() *cobra.Command {
	var flags pipelineFlags

	cmd := &cobra.Command{
		Use:   "explain [KEY...]",
		Short: "Describe the declared configuration keys",
		Long: `Explain prints the declared keys with their type, required flag,
default, and documentation, grouped by template section. With key
arguments, only those keys are shown.`,
		Example: `  # Document every declared key
  broadseactl explain

  # Document specific keys
  broadseactl explain BROADSEA_HOST WEBAPI_DATASOURCE_URL`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadSettings()
			if err != nil {
				return err
			}
			templatePath := flags.templatePath
			if templatePath == "" {
				templatePath = cfg.Template
			}

			tmpl, err := template.Load(templatePath)
			if err != nil {
				return err
			}

			specs, err := selectSpecs(tmpl, args)
			if err != nil {
				return err
			}

			if jsonOutput {
				enc := json.NewEncoder(os.Stdout)
				enc.SetIndent("", "  ")
				return enc.Encode(specs)
			}

			printSpecs(specs)
			return nil
		},
	}

	cmd.Flags().StringVarP(&flags.templatePath, "template", "t", "", "template file path")

	return cmd
}

func selectSpecs(tmpl *template.Template, names []string) ([]template.KeySpec, error) {
	if len(names) == 0 {
		return tmpl.Keys, nil
	}

	specs := make([]template.KeySpec, 0, len(names))
	var unknown []string
	for _, name := range names {
		spec, ok := tmpl.Lookup(name)
		if !ok {
			unknown = append(unknown, name)
			continue
		}
		specs = append(specs, spec)
	}
	if len(unknown) > 0 {
		return nil, fmt.Errorf("unknown keys: %s", strings.Join(unknown, ", "))
	}
	return specs, nil
}

func printSpecs(specs []template.KeySpec) {
	section := ""
	for _, spec := range specs {
		if spec.Section != section {
			section = spec.Section
			if section != "" {
				fmt.Printf("\n%s\n%s\n", section, strings.Repeat("-", len(section)))
			}
		}

		attrs := []string{string(spec.Type)}
		if spec.Type == template.TypeEnum {
			attrs = []string{fmt.Sprintf("enum(%s)", strings.Join(spec.Enum, "|"))}
		}
		if spec.Required {
			attrs = append(attrs, "required")
		}
		if spec.HasDefault {
			attrs = append(attrs, fmt.Sprintf("default=%s", spec.Default))
		}

		fmt.Printf("  %s  (%s)\n", spec.Name, strings.Join(attrs, ", "))
		if spec.Description != "" {
			fmt.Printf("      %s\n", spec.Description)
		}
	}
}
