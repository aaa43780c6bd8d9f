package commands

import (
	"fmt"
	"os"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/broadsea-tools/broadseactl/pkg/settings"
	"github.com/broadsea-tools/broadseactl/pkg/template"
)

const starterSettings = `# broadseactl settings. Flags override anything set here.
template: broadsea.env.template
overrides: []
output: .env
use_env: true

policy:
  mode: advisory

history:
  enabled: true
  path: .broadseactl/history.db
`

func newInitCommand() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write a starter template and settings file",
		Long: `Init writes the built-in Broadsea template and a starter settings file
into the current directory. Existing files are left alone unless --force
is given.

The template carries the full Broadsea key catalogue with working
defaults; edit it or layer override files on top rather than starting
from scratch.`,
		Example: `  broadseactl init
  broadseactl init --force`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := settings.Default()

			wrote, err := writeUnlessPresent(cfg.Template, template.DefaultTemplate(), force)
			if err != nil {
				return err
			}
			if wrote {
				fmt.Printf("Wrote %s\n", cfg.Template)
			}

			wrote, err = writeUnlessPresent(settings.DefaultPath, []byte(starterSettings), force)
			if err != nil {
				return err
			}
			if wrote {
				fmt.Printf("Wrote %s\n", settings.DefaultPath)
			}

			fmt.Println("Next: edit the template, then run 'broadseactl render'")
			return nil
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "overwrite existing files")

	return cmd
}

// writeUnlessPresent writes content to path, refusing to clobber an
// existing file unless force is set.
func writeUnlessPresent(path string, content []byte, force bool) (bool, error) {
	if !force {
		if _, err := os.Stat(path); err == nil {
			log.Warn().Str("path", path).Msg("File already exists; use --force to overwrite")
			return false, nil
		}
	}
	if err := os.WriteFile(path, content, 0644); err != nil {
		return false, fmt.Errorf("writing %s: %w", path, err)
	}
	return true, nil
}
