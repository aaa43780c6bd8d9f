package commands

import (
	"encoding/json"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/broadsea-tools/broadseactl/pkg/history"
)

func newHistoryCommand() *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "history",
		Short: "List recorded renders",
		Long: `History lists past renders from the local history database, newest
first. Each row carries the run ID and a SHA-256 checksum of the emitted
file, so two rows with the same checksum rendered the same bytes.`,
		Example: `  broadseactl history
  broadseactl history --limit 5 --json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadSettings()
			if err != nil {
				return err
			}

			store, err := history.Open(cmd.Context(), cfg.History.Path)
			if err != nil {
				return err
			}
			defer store.Close()

			renders, err := store.List(cmd.Context(), limit)
			if err != nil {
				return err
			}

			if jsonOutput {
				enc := json.NewEncoder(os.Stdout)
				enc.SetIndent("", "  ")
				return enc.Encode(renders)
			}

			if len(renders) == 0 {
				fmt.Println("No renders recorded yet")
				return nil
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "RENDERED\tRUN ID\tOUTPUT\tKEYS\tCHECKSUM")
			for _, r := range renders {
				fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%s\n",
					r.RenderedAt.Format("2006-01-02 15:04:05"),
					r.ID,
					r.OutputPath,
					r.KeyCount,
					r.Checksum[:12],
				)
			}
			return w.Flush()
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 20, "maximum number of renders to list")

	return cmd
}
