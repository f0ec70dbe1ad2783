// scenarios.go implements the "playback scenarios" command listing the catalog.
package cli

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/berth-dev/playback/internal/catalog"
)

func newScenariosCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "scenarios",
		Short: "List the demo scenarios",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "ID\tSTEPS\tTITLE\tDESCRIPTION")
			for _, sc := range catalog.Default().List() {
				fmt.Fprintf(tw, "%s\t%d\t%s\t%s\n", sc.ID, len(sc.Steps), sc.Title, sc.Description)
			}
			return tw.Flush()
		},
	}
}
