// report.go implements the "playback report" command summarising the journal.
package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/berth-dev/playback/internal/report"
)

func newReportCmd(g *globals) *cobra.Command {
	return &cobra.Command{
		Use:   "report",
		Short: "Summarise the playback journal",
		Long: `Display how often each scenario ran and how the runs ended, plus the
replies given to free-form input, as recorded in .playback/log.jsonl.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			journal, err := g.openJournal()
			if err != nil {
				return err
			}
			events, err := journal.ReadAll()
			if err != nil {
				return err
			}
			if len(events) == 0 {
				return errors.New("no events recorded yet; play one with: playback play s1")
			}
			fmt.Fprint(cmd.OutOrStdout(), report.Format(report.Generate(events)))
			return nil
		},
	}
}
