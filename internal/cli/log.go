// log.go implements the "playback log" command printing the event journal.
package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/berth-dev/playback/internal/log"
)

func newLogCmd(g *globals) *cobra.Command {
	var (
		tail     int
		scenario string
		asJSON   bool
	)

	cmd := &cobra.Command{
		Use:   "log",
		Short: "Print the playback journal",
		Long: `Print the events recorded in .playback/log.jsonl: scenario runs,
routed intents, audience answers and session resets.`,
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

			events = filterEvents(events, scenario, tail)
			if len(events) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No events recorded yet. Play one with: playback play s1")
				return nil
			}
			if asJSON {
				enc := json.NewEncoder(cmd.OutOrStdout())
				for _, ev := range events {
					if err := enc.Encode(ev); err != nil {
						return err
					}
				}
				return nil
			}
			for _, ev := range events {
				printEvent(cmd.OutOrStdout(), ev)
			}
			return nil
		},
	}
	cmd.Flags().IntVarP(&tail, "tail", "n", 0, "Only show the last n events")
	cmd.Flags().StringVar(&scenario, "scenario", "", "Only show events of this scenario")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print raw JSON lines")
	return cmd
}

// filterEvents keeps the events of scenario (all when empty), then the
// last tail of them (all when tail <= 0).
func filterEvents(events []log.LogEvent, scenario string, tail int) []log.LogEvent {
	if scenario != "" {
		kept := events[:0:0]
		for _, ev := range events {
			if ev.ScenarioID == scenario {
				kept = append(kept, ev)
			}
		}
		events = kept
	}
	if tail > 0 && len(events) > tail {
		events = events[len(events)-tail:]
	}
	return events
}

func printEvent(w io.Writer, ev log.LogEvent) {
	fields := []string{ev.Time.Local().Format("2006-01-02 15:04:05"), fmt.Sprintf("%-20s", ev.Event)}
	if ev.ScenarioID != "" {
		fields = append(fields, ev.ScenarioID)
	}
	switch {
	case ev.Step > 0 && ev.Steps > 0:
		fields = append(fields, fmt.Sprintf("step %d/%d", ev.Step, ev.Steps))
	case ev.Step > 0:
		fields = append(fields, fmt.Sprintf("step %d", ev.Step))
	case ev.Steps > 0:
		fields = append(fields, fmt.Sprintf("%d steps", ev.Steps))
	}
	if ev.Intent != "" {
		fields = append(fields, "intent="+ev.Intent)
	}
	if ev.DurationMs > 0 {
		fields = append(fields, fmt.Sprintf("%dms", ev.DurationMs))
	}
	if ev.Error != "" {
		fields = append(fields, "error: "+ev.Error)
	}
	fmt.Fprintln(w, strings.Join(fields, "  "))
}
