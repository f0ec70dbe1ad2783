// clean.go implements the "playback clean" command for journal pruning.
package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/berth-dev/playback/internal/cleanup"
	"github.com/berth-dev/playback/internal/log"
)

func newCleanCmd(g *globals) *cobra.Command {
	var (
		keep   int
		dryRun bool
	)

	cmd := &cobra.Command{
		Use:   "clean",
		Short: "Remove old journal events",
		Long: `Remove old events from .playback/log.jsonl.

By default, removes events older than the configured max_age_days (default 30).
Use --keep to keep only the N most recent events instead.
Use --dry-run to preview what would be removed.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			journal, err := g.openJournal()
			if err != nil {
				return err
			}

			var pruned []log.LogEvent
			if keep > 0 {
				pruned, err = cleanup.PruneKeepRecent(journal, keep, dryRun)
			} else {
				maxAge := g.cfg.Log.MaxAgeDays
				if maxAge <= 0 {
					maxAge = 30
				}
				pruned, err = cleanup.PruneByAge(journal, maxAge, time.Now(), dryRun)
			}
			if err != nil {
				return fmt.Errorf("cleanup failed: %w", err)
			}

			out := cmd.OutOrStdout()
			if len(pruned) == 0 {
				fmt.Fprintln(out, "No events to clean up.")
				return nil
			}

			verb := "Removed"
			if dryRun {
				verb = "Would remove"
			}
			fmt.Fprintf(out, "%s %d event(s), the oldest from %s.\n",
				verb, len(pruned), pruned[0].Time.Local().Format("2006-01-02 15:04"))
			return nil
		},
	}
	cmd.Flags().IntVar(&keep, "keep", 0, "Keep only the last N events (0 = use age-based cleanup)")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Preview what would be removed without deleting")
	return cmd
}
