// play.go implements the "playback play" command for headless scenario runs.
package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"github.com/berth-dev/playback/internal/assistant"
)

func newPlayCmd(g *globals) *cobra.Command {
	var speed float64

	cmd := &cobra.Command{
		Use:   "play <scenario>",
		Short: "Play a scenario without the interface",
		Long: `Play a scenario and print the transcript as it unfolds.
Ctrl-C stops the run; the transcript so far is kept.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Flags().Changed("speed") {
				g.cfg.Playback.Speed = speed
				if err := g.cfg.Validate(); err != nil {
					return err
				}
			}
			return runPlay(cmd, g, args[0])
		},
	}
	cmd.Flags().Float64Var(&speed, "speed", 1, "Pacing multiplier (2 plays twice as fast)")
	return cmd
}

func runPlay(cmd *cobra.Command, g *globals, id string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()

	asst := g.newAssistant(g.cfg.Clock())
	out := cmd.OutOrStdout()

	err := follow(ctx, asst, out, func(ctx context.Context) error {
		return playToEnd(ctx, asst, id)
	})
	if err != nil {
		return err
	}
	if ctx.Err() != nil {
		fmt.Fprintln(out, "Playback stopped.")
	}
	return nil
}

// playToEnd starts id and blocks until the run ends. Cancelling ctx stops
// the run.
func playToEnd(ctx context.Context, asst *assistant.Assistant, id string) error {
	if !asst.Start(id) {
		return fmt.Errorf("unknown scenario %q; list them with: playback scenarios", id)
	}
	release := context.AfterFunc(ctx, asst.Stop)
	defer release()
	asst.Wait()
	return nil
}
