// say.go implements the "playback say" command for canned replies.
package cli

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"strings"

	"github.com/spf13/cobra"
)

func newSayCmd(g *globals) *cobra.Command {
	var confirm, reject bool

	cmd := &cobra.Command{
		Use:   "say [message]",
		Short: "Send a message and print the assistant's reply",
		Long: `Send a free-form message to the assistant and print its reply.
With --confirm or --reject the audience answer is sent after the message.`,
		Example: `  playback say 帮我圈选高意向客户
  playback say --confirm`,
		RunE: func(cmd *cobra.Command, args []string) error {
			text := strings.Join(args, " ")
			if text == "" && !confirm && !reject {
				return errors.New("nothing to say; pass a message, --confirm or --reject")
			}
			if confirm && reject {
				return errors.New("--confirm and --reject are mutually exclusive")
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
			defer stop()

			asst := g.newAssistant(g.cfg.Clock())
			return follow(ctx, asst, cmd.OutOrStdout(), func(ctx context.Context) error {
				if text != "" {
					if err := asst.SendUserMessage(ctx, text); err != nil {
						return err
					}
				}
				switch {
				case confirm:
					return asst.ConfirmAudience(ctx)
				case reject:
					return asst.RejectAudience(ctx)
				}
				return nil
			})
		},
	}
	cmd.Flags().BoolVar(&confirm, "confirm", false, "Confirm the audience")
	cmd.Flags().BoolVar(&reject, "reject", false, "Ask to adjust the audience")
	return cmd
}
