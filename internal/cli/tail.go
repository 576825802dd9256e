package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"chatroom/internal/config"
	"chatroom/internal/di"
	"chatroom/internal/feed"
)

// NewTailCmd prints the room's messages as they arrive.
func NewTailCmd(cfg func() *config.Config, root *rootOpts) *cobra.Command {
	var opts struct {
		Email    string
		Password string
		History  int
	}

	cmd := &cobra.Command{
		Use:   "tail",
		Short: "Print the room's messages as they arrive",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signalContext(cmd.Context())
			defer stop()

			app, cleanup, err := di.InitializeApplication(ctx, cfg())
			if err != nil {
				return fmt.Errorf("init: %w", err)
			}
			defer cleanup()

			id, err := signIn(ctx, app.Gateway.Auth, root.Token, credentials{Email: opts.Email, Password: opts.Password})
			if err != nil {
				return err
			}

			changed := make(chan struct{}, 1)
			engine := app.NewFeed(func(feed.State) {
				select {
				case changed <- struct{}{}:
				default:
				}
			})
			if err := engine.Start(ctx, id.Email); err != nil {
				return err
			}
			defer engine.Stop()

			out := newFeedPrinter(cmd.OutOrStdout(), id.Email, opts.History)
			for {
				select {
				case <-ctx.Done():
					return nil
				case <-changed:
					st := engine.State()
					switch st.Status {
					case feed.StatusError:
						return fmt.Errorf("feed: %w", st.Err)
					case feed.StatusReady:
						out.print(st.Messages)
					}
				}
			}
		},
	}

	cmd.Flags().StringVarP(&opts.Email, "email", "e", "", "Account email")
	cmd.Flags().StringVarP(&opts.Password, "password", "p", "", "Account password (prompted when empty)")
	cmd.Flags().IntVarP(&opts.History, "history", "n", 20, "Messages to show from before tail started (0 for all)")
	return cmd
}
