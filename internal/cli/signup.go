package cli

import (
	"errors"
	"fmt"

	"github.com/AlecAivazis/survey/v2"
	"github.com/spf13/cobra"

	"chatroom/internal/config"
	"chatroom/internal/di"
	"chatroom/internal/login"
)

func NewSignUpCmd(cfg func() *config.Config) *cobra.Command {
	var opts credentials

	cmd := &cobra.Command{
		Use:   "signup",
		Short: "Create an account",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signalContext(cmd.Context())
			defer stop()

			app, cleanup, err := di.InitializeApplication(ctx, cfg())
			if err != nil {
				return fmt.Errorf("init: %w", err)
			}
			defer cleanup()

			prompted := opts.Password == ""
			if err := promptMissing(&opts); err != nil {
				return err
			}
			if prompted {
				var confirm string
				if err := askOne(&survey.Password{Message: "Confirm password:"}, &confirm); err != nil {
					return err
				}
				if confirm != opts.Password {
					return errors.New("passwords do not match")
				}
			}

			form := login.NewForm(app.Gateway.Auth)
			form.SetEmail(opts.Email)
			form.SetPassword(opts.Password)
			res := form.SignUp(ctx)
			if res.Error != "" {
				errorColor.Fprintln(cmd.ErrOrStderr(), res.Error)
				return errors.New(res.Error)
			}

			out := cmd.OutOrStdout()
			noticeColor.Fprintln(out, res.Notice.Title)
			fmt.Fprintln(out, res.Notice.Detail)
			if _, ok := app.Gateway.Auth.(resumer); ok && res.Identity.Token != "" {
				timeColor.Fprintf(out, "Session token (use with --token): %s\n", res.Identity.Token)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&opts.Email, "email", "e", "", "Account email")
	cmd.Flags().StringVarP(&opts.Password, "password", "p", "", "Account password (prompted when empty)")
	return cmd
}
