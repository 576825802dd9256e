package cli

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"chatroom/internal/config"
	"chatroom/internal/di"
	"chatroom/internal/permission"
	"chatroom/internal/picker"
)

// NewSendCmd signs in, sends one message and exits.
func NewSendCmd(cfg func() *config.Config, root *rootOpts) *cobra.Command {
	var opts struct {
		Email    string
		Password string
		Text     string
		Image    string
		Yes      bool
	}

	cmd := &cobra.Command{
		Use:   "send",
		Short: "Send one message to the room",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signalContext(cmd.Context())
			defer stop()

			conf := cfg()
			app, cleanup, err := di.InitializeApplication(ctx, conf)
			if err != nil {
				return fmt.Errorf("init: %w", err)
			}
			defer cleanup()

			id, err := signIn(ctx, app.Gateway.Auth, root.Token, credentials{Email: opts.Email, Password: opts.Password})
			if err != nil {
				return err
			}

			engine := app.NewFeed(nil)
			if err := engine.Start(ctx, id.Email); err != nil {
				return err
			}
			defer engine.Stop()

			if opts.Image != "" {
				image, err := loadImage(ctx, opts.Image, opts.Yes, conf.Picker.Quality)
				if err != nil {
					return err
				}
				engine.AttachImage(image)
			}
			engine.SetDraftText(opts.Text)

			if !engine.State().CanSend() {
				return errors.New("nothing to send: pass --text or --image")
			}
			if err := engine.Send(ctx); err != nil {
				return err
			}
			noticeColor.Fprintln(cmd.OutOrStdout(), "sent")
			return nil
		},
	}

	cmd.Flags().StringVarP(&opts.Email, "email", "e", "", "Account email")
	cmd.Flags().StringVarP(&opts.Password, "password", "p", "", "Account password (prompted when empty)")
	cmd.Flags().StringVarP(&opts.Text, "text", "t", "", "Message text")
	cmd.Flags().StringVarP(&opts.Image, "image", "i", "", "Path of a photo to attach")
	cmd.Flags().BoolVarP(&opts.Yes, "yes", "y", false, "Grant gallery access without asking")
	return cmd
}

// loadImage asks for gallery access to the photo's directory, then
// re-encodes it the way the interactive picker does.
func loadImage(ctx context.Context, path string, yes bool, quality float64) (string, error) {
	dir := filepath.Dir(path)
	var gallery permission.Helper = permission.Prompt{Next: permission.Directory{Path: dir}}
	if yes {
		gallery = permission.Directory{Path: dir}
	}

	granted, err := gallery.RequestGalleryAccess(ctx)
	if err != nil {
		return "", err
	}
	if !granted {
		return "", errors.New(permission.GalleryMessage)
	}

	image, ok, err := picker.New(dir, picker.FixedPath(path)).Pick(ctx, picker.DefaultOptions(quality))
	if err != nil {
		return "", fmt.Errorf("load %s: %w", path, err)
	}
	if !ok {
		return "", fmt.Errorf("load %s: no image", path)
	}
	return image, nil
}
