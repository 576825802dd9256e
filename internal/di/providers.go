package di

import (
	"context"
	"fmt"
	"log/slog"

	"chatroom/internal/config"
	"chatroom/internal/feed"
	"chatroom/internal/gateway"
	"chatroom/internal/gateway/firebasegw"
	"chatroom/internal/gateway/memgw"
	"chatroom/internal/gateway/selfhost"
	"chatroom/internal/permission"
	"chatroom/internal/picker"
	"chatroom/internal/session"
	"chatroom/internal/tui"
)

// Application is everything a client command needs.
type Application struct {
	Config  *config.Config
	Gateway *gateway.Gateway
	Session *session.Controller
	NewFeed tui.FeedFactory
	Gallery permission.Helper
	Picker  *picker.Picker
}

// TUIDeps adapts the application for the terminal client.
func (a *Application) TUIDeps() tui.Deps {
	return tui.Deps{
		Session:     a.Session,
		Auth:        a.Gateway.Auth,
		NewFeed:     a.NewFeed,
		Gallery:     a.Gallery,
		Picker:      a.Picker,
		PickOptions: picker.DefaultOptions(a.Config.Picker.Quality),
	}
}

func ProvideGateway(ctx context.Context, cfg *config.Config) (*gateway.Gateway, func(), error) {
	var (
		gw  *gateway.Gateway
		err error
	)

	switch cfg.Backend.Kind {
	case config.BackendFirebase:
		gw, err = firebasegw.New(ctx, cfg)
	case config.BackendSelfHost:
		gw, err = selfhost.New(cfg)
	case config.BackendMemory:
		gw = memgw.New().Bundle()
	default:
		err = fmt.Errorf("unknown backend %q", cfg.Backend.Kind)
	}
	if err != nil {
		return nil, nil, err
	}

	slog.Info("gateway ready", "backend", cfg.Backend.Kind, "blobs", gw.Blobs != nil)
	cleanup := func() {
		if err := gw.Shutdown(); err != nil {
			slog.Warn("gateway shutdown", "err", err)
		}
	}
	return gw, cleanup, nil
}

func ProvideAuth(gw *gateway.Gateway) gateway.Auth {
	return gw.Auth
}

func ProvideSession(auth gateway.Auth) (*session.Controller, func()) {
	c := session.New(auth)
	return c, c.Close
}

func ProvideFeedFactory(gw *gateway.Gateway, cfg *config.Config) tui.FeedFactory {
	return func(onChange func(feed.State)) *feed.Engine {
		return feed.New(gw.Messages, gw.Blobs, feed.Options{
			Collection:       cfg.Feed.Collection,
			MaxLength:        cfg.Feed.MaxLength,
			InlineImageLimit: cfg.Feed.InlineImageLimit,
			OnChange:         onChange,
		})
	}
}

// ProvideGallery confirms on the terminal, then checks the gallery directory.
func ProvideGallery(cfg *config.Config) permission.Helper {
	return permission.Prompt{Next: permission.Directory{Path: cfg.Picker.GalleryDir}}
}

func ProvidePicker(cfg *config.Config) *picker.Picker {
	return picker.New(cfg.Picker.GalleryDir, picker.SurveyChooser())
}
