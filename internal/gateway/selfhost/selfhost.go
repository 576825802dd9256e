// Package selfhost is the gateway over the self-hosted stack: MySQL for
// users and messages, MongoDB GridFS for attachments.
package selfhost

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"chatroom/internal/common"
	"chatroom/internal/config"
	"chatroom/internal/dbmongo"
	"chatroom/internal/dbmysql"
	"chatroom/internal/gateway"
)

// New connects to MySQL and MongoDB. An empty MongoDB host disables blob
// offload.
func New(cfg *config.Config) (*gateway.Gateway, error) {
	db, err := dbmysql.NewMySQL(cfg)
	if err != nil {
		return nil, err
	}

	auth := NewAuth(
		dbmysql.NewUserRepository(db),
		common.NewTokenIssuer(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL),
		AuthOptions{
			SignInPerMinute: cfg.Auth.SignInPerMin,
			SignInBurst:     cfg.Auth.SignInBurst,
			AllowSignUp:     cfg.Auth.AllowSignUp,
		},
	)
	hub := NewHub(2)
	msgs := NewMessages(dbmysql.NewMessageRepository(db), hub, cfg.Feed.PollInterval)

	gw := &gateway.Gateway{Auth: auth, Messages: msgs}
	closers := []func() error{
		func() error { hub.Shutdown(); return nil },
		func() error { return dbmysql.Close(db) },
	}

	if cfg.MongoDB.Host != "" {
		mongo, err := dbmongo.NewMongoConnection(cfg)
		if err != nil {
			hub.Shutdown()
			dbmysql.Close(db)
			return nil, fmt.Errorf("selfhost blobs: %w", err)
		}
		gw.Blobs = NewBlobs(dbmongo.NewMediaStorage(mongo), dbmysql.NewMediaRefRepository(db),
			cfg.Server.MediaBaseURL, func() string {
				if id := auth.Current(); id != nil {
					return id.Email
				}
				return ""
			})
		closers = append(closers, func() error {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			return mongo.Close(ctx)
		})
	} else {
		slog.Warn("MONGO_HOST not set, attachments stay inline")
	}

	gw.Close = func() error {
		var errs []error
		for _, c := range closers {
			if err := c(); err != nil {
				errs = append(errs, err)
			}
		}
		return errors.Join(errs...)
	}
	return gw, nil
}
