// Package firebasegw is the gateway over Firebase: Firestore for messages,
// Identity Toolkit for password auth, Cloud Storage for attachments.
package firebasegw

import (
	"context"
	"fmt"
	"log/slog"

	firebase "firebase.google.com/go/v4"
	"google.golang.org/api/identitytoolkit/v3"
	"google.golang.org/api/option"

	"chatroom/internal/config"
	"chatroom/internal/gateway"
)

func New(ctx context.Context, cfg *config.Config) (*gateway.Gateway, error) {
	var opts []option.ClientOption
	if cfg.Firebase.CredentialsFilePath != "" {
		opts = append(opts, option.WithCredentialsFile(cfg.Firebase.CredentialsFilePath))
	}

	app, err := firebase.NewApp(ctx, &firebase.Config{
		ProjectID:     cfg.Firebase.ProjectID,
		StorageBucket: cfg.Firebase.StorageBucket,
	}, opts...)
	if err != nil {
		return nil, fmt.Errorf("firebase init: %w", err)
	}

	fs, err := app.Firestore(ctx)
	if err != nil {
		return nil, fmt.Errorf("firestore client: %w", err)
	}

	idt, err := identitytoolkit.NewService(ctx, option.WithAPIKey(cfg.Firebase.APIKey))
	if err != nil {
		fs.Close()
		return nil, fmt.Errorf("identity toolkit client: %w", err)
	}

	gw := &gateway.Gateway{
		Auth:     NewAuth(idt),
		Messages: NewMessages(fs),
		Close:    fs.Close,
	}

	if cfg.Firebase.StorageBucket != "" {
		st, err := app.Storage(ctx)
		if err != nil {
			fs.Close()
			return nil, fmt.Errorf("storage client: %w", err)
		}
		bucket, err := st.DefaultBucket()
		if err != nil {
			fs.Close()
			return nil, fmt.Errorf("storage bucket: %w", err)
		}
		gw.Blobs = NewBlobs(bucket, cfg.Firebase.SignedURLTTL)
	} else {
		slog.Warn("FIREBASE_STORAGE_BUCKET not set, attachments stay inline")
	}

	return gw, nil
}
