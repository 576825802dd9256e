package firebasegw

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"cloud.google.com/go/storage"
	"github.com/google/uuid"
)

// Blobs keeps attachments in the project's Cloud Storage bucket and hands
// out signed download URLs.
type Blobs struct {
	bucket *storage.BucketHandle
	ttl    time.Duration
}

func NewBlobs(bucket *storage.BucketHandle, signedURLTTL time.Duration) *Blobs {
	if signedURLTTL <= 0 {
		signedURLTTL = 7 * 24 * time.Hour
	}
	return &Blobs{bucket: bucket, ttl: signedURLTTL}
}

func objectPath(name string) string {
	return "chat-images/" + uuid.NewString() + "-" + name
}

func (b *Blobs) Upload(ctx context.Context, name, contentType string, data []byte) (string, error) {
	path := objectPath(name)

	w := b.bucket.Object(path).NewWriter(ctx)
	w.ContentType = contentType
	if _, err := w.Write(data); err != nil {
		w.Close()
		return "", fmt.Errorf("upload %s: %w", path, err)
	}
	if err := w.Close(); err != nil {
		return "", fmt.Errorf("upload %s: %w", path, err)
	}
	return path, nil
}

func (b *Blobs) URL(ctx context.Context, path string) (string, error) {
	url, err := b.bucket.SignedURL(path, &storage.SignedURLOptions{
		Method:  http.MethodGet,
		Expires: time.Now().Add(b.ttl),
	})
	if err != nil {
		return "", fmt.Errorf("sign %s: %w", path, err)
	}
	return url, nil
}
