package selfhost

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"strings"

	"chatroom/internal/dbmongo"
	"chatroom/internal/dbmysql"
)

// FileStore is the GridFS surface Blobs needs.
type FileStore interface {
	UploadFile(ctx context.Context, filename, mimeType, uploader string, content io.Reader) (*dbmongo.MediaFile, error)
}

// Blobs stores attachments in GridFS and records them in media_refs. URLs
// point at the media server.
type Blobs struct {
	files   FileStore
	refs    dbmysql.MediaRefRepository
	baseURL string
	// uploader names the signed-in user for the stored metadata.
	uploader func() string
}

func NewBlobs(files FileStore, refs dbmysql.MediaRefRepository, mediaBaseURL string, uploader func() string) *Blobs {
	if uploader == nil {
		uploader = func() string { return "" }
	}
	return &Blobs{
		files:    files,
		refs:     refs,
		baseURL:  strings.TrimRight(mediaBaseURL, "/"),
		uploader: uploader,
	}
}

func (b *Blobs) Upload(ctx context.Context, name, contentType string, data []byte) (string, error) {
	who := b.uploader()
	file, err := b.files.UploadFile(ctx, name, contentType, who, bytes.NewReader(data))
	if err != nil {
		return "", fmt.Errorf("store blob %s: %w", name, err)
	}

	ref := &dbmysql.MediaRef{
		FileID:      file.ID,
		Path:        "uploads/" + file.ID,
		FileName:    name,
		ContentType: contentType,
		URL:         b.baseURL + "/" + file.ID,
		Size:        file.Size,
		UploadedBy:  who,
	}
	if err := b.refs.Create(ctx, ref); err != nil {
		return "", err
	}
	return ref.Path, nil
}

func (b *Blobs) URL(ctx context.Context, path string) (string, error) {
	ref, err := b.refs.ByPath(ctx, path)
	if err != nil {
		return "", fmt.Errorf("resolve %s: %w", path, err)
	}
	return ref.URL, nil
}
