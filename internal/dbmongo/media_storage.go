package dbmongo

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/gridfs"
	"go.mongodb.org/mongo-driver/mongo/options"

	"chatroom/internal/common"
)

var ErrFileNotFound = errors.New("file not found")

type MediaStorage struct {
	gridFS *gridfs.Bucket
	now    func() time.Time
}

func NewMediaStorage(mongoClient *MongoClient) *MediaStorage {
	return &MediaStorage{
		gridFS: mongoClient.GridFS,
		now:    time.Now,
	}
}

type MediaFile struct {
	ID          string               `json:"id"`       // GridFS ObjectID
	Filename    string               `json:"filename"` // Original filename
	Size        int64                `json:"size"`
	ContentType string               `json:"content_type"`
	FileType    common.MediaFileType `json:"file_type"`
	UploadedBy  string               `json:"uploaded_by"` // sender email
	UploadedAt  time.Time            `json:"uploaded_at"`
}

func uploadMetadata(mimeType, uploader string, at time.Time) bson.M {
	return bson.M{
		"file_type":   common.DetectFileType(mimeType).String(),
		"mime_type":   mimeType,
		"uploaded_by": uploader,
		"uploaded_at": at,
	}
}

func (ms *MediaStorage) UploadFile(ctx context.Context, filename, mimeType, uploader string, content io.Reader) (*MediaFile, error) {
	at := ms.now().UTC()

	opts := options.GridFSUpload().SetMetadata(uploadMetadata(mimeType, uploader, at))
	stream, err := ms.gridFS.OpenUploadStream(filename, opts)
	if err != nil {
		return nil, fmt.Errorf("upload failed: %w", err)
	}

	size, err := io.Copy(stream, content)
	if err != nil {
		stream.Abort()
		return nil, fmt.Errorf("file copy failed: %w", err)
	}
	if err := stream.Close(); err != nil {
		return nil, fmt.Errorf("upload finalize failed: %w", err)
	}

	return &MediaFile{
		ID:          stream.FileID.(primitive.ObjectID).Hex(),
		Filename:    filename,
		Size:        size,
		ContentType: mimeType,
		FileType:    common.DetectFileType(mimeType),
		UploadedBy:  uploader,
		UploadedAt:  at,
	}, nil
}

// DownloadFile opens the blob. The caller closes the returned reader.
func (ms *MediaStorage) DownloadFile(ctx context.Context, fileID string) (io.ReadCloser, *MediaFile, error) {
	objectID, err := primitive.ObjectIDFromHex(fileID)
	if err != nil {
		return nil, nil, fmt.Errorf("invalid file ID: %w", err)
	}

	stream, err := ms.gridFS.OpenDownloadStream(objectID)
	if errors.Is(err, gridfs.ErrFileNotFound) {
		return nil, nil, ErrFileNotFound
	}
	if err != nil {
		return nil, nil, fmt.Errorf("download failed: %w", err)
	}

	fileInfo := stream.GetFile()
	var metadata bson.M
	if fileInfo.Metadata != nil {
		bson.Unmarshal(fileInfo.Metadata, &metadata)
	}

	return stream, fileFromMetadata(fileID, fileInfo.Name, fileInfo.Length, fileInfo.UploadDate, metadata), nil
}

func (ms *MediaStorage) DeleteFile(ctx context.Context, fileID string) error {
	objectID, err := primitive.ObjectIDFromHex(fileID)
	if err != nil {
		return fmt.Errorf("invalid file ID: %w", err)
	}
	if err := ms.gridFS.Delete(objectID); err != nil {
		if errors.Is(err, gridfs.ErrFileNotFound) {
			return ErrFileNotFound
		}
		return fmt.Errorf("delete failed: %w", err)
	}
	return nil
}

func fileFromMetadata(id, name string, size int64, uploaded time.Time, metadata bson.M) *MediaFile {
	mime := getStringFromMap(metadata, "mime_type")
	if mime == "" {
		mime = common.ContentTypeFor(name)
	}
	return &MediaFile{
		ID:          id,
		Filename:    name,
		Size:        size,
		ContentType: mime,
		FileType:    common.DetectFileType(mime),
		UploadedBy:  getStringFromMap(metadata, "uploaded_by"),
		UploadedAt:  uploaded,
	}
}

func getStringFromMap(m bson.M, key string) string {
	if m == nil {
		return ""
	}
	if val, ok := m[key]; ok {
		if str, ok := val.(string); ok {
			return str
		}
	}
	return ""
}
