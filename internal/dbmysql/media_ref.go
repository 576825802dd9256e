package dbmysql

import (
	"time"
)

// MediaRef records a blob stored in GridFS.
type MediaRef struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	FileID      string    `gorm:"size:24;uniqueIndex" json:"file_id"` // MongoDB ObjectID
	Path        string    `gorm:"size:255;uniqueIndex" json:"path"`
	FileName    string    `gorm:"size:255" json:"file_name"`
	ContentType string    `gorm:"size:100" json:"content_type"`
	URL         string    `gorm:"size:500" json:"url"`
	Size        int64     `json:"size"`
	UploadedBy  string    `gorm:"size:255;index" json:"uploaded_by"`
	CreatedAt   time.Time `json:"created_at"`
}

func (MediaRef) TableName() string {
	return "media_refs"
}
