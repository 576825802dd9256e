package dbmysql

import (
	"time"
)

// Message is one chat document. Seq breaks createdAt ties in insert order.
type Message struct {
	Seq         uint64    `gorm:"primaryKey;column:seq;autoIncrement" json:"-"`
	DocID       string    `gorm:"column:doc_id;uniqueIndex;size:36;not null" json:"id"`
	Collection  string    `gorm:"column:collection;size:64;not null;index:idx_collection_created,priority:1" json:"collection"`
	Text        string    `gorm:"column:text;type:text" json:"text"`
	Author      string    `gorm:"column:author;size:255;index" json:"user"`
	ImageBase64 string    `gorm:"column:image_base64;type:longtext" json:"imageBase64,omitempty"`
	ImageURL    string    `gorm:"column:image_url;size:500" json:"imageUrl,omitempty"`
	CreatedAt   time.Time `gorm:"column:created_at;not null;index:idx_collection_created,priority:2" json:"createdAt"`
}
