package models

import (
	"fmt"

	"github.com/google/uuid"
)

// MediaItem references externally hosted media; the service stores only the
// URL and its content hash.
type MediaItem struct {
	ID          string    `bson:"id" json:"id"`
	URL         string    `bson:"url" json:"url"`
	MediaType   string    `bson:"media_type" json:"media_type"` // image or video
	ContentHash string    `bson:"content_hash,omitempty" json:"content_hash,omitempty"`
	Caption     string    `bson:"caption,omitempty" json:"caption,omitempty"`
	CreatedAt   Timestamp `bson:"created_at" json:"created_at"`
}

type MediaCreate struct {
	URL         string `json:"url"`
	MediaType   string `json:"media_type"`
	ContentHash string `json:"content_hash"`
	Caption     string `json:"caption"`
}

func (m *MediaCreate) Validate() error {
	if m.URL == "" {
		return fmt.Errorf("url is required")
	}
	if m.MediaType != "image" && m.MediaType != "video" {
		return fmt.Errorf("media_type must be image or video")
	}
	return nil
}

func NewMediaItem(in MediaCreate) MediaItem {
	return MediaItem{
		ID:          uuid.New().String(),
		URL:         in.URL,
		MediaType:   in.MediaType,
		ContentHash: in.ContentHash,
		Caption:     in.Caption,
		CreatedAt:   Now(),
	}
}
