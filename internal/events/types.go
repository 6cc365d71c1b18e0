package events

import (
	"time"

	"github.com/google/uuid"
)

// Event types published on the media-assets topic
const (
	TypeAssetUploaded = "media.uploaded"
	TypeAssetDeleted  = "media.deleted"
)

// AssetEvent is emitted when a creative asset is ingested or removed.
// Downstream consumers (approval dashboard, billing) subscribe to these;
// publishing is best-effort and never fails the pipeline.
type AssetEvent struct {
	Type         string    `json:"type"`
	AssetID      uuid.UUID `json:"assetId"`
	UserID       uuid.UUID `json:"userId"`
	BrandID      uuid.UUID `json:"brandId"`
	OriginalKey  string    `json:"originalKey,omitempty"`
	PreviewKey   string    `json:"previewKey,omitempty"`
	ThumbnailKey string    `json:"thumbnailKey,omitempty"`
	Size         int64     `json:"size,omitempty"`
	ContentType  string    `json:"contentType,omitempty"`
	OccurredAt   time.Time `json:"occurredAt"`
}
