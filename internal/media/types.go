package media

import (
	"time"

	"github.com/google/uuid"
)

// Config represents the configuration for the ingestion pipeline
type Config struct {
	MaxFileSize             int64
	AllowedMimeTypes        []string
	Namespace               string
	SignedURLTTL            time.Duration
	MaxConcurrentTranscodes int
}

// ArtifactType selects which stored object of an asset is addressed
type ArtifactType string

const (
	ArtifactOriginal  ArtifactType = "original"
	ArtifactPreview   ArtifactType = "preview"
	ArtifactThumbnail ArtifactType = "thumbnail"
)

// ParseArtifactType validates a client-supplied artifact type, defaulting
// to the original when empty
func ParseArtifactType(s string) (ArtifactType, bool) {
	switch ArtifactType(s) {
	case "":
		return ArtifactOriginal, true
	case ArtifactOriginal, ArtifactPreview, ArtifactThumbnail:
		return ArtifactType(s), true
	}
	return "", false
}

// UploadRequest is the transient input to one pipeline run. It is
// consumed once and never persisted.
type UploadRequest struct {
	Filename    string
	Size        int64
	ContentType string
	UserID      uuid.UUID
	BrandID     uuid.UUID
	EstimateID  *uuid.UUID
	SessionID   string
}

// UploadResponse is the asset representation returned to the uploader,
// augmented with the session id used for progress tracking
type UploadResponse struct {
	Asset     *Asset `json:"asset"`
	SessionID string `json:"sessionId"`
}

// SignedURLResponse carries a time-limited read URL for one artifact
type SignedURLResponse struct {
	URL       string       `json:"url"`
	Artifact  ArtifactType `json:"artifact"`
	ExpiresIn int          `json:"expiresIn"`
}
