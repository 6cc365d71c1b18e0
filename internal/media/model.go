package media

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// AssetStatus represents the approval state of a stored creative
type AssetStatus string

const (
	AssetStatusPending  AssetStatus = "pending"
	AssetStatusApproved AssetStatus = "approved"
	AssetStatusRejected AssetStatus = "rejected"
)

// IsValid checks if the status is a valid asset status
func (s AssetStatus) IsValid() bool {
	switch s {
	case AssetStatusPending, AssetStatusApproved, AssetStatusRejected:
		return true
	}
	return false
}

// Asset is the durable record of one ingested creative. Either both
// derivative keys are set or neither: a failed transcode yields an asset
// with no derivatives, never exactly one.
type Asset struct {
	ID               uuid.UUID   `gorm:"primaryKey;type:uuid" json:"id"`
	UserID           uuid.UUID   `gorm:"index;not null" json:"userId"`
	BrandID          uuid.UUID   `gorm:"index;not null" json:"brandId"`
	EstimateID       *uuid.UUID  `gorm:"index" json:"estimateId,omitempty"`
	OriginalFilename string      `gorm:"not null" json:"originalFilename"`
	ContentType      string      `gorm:"not null" json:"contentType"`
	Size             int64       `gorm:"not null" json:"size"`
	OriginalKey      string      `gorm:"not null" json:"originalKey"`
	PreviewKey       *string     `json:"previewKey,omitempty"`
	ThumbnailKey     *string     `json:"thumbnailKey,omitempty"`
	Status           AssetStatus `gorm:"type:string;default:'pending'" json:"status"`
	CreatedAt        time.Time   `json:"createdAt"`
	UpdatedAt        time.Time   `json:"updatedAt"`
}

// BeforeCreate hook to assign an id and default status
func (a *Asset) BeforeCreate(tx *gorm.DB) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	if a.Status == "" {
		a.Status = AssetStatusPending
	}
	return nil
}

// HasDerivatives reports whether the asset carries preview and thumbnail
func (a *Asset) HasDerivatives() bool {
	return a.PreviewKey != nil && a.ThumbnailKey != nil
}
