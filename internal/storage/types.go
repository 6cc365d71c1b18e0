package storage

import "time"

// Metadata keys attached to every stored object
const (
	MetaOriginalFilename = "original-filename"
	MetaUploaderID       = "uploader-id"
	MetaBrandID          = "brand-id"
	MetaIsPreview        = "is-preview"
	MetaUploadedAt       = "uploaded-at"
)

// PutResult describes a completed upload
type PutResult struct {
	Key  string
	Size int64
}

// ObjectInfo describes a stored object
type ObjectInfo struct {
	Key          string
	Size         int64
	ContentType  string
	LastModified time.Time
	Metadata     map[string]string
}
