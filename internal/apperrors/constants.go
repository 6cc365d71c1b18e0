package apperrors

// Error message constants
const (
	ErrMsgFileSize    = "File size exceeds maximum allowed size"
	ErrMsgFileType    = "File type not allowed"
	ErrMsgNoFile      = "No file provided"
	ErrMsgEmptyFile   = "File is empty"
	ErrMsgBadBrand    = "Brand id is required"
	ErrMsgBadArtifact = "Unknown artifact type"
)
