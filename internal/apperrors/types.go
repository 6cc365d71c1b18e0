package apperrors

// ValidationError represents a rejected input, raised before any
// filesystem or storage side effect
type ValidationError struct {
	Field   string
	Message string
}

// TranscodeError represents a failed derivative generation job. It is
// recoverable: the pipeline continues without that derivative.
type TranscodeError struct {
	Kind    string // "preview" or "thumbnail"
	Message string
	Cause   error
}

// StorageUploadError represents a failed object upload. Fatal for the
// original asset; the session is aborted.
type StorageUploadError struct {
	Key   string
	Cause error
}

// StorageDeleteError represents a failed object deletion. Recoverable,
// logged only.
type StorageDeleteError struct {
	Key   string
	Cause error
}

// NotFoundError represents a missing user, brand, asset or storage object
type NotFoundError struct {
	Resource string
	ID       string
}
