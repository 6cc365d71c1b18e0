package apperrors

import (
	"errors"
	"fmt"
)

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func (e *TranscodeError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s transcode failed: %s: %v", e.Kind, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s transcode failed: %s", e.Kind, e.Message)
}

func (e *TranscodeError) Unwrap() error { return e.Cause }

func (e *StorageUploadError) Error() string {
	return fmt.Sprintf("upload failed for key %s: %v", e.Key, e.Cause)
}

func (e *StorageUploadError) Unwrap() error { return e.Cause }

func (e *StorageDeleteError) Error() string {
	return fmt.Sprintf("delete failed for key %s: %v", e.Key, e.Cause)
}

func (e *StorageDeleteError) Unwrap() error { return e.Cause }

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s not found: %s", e.Resource, e.ID)
}

// NewValidationError creates a new ValidationError
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}

// NewTranscodeError creates a new TranscodeError
func NewTranscodeError(kind, message string, cause error) *TranscodeError {
	return &TranscodeError{Kind: kind, Message: message, Cause: cause}
}

// NewStorageUploadError creates a new StorageUploadError
func NewStorageUploadError(key string, cause error) *StorageUploadError {
	return &StorageUploadError{Key: key, Cause: cause}
}

// NewStorageDeleteError creates a new StorageDeleteError
func NewStorageDeleteError(key string, cause error) *StorageDeleteError {
	return &StorageDeleteError{Key: key, Cause: cause}
}

// NewNotFoundError creates a new NotFoundError
func NewNotFoundError(resource, id string) *NotFoundError {
	return &NotFoundError{Resource: resource, ID: id}
}

// IsNotFound reports whether err is a NotFoundError
func IsNotFound(err error) bool {
	var nf *NotFoundError
	return errors.As(err, &nf)
}

// IsValidation reports whether err is a ValidationError
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
