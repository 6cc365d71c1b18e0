package storage

import (
	"context"
	"io"
	"time"
)

// ObjectStore defines the interface for durable object storage
type ObjectStore interface {
	// Put uploads size bytes from r under key. size may be -1 when
	// unknown, at the cost of multipart buffering inside the client.
	Put(ctx context.Context, r io.Reader, size int64, key, contentType string, metadata map[string]string) (*PutResult, error)

	// Presign returns a time-limited read URL for key. Signing is local;
	// no network call is made.
	Presign(ctx context.Context, key string, ttl time.Duration) (string, error)

	// Delete removes an object. Failures come back as StorageDeleteError
	// and are safe to ignore.
	Delete(ctx context.Context, key string) error

	// Stat fetches object metadata, returning NotFoundError when absent
	Stat(ctx context.Context, key string) (*ObjectInfo, error)

	Close() error
}

// Logger interface for logging operations
type Logger interface {
	LogInfo(msg string, fields map[string]interface{})
	LogError(err error, msg string) error
}
