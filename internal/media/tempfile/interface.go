package tempfile

import (
	"context"
	"time"
)

// Workspace defines the interface for scratch file operations
type Workspace interface {
	// Stage copies an externally-owned file into the workspace under a
	// unique name, so later steps may mutate or delete the copy freely
	Stage(sourcePath string) (string, error)

	// Create returns a unique scratch path inside the workspace without
	// creating the file, for use as a transcode output target
	Create(ext string) string

	// Remove deletes a scratch file. Removing a file that is already
	// gone is not an error.
	Remove(path string) error

	// Sweep removes workspace files whose modification time is older
	// than maxAge, returning the number removed
	Sweep(maxAge time.Duration) (int, error)

	// StartSweeper runs Sweep on a fixed interval until ctx is done
	StartSweeper(ctx context.Context, interval, maxAge time.Duration)
}
