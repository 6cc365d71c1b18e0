package media

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/orbitads/orbit/backend/internal/media/progress"
)

// Transcoder produces derivative artifacts from a staged source file
type Transcoder interface {
	GeneratePreview(ctx context.Context, inputPath, outputPath string, onProgress func(percent int)) error
	GenerateThumbnail(ctx context.Context, inputPath, outputPath string) error
}

// ProgressPublisher delivers progress events to a session's subscriber.
// Implementations never block and never fail.
type ProgressPublisher interface {
	Publish(sessionID string, event progress.Event)
	CloseAfter(sessionID string, delay time.Duration)
}

// ResponseHandler interface for HTTP responses
type ResponseHandler interface {
	SuccessResponse(c *gin.Context, data interface{}, message string)
	ErrorResponse(c *gin.Context, status int, code, message string, err error)
	ValidationErrorResponse(c *gin.Context, field, message string)
	NotFoundResponse(c *gin.Context, message string)
	InternalErrorResponse(c *gin.Context, message string, err error)
}
