package media

import (
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/orbitads/orbit/backend/internal/apperrors"
)

// ValidateUpload checks the declared shape of an upload request against
// the allow-list and size ceiling. It runs before any filesystem or
// storage side effect; a rejected request leaves no trace.
func (s *Service) ValidateUpload(req *UploadRequest) error {
	if req.Filename == "" {
		return apperrors.NewValidationError("file", apperrors.ErrMsgNoFile)
	}

	if req.Size <= 0 {
		return apperrors.NewValidationError("file", apperrors.ErrMsgEmptyFile)
	}

	if req.Size > s.config.MaxFileSize {
		return apperrors.NewValidationError("file",
			fmt.Sprintf("%s (%d bytes, limit %d)", apperrors.ErrMsgFileSize, req.Size, s.config.MaxFileSize))
	}

	if !s.isAllowedType(req.ContentType) {
		return apperrors.NewValidationError("file",
			fmt.Sprintf("%s: %s", apperrors.ErrMsgFileType, req.ContentType))
	}

	if req.UserID == uuid.Nil {
		return apperrors.NewValidationError("user_id", "User id is required")
	}

	if req.BrandID == uuid.Nil {
		return apperrors.NewValidationError("brand_id", apperrors.ErrMsgBadBrand)
	}

	return nil
}

// isAllowedType matches the declared MIME type against the allow-list,
// ignoring any parameters like codecs.
func (s *Service) isAllowedType(contentType string) bool {
	mimeType := normalizeMime(contentType)
	for _, allowed := range s.config.AllowedMimeTypes {
		if mimeType == allowed {
			return true
		}
	}
	return false
}

// isVideo reports whether the upload should go through the transcoding
// stage. Audio-only and other accepted types skip it.
func isVideo(contentType string) bool {
	return strings.HasPrefix(normalizeMime(contentType), "video/")
}

func normalizeMime(contentType string) string {
	mimeType, _, _ := strings.Cut(contentType, ";")
	return strings.ToLower(strings.TrimSpace(mimeType))
}
