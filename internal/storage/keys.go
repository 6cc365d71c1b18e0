package storage

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"
)

// Key branches under the namespace. Previews and thumbnails share the
// previews branch; originals go under uploads.
const (
	branchUploads  = "uploads"
	branchPreviews = "previews"
)

// SanitizeToken strips everything except letters, digits, underscore and
// hyphen, yielding a filesystem-safe key segment.
func SanitizeToken(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '_', r == '-':
			b.WriteRune(r)
		}
	}
	return b.String()
}

// ObjectKey derives the storage key for an upload:
//
//	<namespace>/<uploads|previews>/<user>/<brand>/<unixMillis>_<base><ext>
//
// userToken is the uploader's account identifier and brandToken the
// brand's display name; both are sanitized here. Keys derive from the
// current display values, so renames do not retroactively move already
// stored objects, and uniqueness rests on the millisecond timestamp.
func ObjectKey(namespace, userToken, brandToken, filename string, isPreview bool, at time.Time) string {
	branch := branchUploads
	if isPreview {
		branch = branchPreviews
	}

	base := filepath.Base(filename)

	return fmt.Sprintf("%s/%s/%s/%s/%d_%s",
		namespace,
		branch,
		SanitizeToken(userToken),
		SanitizeToken(brandToken),
		at.UnixMilli(),
		base,
	)
}
