package errors

import (
	"strings"
	"unicode"
)

// ValidateAssetPath validates an asset path taken from a payload.
//
// Asset paths are exporter object paths such as "/Game/Characters/Body.Body".
// They are resolved under an assets folder, so they must not be able to
// escape it. A single leading slash is allowed because the exporter always
// emits one.
//
// Validation rules:
//   - Path cannot be empty
//   - Maximum length of 500 characters
//   - No null bytes or control characters
//   - No path traversal sequences (..)
//   - No backslashes (Windows-style paths)
func ValidateAssetPath(path string) error {
	if path == "" {
		return New(ErrCodeInvalidPath, "asset path cannot be empty")
	}

	const maxPathLength = 500
	if len(path) > maxPathLength {
		return New(ErrCodeInvalidPath, "asset path too long (max %d characters)", maxPathLength)
	}

	for _, r := range path {
		if r == '\x00' || unicode.IsControl(r) {
			return New(ErrCodeInvalidPath, "asset path contains invalid characters")
		}
	}

	if strings.HasPrefix(path, "//") {
		return New(ErrCodeInvalidPath, "asset path cannot start with //")
	}

	for _, seg := range strings.Split(path, "/") {
		if seg == ".." {
			return New(ErrCodeInvalidPath, "asset path cannot contain path traversal sequences (..)")
		}
	}

	if strings.Contains(path, "\\") {
		return New(ErrCodeInvalidPath, "asset path cannot contain backslashes")
	}

	return nil
}
