package errors

import (
	"regexp"
	"strings"
	"unicode"
)

// ValidateColumnName validates a dataset column name.
// Column names end up in component attribute strings, so the separators
// used by the A-Frame attribute syntax are rejected.
//
// The validation rules are intentionally conservative:
//   - No empty names
//   - No control characters
//   - No ';' or ':' (attribute syntax separators)
//   - Maximum length of 256 characters
func ValidateColumnName(name string) error {
	if name == "" {
		return New(ErrCodeInvalidDataset, "column name cannot be empty")
	}

	if len(name) > 256 {
		return New(ErrCodeInvalidDataset, "column name too long (max 256 characters)")
	}

	for _, r := range name {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidDataset, "column name contains invalid control characters")
		}
	}

	if strings.ContainsAny(name, ";:") {
		return New(ErrCodeInvalidDataset, "column name %q contains attribute separators", name)
	}

	return nil
}

// ValidatePath validates an output path for safety.
// It prevents path traversal and ensures reasonable path length.
//
// Validation rules:
//   - Path cannot be empty
//   - Maximum length of 500 characters
//   - No null bytes or control characters
//   - No path traversal sequences (..)
func ValidatePath(path string) error {
	if path == "" {
		return New(ErrCodeInvalidPath, "path cannot be empty")
	}

	const maxPathLength = 500
	if len(path) > maxPathLength {
		return New(ErrCodeInvalidPath, "path too long (max %d characters)", maxPathLength)
	}

	for _, r := range path {
		if r == '\x00' || unicode.IsControl(r) {
			return New(ErrCodeInvalidPath, "path contains invalid characters")
		}
	}

	for _, part := range strings.FieldsFunc(path, func(r rune) bool { return r == '/' || r == '\\' }) {
		if part == ".." {
			return New(ErrCodeInvalidPath, "path cannot contain path traversal sequences (..)")
		}
	}

	return nil
}

// ValidateURL validates a URL string for safety.
// It ensures the URL has a safe scheme (http or https).
func ValidateURL(rawURL string) error {
	if rawURL == "" {
		return New(ErrCodeInvalidInput, "URL cannot be empty")
	}

	// Simple scheme validation without full URL parsing
	if !strings.HasPrefix(rawURL, "http://") && !strings.HasPrefix(rawURL, "https://") {
		return New(ErrCodeInvalidInput, "URL must use http or https scheme")
	}

	return nil
}

// elementIDRegex matches identifiers usable in a CSS "#id" selector.
var elementIDRegex = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_-]*$`)

// ValidateElementID validates an entity id used as an interaction target.
func ValidateElementID(id string) error {
	if !elementIDRegex.MatchString(id) {
		return New(ErrCodeInvalidScene, "invalid element id: %q", id)
	}
	return nil
}
