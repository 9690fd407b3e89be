package errors

import (
	"strings"
	"unicode"
)

// ValidateFilename validates a frame file name for safety.
// It ensures the name is a simple basename without path components, so it can
// be joined onto an output directory without escaping it.
//
// The validation rules are intentionally conservative:
//   - No empty names
//   - No control characters or null bytes
//   - No path separators
//   - No hidden files (leading dot)
//   - Maximum length of 255 characters
func ValidateFilename(name string) error {
	if name == "" {
		return New(ErrCodeInvalidPath, "file name cannot be empty")
	}

	if len(name) > 255 {
		return New(ErrCodeInvalidPath, "file name too long (max 255 characters)")
	}

	for _, r := range name {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidPath, "file name contains invalid control characters")
		}
	}

	if strings.ContainsAny(name, "/\\") {
		return New(ErrCodeInvalidPath, "file name cannot contain path separators")
	}

	if strings.HasPrefix(name, ".") {
		return New(ErrCodeInvalidPath, "file name cannot be a hidden file")
	}

	return nil
}

// ValidateExtension checks that ext (with or without the leading dot,
// case-insensitive) is one of allowed.
func ValidateExtension(ext string, allowed []string) error {
	norm := NormalizeExtension(ext)
	if norm == "" {
		return New(ErrCodeInvalidFormat, "extension cannot be empty")
	}
	for _, a := range allowed {
		if NormalizeExtension(a) == norm {
			return nil
		}
	}
	return New(ErrCodeInvalidFormat, "unsupported extension %q (must be one of: %s)", ext, strings.Join(allowed, ", "))
}

// NormalizeExtension lower-cases ext and ensures a single leading dot.
func NormalizeExtension(ext string) string {
	ext = strings.ToLower(strings.TrimSpace(ext))
	ext = strings.TrimPrefix(ext, ".")
	if ext == "" {
		return ""
	}
	return "." + ext
}
