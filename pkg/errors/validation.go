package errors

import (
	"strings"
	"unicode"
)

// ValidatePath validates a file path supplied on the command line or in a
// settings file.
//
// Validation rules:
//   - Path cannot be empty
//   - Maximum length of 500 characters
//   - No null bytes or control characters
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
	return nil
}

// ValidateURL validates a URL string for capture.
// It ensures the URL has a safe scheme (http, https or file).
func ValidateURL(rawURL string) error {
	if rawURL == "" {
		return New(ErrCodeInvalidInput, "URL cannot be empty")
	}

	for _, scheme := range []string{"http://", "https://", "file://"} {
		if strings.HasPrefix(rawURL, scheme) {
			return nil
		}
	}
	return New(ErrCodeInvalidInput, "URL must use http, https or file scheme")
}

// ValidateIdentifier validates a resource or view id prefix. Android ids
// must start with a letter and contain only letters, digits and
// underscores.
func ValidateIdentifier(id string) error {
	if id == "" {
		return nil
	}
	for i, r := range id {
		switch {
		case r == '_', unicode.IsLetter(r) && r < unicode.MaxASCII:
		case unicode.IsDigit(r) && i > 0:
		default:
			return New(ErrCodeInvalidSettings, "invalid identifier %q", id)
		}
	}
	return nil
}
