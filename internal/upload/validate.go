// Package upload implements the admin file-upload pipeline: validation,
// object-store write, metadata upsert, and response shaping.
package upload

import (
	"errors"
	"fmt"
	"path"
	"strings"
)

// ErrExtensionNotAllowed is returned for filenames outside the allow-list.
var ErrExtensionNotAllowed = errors.New("file extension not allowed")

// ErrFileTooLarge is returned when the file exceeds the size ceiling.
var ErrFileTooLarge = errors.New("file too large")

// ValidateExtension checks the filename's extension (lower-cased, without the
// dot) against the allow-list. Filenames without an extension always fail.
func ValidateExtension(filename string, allowed []string) error {
	ext := strings.ToLower(strings.TrimPrefix(path.Ext(filename), "."))
	if ext != "" {
		for _, a := range allowed {
			if ext == a {
				return nil
			}
		}
	}
	return fmt.Errorf("%w. Allowed: %s", ErrExtensionNotAllowed, strings.Join(allowed, ", "))
}

// ValidateSize checks the declared byte size against the ceiling. The
// boundary is inclusive: exactly maxBytes passes.
func ValidateSize(sizeBytes, maxBytes int64) error {
	if sizeBytes > maxBytes {
		return fmt.Errorf("%w. Max: %d bytes", ErrFileTooLarge, maxBytes)
	}
	return nil
}
