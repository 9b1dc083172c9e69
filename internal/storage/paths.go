package storage

import (
	"fmt"
	"strings"

	"github.com/eduvault/service/internal/entity"
)

// BucketFromClassID derives the bucket name for a class: prefix + trimmed id.
// Any non-empty class id is accepted; the enumeration of real classes is a
// route-level concern.
func BucketFromClassID(prefix, classID string) (string, error) {
	classID = strings.TrimSpace(classID)
	if classID == "" {
		return "", fmt.Errorf("%w: class_id is required", ErrInvalidInput)
	}
	return prefix + classID, nil
}

// ObjectName derives the object key for an entity kind and filename: the
// kind's fixed nesting prefix plus the raw filename. The filename must not
// contain path separators; no other sanitization is applied.
func ObjectName(typeName, filename string) (string, error) {
	if !entity.Valid(typeName) {
		return "", fmt.Errorf("%w: invalid type_name: %s", ErrInvalidInput, typeName)
	}
	if filename == "" || strings.ContainsAny(filename, `/\`) {
		return "", fmt.Errorf("%w: invalid filename (must not contain / or \\)", ErrInvalidInput)
	}
	return entity.Prefix(typeName) + filename, nil
}
