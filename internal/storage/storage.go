// Package storage defines the interface for object storage operations.
// Swap implementations by changing the concrete type injected at startup —
// the MinIO implementation works with any S3-compatible provider.
package storage

import (
	"context"
	"errors"
	"io"
	"time"
)

// ErrInvalidInput is returned for malformed class ids, type names, or filenames.
var ErrInvalidInput = errors.New("invalid input")

// ErrUnavailable is returned when the store cannot be reached or refuses the request.
var ErrUnavailable = errors.New("object storage unavailable")

// ErrWriteFailed is returned when the store reports a write error.
var ErrWriteFailed = errors.New("object storage write failed")

// ObjectInfo describes a stored object.
type ObjectInfo struct {
	Key          string
	Size         int64
	ETag         string
	LastModified time.Time
}

// Storage is the interface for bucket and object operations.
type Storage interface {
	// EnsureBucket creates the bucket if it does not already exist.
	EnsureBucket(ctx context.Context, bucket string) error
	// Upload streams data to the store under bucket/object. Pass size -1 when
	// the length is unknown; the transfer then uses the configured part size.
	Upload(ctx context.Context, bucket, object string, reader io.Reader, size int64, contentType string) error
	// Stat returns size and modification metadata for bucket/object.
	Stat(ctx context.Context, bucket, object string) (ObjectInfo, error)
	// List returns up to limit objects under prefix.
	List(ctx context.Context, bucket, prefix string, recursive bool, limit int) ([]ObjectInfo, error)
	// PublicURL constructs the browser-accessible URL for bucket/object.
	// Returns "" when no public base URL is configured.
	PublicURL(bucket, object string) string
}
