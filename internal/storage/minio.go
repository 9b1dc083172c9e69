package storage

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"go.uber.org/zap"
)

// MinioStorage implements Storage using a MinIO (or any S3-compatible) backend.
type MinioStorage struct {
	client     *minio.Client
	publicBase string
	partSize   uint64
	log        *zap.Logger
}

// NewMinioStorage creates a MinIO client and returns a ready-to-use MinioStorage.
// Buckets are created lazily per class via EnsureBucket, not at startup.
func NewMinioStorage(endpoint, accessKey, secretKey, publicBase string, useSSL bool, partSize int64, log *zap.Logger) (*MinioStorage, error) {
	client, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(accessKey, secretKey, ""),
		Secure: useSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("create minio client: %w", err)
	}

	return &MinioStorage{
		client:     client,
		publicBase: strings.TrimRight(publicBase, "/"),
		partSize:   uint64(partSize),
		log:        log,
	}, nil
}

// EnsureBucket creates the bucket if absent. Safe to call on every upload.
func (s *MinioStorage) EnsureBucket(ctx context.Context, bucket string) error {
	exists, err := s.client.BucketExists(ctx, bucket)
	if err != nil {
		return fmt.Errorf("%w: bucket %q: %s", ErrUnavailable, bucket, s3Detail(err))
	}
	if exists {
		return nil
	}
	if err := s.client.MakeBucket(ctx, bucket, minio.MakeBucketOptions{}); err != nil {
		return fmt.Errorf("%w: create bucket %q: %s", ErrUnavailable, bucket, s3Detail(err))
	}
	s.log.Info("storage: created bucket", zap.String("bucket", bucket))
	return nil
}

// Upload streams reader to bucket/object. With size -1 the transfer runs as a
// multipart upload using the configured part size. An existing object at the
// same key is overwritten; last writer wins.
func (s *MinioStorage) Upload(ctx context.Context, bucket, object string, reader io.Reader, size int64, contentType string) error {
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	opts := minio.PutObjectOptions{ContentType: contentType}
	if size < 0 {
		opts.PartSize = s.partSize
	}
	_, err := s.client.PutObject(ctx, bucket, object, reader, size, opts)
	if err != nil {
		if resp := minio.ToErrorResponse(err); resp.Code != "" {
			return fmt.Errorf("%w: put object %q: %s", ErrWriteFailed, object, s3Detail(err))
		}
		return fmt.Errorf("%w: put object %q: %v", ErrUnavailable, object, err)
	}
	return nil
}

// Stat fetches size and last-modified metadata for bucket/object.
func (s *MinioStorage) Stat(ctx context.Context, bucket, object string) (ObjectInfo, error) {
	stat, err := s.client.StatObject(ctx, bucket, object, minio.StatObjectOptions{})
	if err != nil {
		return ObjectInfo{}, fmt.Errorf("stat object %q: %s", object, s3Detail(err))
	}
	return ObjectInfo{
		Key:          stat.Key,
		Size:         stat.Size,
		ETag:         stat.ETag,
		LastModified: stat.LastModified,
	}, nil
}

// List returns up to limit objects under prefix.
func (s *MinioStorage) List(ctx context.Context, bucket, prefix string, recursive bool, limit int) ([]ObjectInfo, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	var out []ObjectInfo
	for obj := range s.client.ListObjects(ctx, bucket, minio.ListObjectsOptions{
		Prefix:    prefix,
		Recursive: recursive,
	}) {
		if obj.Err != nil {
			return nil, fmt.Errorf("%w: list %q: %s", ErrUnavailable, prefix, s3Detail(obj.Err))
		}
		out = append(out, ObjectInfo{
			Key:          obj.Key,
			Size:         obj.Size,
			ETag:         obj.ETag,
			LastModified: obj.LastModified,
		})
		if len(out) >= limit {
			break
		}
	}
	return out, nil
}

// PublicURL returns the browser-accessible URL for bucket/object, or "" when
// no public base URL is configured (private deployments).
func (s *MinioStorage) PublicURL(bucket, object string) string {
	if s.publicBase == "" {
		return ""
	}
	return s.publicBase + "/" + bucket + "/" + object
}

// s3Detail folds a MinIO error into "CODE - message" form when the store
// reported a structured S3 error.
func s3Detail(err error) string {
	resp := minio.ToErrorResponse(err)
	if resp.Code != "" {
		return fmt.Sprintf("%s - %s", resp.Code, resp.Message)
	}
	return err.Error()
}
