package upload

import (
	"bytes"
	"context"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eduvault/service/internal/config"
	"github.com/eduvault/service/internal/storage"
)

// fakeStore records calls so tests can assert which pipeline steps ran.
type fakeStore struct {
	ensureCalls int
	uploadCalls int
	listObjects []storage.ObjectInfo
	publicBase  string
}

func (f *fakeStore) EnsureBucket(ctx context.Context, bucket string) error {
	f.ensureCalls++
	return nil
}

func (f *fakeStore) Upload(ctx context.Context, bucket, object string, reader io.Reader, size int64, contentType string) error {
	f.uploadCalls++
	return nil
}

func (f *fakeStore) Stat(ctx context.Context, bucket, object string) (storage.ObjectInfo, error) {
	return storage.ObjectInfo{}, nil
}

func (f *fakeStore) List(ctx context.Context, bucket, prefix string, recursive bool, limit int) ([]storage.ObjectInfo, error) {
	return f.listObjects, nil
}

func (f *fakeStore) PublicURL(bucket, object string) string {
	if f.publicBase == "" {
		return ""
	}
	return f.publicBase + "/" + bucket + "/" + object
}

func testConfig() *config.Config {
	return &config.Config{
		BucketPrefix:  "class-",
		MaxFileSizeMB: 50,
		AllowedExts:   []string{"pdf", "txt", "png", "jpg", "jpeg", "docx"},
		PartSizeMB:    10,
	}
}

func multipartBody(t *testing.T, fields map[string]string, filename string, content []byte) (*bytes.Buffer, string) {
	t.Helper()
	body := &bytes.Buffer{}
	mw := multipart.NewWriter(body)
	for k, v := range fields {
		require.NoError(t, mw.WriteField(k, v))
	}
	fw, err := mw.CreateFormFile("file", filename)
	require.NoError(t, err)
	_, err = fw.Write(content)
	require.NoError(t, err)
	require.NoError(t, mw.Close())
	return body, mw.FormDataContentType()
}

func TestUploadFileRejectsExtensionBeforeStorage(t *testing.T) {
	store := &fakeStore{}
	h := NewHandler(store, nil, testConfig())

	body, contentType := multipartBody(t, map[string]string{
		"class": "10",
		"type":  "lesson",
	}, "malware.exe", []byte("binary"))

	req := httptest.NewRequest(http.MethodPost, "/admin/minio/file", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	h.UploadFile(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	// No store I/O happens for invalid input.
	assert.Zero(t, store.ensureCalls)
	assert.Zero(t, store.uploadCalls)
}

func TestUploadFileRejectsUnknownClassAndType(t *testing.T) {
	h := NewHandler(&fakeStore{}, nil, testConfig())

	body, contentType := multipartBody(t, map[string]string{"class": "13", "type": "lesson"}, "a.pdf", []byte("x"))
	req := httptest.NewRequest(http.MethodPost, "/admin/minio/file", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	h.UploadFile(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	// keyword is a valid entity kind but excluded from direct upload.
	body, contentType = multipartBody(t, map[string]string{"class": "10", "type": "keyword"}, "a.pdf", []byte("x"))
	req = httptest.NewRequest(http.MethodPost, "/admin/minio/file", body)
	req.Header.Set("Content-Type", contentType)
	rec = httptest.NewRecorder()
	h.UploadFile(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestUploadFileRejectsBadMetadata(t *testing.T) {
	store := &fakeStore{}
	h := NewHandler(store, nil, testConfig())

	body, contentType := multipartBody(t, map[string]string{
		"class":    "10",
		"type":     "lesson",
		"metadata": `["not", "an", "object"]`,
	}, "a.pdf", []byte("x"))

	req := httptest.NewRequest(http.MethodPost, "/admin/minio/file", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	h.UploadFile(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Zero(t, store.uploadCalls)
}

func TestListFiles(t *testing.T) {
	modified := time.Date(2026, 2, 10, 8, 0, 0, 0, time.UTC)
	store := &fakeStore{
		publicBase: "http://127.0.0.1:9000",
		listObjects: []storage.ObjectInfo{
			{Key: "subjects/topics/lessons/intro.pdf", Size: 1024, ETag: "abc", LastModified: modified},
		},
	}
	h := NewHandler(store, nil, testConfig())

	req := httptest.NewRequest(http.MethodGet, "/admin/minio/files?class_id=10&type_name=lesson", nil)
	rec := httptest.NewRecorder()
	h.ListFiles(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, `"bucket":"class-10"`)
	assert.Contains(t, body, `"prefix":"subjects/topics/lessons/"`)
	assert.Contains(t, body, `"count":1`)
	assert.Contains(t, body, `"filename":"intro.pdf"`)
	assert.Contains(t, body, `"public_url":"http://127.0.0.1:9000/class-10/subjects/topics/lessons/intro.pdf"`)
}

func TestListFilesRejectsInvalidType(t *testing.T) {
	h := NewHandler(&fakeStore{}, nil, testConfig())

	req := httptest.NewRequest(http.MethodGet, "/admin/minio/files?class_id=10&type_name=module", nil)
	rec := httptest.NewRecorder()
	h.ListFiles(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	req = httptest.NewRequest(http.MethodGet, "/admin/minio/files?type_name=lesson", nil)
	rec = httptest.NewRecorder()
	h.ListFiles(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestSlimDoc(t *testing.T) {
	doc := map[string]interface{}{
		"_id":         "65f1c0ffee",
		"lesson_id":   "L1",
		"lesson_name": "Intro",
		"lesson_url":  "http://host/class-10/subjects/topics/lessons/intro.pdf",
		"class_id":    "10",
		"type_name":   "lesson",
		"status":      "active",
		"custom":      "kept in store, dropped here",
		"created_at":  "2026-01-01T00:00:00Z",
		"updated_at":  "2026-01-02T00:00:00Z",
	}

	slim := slimDoc(doc, "lesson")
	assert.Equal(t, map[string]interface{}{
		"_id":         "65f1c0ffee",
		"lesson_id":   "L1",
		"lesson_name": "Intro",
		"lesson_url":  "http://host/class-10/subjects/topics/lessons/intro.pdf",
		"created_at":  "2026-01-01T00:00:00Z",
		"updated_at":  "2026-01-02T00:00:00Z",
	}, slim)
}

func TestSlimDocURLFallback(t *testing.T) {
	slim := slimDoc(map[string]interface{}{"url": "http://host/b/o.pdf"}, "subject")
	assert.Equal(t, "http://host/b/o.pdf", slim["subject_url"])
}

func TestSlimDocNil(t *testing.T) {
	assert.Empty(t, slimDoc(nil, "lesson"))
}

func TestParseLimit(t *testing.T) {
	assert.Equal(t, 500, parseLimit(""))
	assert.Equal(t, 500, parseLimit("abc"))
	assert.Equal(t, 500, parseLimit("0"))
	assert.Equal(t, 42, parseLimit("42"))
	assert.Equal(t, 5000, parseLimit("99999"))
}
