package upload

import (
	"errors"
	"io"
	"net/http"
	"path"
	"strconv"
	"strings"
	"time"

	"github.com/eduvault/service/internal/config"
	"github.com/eduvault/service/internal/document"
	"github.com/eduvault/service/internal/entity"
	"github.com/eduvault/service/internal/middleware"
	"github.com/eduvault/service/internal/response"
	"github.com/eduvault/service/internal/storage"
)

// maxFormMemory bounds the in-memory part of multipart parsing; larger files
// spill to temp files and stay seekable.
const maxFormMemory = 32 << 20

// allowedClasses enumerates the classes that accept direct uploads.
var allowedClasses = map[string]bool{"10": true, "11": true, "12": true}

// allowedUploadKinds restricts direct upload to the four kinds managed by the
// admin UI; keywords are derived content and never uploaded directly.
var allowedUploadKinds = map[string]bool{
	entity.Subject: true,
	entity.Topic:   true,
	entity.Lesson:  true,
	entity.Chunk:   true,
}

// Result describes a completed object-store write.
type Result struct {
	Bucket           string `json:"bucket"`
	TypeName         string `json:"type_name"`
	Prefix           string `json:"prefix"`
	ObjectName       string `json:"object_name"`
	OriginalFilename string `json:"original_filename"`
	ContentType      string `json:"content_type"`
	SizeBytes        int64  `json:"size_bytes"`
	PublicURL        string `json:"public_url"`
	Status           string `json:"status"`
}

type uploadResponse struct {
	Minio Result        `json:"minio"`
	Mongo mongoResponse `json:"mongo"`
}

type mongoResponse struct {
	Collection string                 `json:"collection"`
	Document   map[string]interface{} `json:"document"`
}

// Handler holds HTTP handlers for the admin storage endpoints.
type Handler struct {
	store storage.Storage
	docs  *document.Service
	cfg   *config.Config
}

// NewHandler creates a new upload Handler.
func NewHandler(store storage.Storage, docs *document.Service, cfg *config.Config) *Handler {
	return &Handler{store: store, docs: docs, cfg: cfg}
}

// UploadFile godoc
//
//	@Summary		Upload a file
//	@Description	Stores the file in the class bucket under the kind's nesting prefix and upserts its metadata document. Re-uploading the same filename overwrites the object and updates the document in place.
//	@Tags			minio
//	@Accept			multipart/form-data
//	@Produce		json
//	@Security		BearerAuth
//	@Param			class		formData	string	true	"class id (10/11/12)"
//	@Param			type		formData	string	true	"subject|topic|lesson|chunk"
//	@Param			metadata	formData	string	false	"JSON object with free-form metadata"
//	@Param			file		formData	file	true	"file to upload"
//	@Success		200			{object}	uploadResponse
//	@Failure		400			{object}	response.ErrorBody
//	@Failure		401			{object}	response.ErrorBody
//	@Failure		403			{object}	response.ErrorBody
//	@Failure		500			{object}	response.ErrorBody
//	@Router			/admin/minio/file [post]
func (h *Handler) UploadFile(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxFormMemory); err != nil {
		response.BadRequest(w, "invalid multipart form")
		return
	}

	// New field names with fallback to the legacy ones.
	class := strings.TrimSpace(firstValue(r, "class", "class_id"))
	typeName := strings.ToLower(strings.TrimSpace(firstValue(r, "type", "type_name")))
	rawMetadata := firstValue(r, "metadata", "metadata_json")

	if !allowedClasses[class] {
		response.BadRequest(w, "class must be one of: 10, 11, 12")
		return
	}
	if !allowedUploadKinds[typeName] {
		response.BadRequest(w, "type must be one of: subject, topic, lesson, chunk")
		return
	}

	metadata, err := document.ParseMetadata(rawMetadata)
	if err != nil {
		response.BadRequest(w, err.Error())
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		response.BadRequest(w, "file is missing or invalid")
		return
	}
	defer file.Close()

	filename := header.Filename
	if filename == "" {
		response.BadRequest(w, "file is missing or invalid")
		return
	}

	if err := ValidateExtension(filename, h.cfg.AllowedExts); err != nil {
		response.BadRequest(w, err.Error())
		return
	}

	// Measure the stream, then rewind for the transfer.
	size, err := file.Seek(0, io.SeekEnd)
	if err != nil {
		response.BadRequest(w, "file is missing or invalid")
		return
	}
	if _, err := file.Seek(0, io.SeekStart); err != nil {
		response.BadRequest(w, "file is missing or invalid")
		return
	}
	if size <= 0 {
		response.BadRequest(w, "file is missing or invalid")
		return
	}
	if err := ValidateSize(size, h.cfg.MaxFileSizeBytes()); err != nil {
		response.BadRequest(w, err.Error())
		return
	}

	bucket, err := storage.BucketFromClassID(h.cfg.BucketPrefix, class)
	if err != nil {
		response.BadRequest(w, err.Error())
		return
	}
	objectName, err := storage.ObjectName(typeName, filename)
	if err != nil {
		response.BadRequest(w, err.Error())
		return
	}

	ctx := r.Context()
	if err := h.store.EnsureBucket(ctx, bucket); err != nil {
		response.InternalError(w, err.Error())
		return
	}

	contentType := header.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	// Length -1: stream as a multipart transfer with the configured part size.
	if err := h.store.Upload(ctx, bucket, objectName, file, -1, contentType); err != nil {
		response.InternalError(w, err.Error())
		return
	}

	result := Result{
		Bucket:           bucket,
		TypeName:         typeName,
		Prefix:           entity.Prefix(typeName),
		ObjectName:       objectName,
		OriginalFilename: filename,
		ContentType:      contentType,
		SizeBytes:        size,
		PublicURL:        h.store.PublicURL(bucket, objectName),
		Status:           "ok",
	}

	upserted, err := h.docs.Upsert(ctx, class, typeName, metadata, document.StorageInfo{
		OriginalFilename: filename,
		PublicURL:        result.PublicURL,
	}, actorFrom(r))
	if errors.Is(err, document.ErrInvalidType) {
		response.BadRequest(w, err.Error())
		return
	}
	if err != nil {
		// The object is already stored; the failed upsert is surfaced as-is
		// and the orphaned object left in place.
		response.InternalError(w, err.Error())
		return
	}

	response.JSON(w, http.StatusOK, uploadResponse{
		Minio: result,
		Mongo: mongoResponse{
			Collection: upserted.Collection,
			Document:   slimDoc(upserted.Document, typeName),
		},
	})
}

type fileItem struct {
	ObjectName   string `json:"object_name"`
	Filename     string `json:"filename"`
	SizeBytes    int64  `json:"size_bytes"`
	ETag         string `json:"etag"`
	LastModified string `json:"last_modified,omitempty"`
	PublicURL    string `json:"public_url"`
}

type listFilesResponse struct {
	Bucket   string     `json:"bucket"`
	TypeName string     `json:"type_name"`
	Prefix   string     `json:"prefix"`
	Count    int        `json:"count"`
	Items    []fileItem `json:"items"`
}

// ListFiles godoc
//
//	@Summary		List stored objects
//	@Description	Lists objects in the class bucket under the kind's nesting prefix.
//	@Tags			minio
//	@Produce		json
//	@Security		BearerAuth
//	@Param			class_id	query		string	true	"class id (10/11/12)"
//	@Param			type_name	query		string	true	"subject|topic|lesson|chunk|keyword"
//	@Param			recursive	query		bool	false	"default true"
//	@Param			limit		query		int		false	"1-5000, default 500"
//	@Success		200			{object}	listFilesResponse
//	@Failure		400			{object}	response.ErrorBody
//	@Failure		401			{object}	response.ErrorBody
//	@Failure		403			{object}	response.ErrorBody
//	@Failure		500			{object}	response.ErrorBody
//	@Router			/admin/minio/files [get]
func (h *Handler) ListFiles(w http.ResponseWriter, r *http.Request) {
	classID := r.URL.Query().Get("class_id")
	typeName := strings.ToLower(strings.TrimSpace(r.URL.Query().Get("type_name")))

	bucket, err := storage.BucketFromClassID(h.cfg.BucketPrefix, classID)
	if err != nil {
		response.BadRequest(w, err.Error())
		return
	}
	if !entity.Valid(typeName) {
		response.BadRequest(w, "type_name must be one of: subject, topic, lesson, chunk, keyword")
		return
	}

	recursive := r.URL.Query().Get("recursive") != "false"
	limit := parseLimit(r.URL.Query().Get("limit"))
	prefix := entity.Prefix(typeName)

	objects, err := h.store.List(r.Context(), bucket, prefix, recursive, limit)
	if err != nil {
		response.InternalError(w, err.Error())
		return
	}

	items := make([]fileItem, 0, len(objects))
	for _, obj := range objects {
		item := fileItem{
			ObjectName: obj.Key,
			Filename:   path.Base(obj.Key),
			SizeBytes:  obj.Size,
			ETag:       obj.ETag,
			PublicURL:  h.store.PublicURL(bucket, obj.Key),
		}
		if !obj.LastModified.IsZero() {
			item.LastModified = obj.LastModified.UTC().Format(time.RFC3339Nano)
		}
		items = append(items, item)
	}

	response.JSON(w, http.StatusOK, listFilesResponse{
		Bucket:   bucket,
		TypeName: typeName,
		Prefix:   prefix,
		Count:    len(items),
		Items:    items,
	})
}

// slimDoc projects a stored document down to identity, name, url, and
// timestamp fields for the write-confirmation response. The full document in
// the store is untouched.
func slimDoc(doc map[string]interface{}, typeName string) map[string]interface{} {
	out := map[string]interface{}{}
	if doc == nil {
		return out
	}

	if id, ok := doc["_id"]; ok {
		out["_id"] = id
	}

	idKey := entity.IDKey(typeName)
	nameKey := entity.NameKey(typeName)
	urlKey := entity.URLKey(typeName)

	if v, ok := doc[idKey]; ok && v != nil {
		out[idKey] = v
	}
	if v, ok := doc[nameKey]; ok && v != nil {
		out[nameKey] = v
	}

	if v, ok := doc[urlKey]; ok && !isEmptyString(v) {
		out[urlKey] = v
	} else if v, ok := doc["url"]; ok && !isEmptyString(v) {
		out[urlKey] = v
	}

	if v, ok := doc["created_at"]; ok {
		out["created_at"] = v
	}
	if v, ok := doc["updated_at"]; ok {
		out["updated_at"] = v
	}

	return out
}

func isEmptyString(v interface{}) bool {
	if v == nil {
		return true
	}
	s, ok := v.(string)
	return ok && s == ""
}

// firstValue returns the first non-empty form value among the given keys.
func firstValue(r *http.Request, keys ...string) string {
	for _, k := range keys {
		if v := r.FormValue(k); v != "" {
			return v
		}
	}
	return ""
}

// actorFrom resolves the acting identity from the authenticated claims.
func actorFrom(r *http.Request) string {
	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		return "admin"
	}
	sub, _ := claims["sub"].(string)
	if sub == "" {
		return "admin"
	}
	return sub
}

// parseLimit clamps the limit query parameter to 1..5000, defaulting to 500.
func parseLimit(raw string) int {
	if raw == "" {
		return 500
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 1 {
		return 500
	}
	if n > 5000 {
		return 5000
	}
	return n
}
