// Package document manages descriptive metadata documents in MongoDB and
// their list/detail projections.
package document

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"path"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/eduvault/service/internal/entity"
	"github.com/eduvault/service/internal/storage"
)

// ErrInvalidType is returned for an unknown entity kind.
var ErrInvalidType = errors.New("invalid type_name")

// ErrInvalidID is returned for a malformed document id.
var ErrInvalidID = errors.New("invalid document id")

// ErrNotFound is returned when no document matches.
var ErrNotFound = errors.New("document not found")

// ErrStoreFailed is returned when the document store reports an error.
var ErrStoreFailed = errors.New("metadata store error")

// StorageInfo carries the object-store facts the upsert folds into a document.
type StorageInfo struct {
	OriginalFilename string
	PublicURL        string
}

// UpsertResult holds the post-write document and its collection.
type UpsertResult struct {
	Collection string
	Document   map[string]interface{}
}

// Service contains the metadata write and read paths.
type Service struct {
	db    *mongo.Database
	store storage.Storage
}

// NewService creates a document Service backed by the given database and
// object store (the store is only consulted for read-path stats).
func NewService(db *mongo.Database, store storage.Storage) *Service {
	return &Service{db: db, store: store}
}

// ParseMetadata decodes a caller-supplied metadata form field. Empty input
// yields an empty map; anything that is not a JSON object is rejected.
func ParseMetadata(raw string) (map[string]interface{}, error) {
	if strings.TrimSpace(raw) == "" {
		return map[string]interface{}{}, nil
	}
	var obj map[string]interface{}
	if err := json.Unmarshal([]byte(raw), &obj); err != nil {
		return nil, fmt.Errorf("invalid metadata: %v", err)
	}
	if obj == nil {
		return nil, errors.New("invalid metadata: must be a JSON object")
	}
	return obj, nil
}

// Upsert inserts or updates the metadata document identified by
// (class_id, type_name, <type>_url). The merge sets updated_at/updated_by and
// status=active on every write; created_at/created_by only on first insert.
// Returns the document as it exists after the write.
func (s *Service) Upsert(ctx context.Context, classID, typeName string, metadata map[string]interface{}, info StorageInfo, actor string) (*UpsertResult, error) {
	typeName = strings.ToLower(strings.TrimSpace(typeName))
	if !entity.Valid(typeName) {
		return nil, fmt.Errorf("%w: %s", ErrInvalidType, typeName)
	}

	now := time.Now().UTC()
	docSet := normalizeMetadata(typeName, metadata, info)
	docSet["class_id"] = classID
	docSet["type_name"] = typeName
	docSet["updated_at"] = now
	docSet["status"] = "active"
	docSet["updated_by"] = actor

	filter := bson.M{
		"class_id":              classID,
		"type_name":             typeName,
		entity.URLKey(typeName): info.PublicURL,
	}

	coll := s.db.Collection(entity.Collection(typeName))
	opts := options.FindOneAndUpdate().
		SetUpsert(true).
		SetReturnDocument(options.After)

	var after bson.M
	err := coll.FindOneAndUpdate(ctx, filter, bson.M{
		"$set":         docSet,
		"$setOnInsert": bson.M{"created_at": now, "created_by": actor},
	}, opts).Decode(&after)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStoreFailed, err)
	}

	if id, ok := after["_id"].(primitive.ObjectID); ok {
		after["_id"] = id.Hex()
	}

	return &UpsertResult{Collection: entity.Collection(typeName), Document: after}, nil
}

// normalizeMetadata applies the reserved-field rules to caller metadata
// without mutating the input map:
//   - topic documents never keep a client-supplied topic_id
//   - <type>_name defaults to the uploaded filename's stem
//   - <type>_url is always the storage public URL
//   - the legacy "file" field is dropped
func normalizeMetadata(typeName string, metadata map[string]interface{}, info StorageInfo) map[string]interface{} {
	out := make(map[string]interface{}, len(metadata)+2)
	for k, v := range metadata {
		out[k] = v
	}

	if typeName == entity.Topic {
		delete(out, "topic_id")
	}

	nameKey := entity.NameKey(typeName)
	if emptyValue(out[nameKey]) {
		if stem := filenameStem(info.OriginalFilename); stem != "" {
			out[nameKey] = stem
		}
	}

	out[entity.URLKey(typeName)] = info.PublicURL
	delete(out, "file")

	return out
}

func emptyValue(v interface{}) bool {
	if v == nil {
		return true
	}
	s, ok := v.(string)
	return ok && strings.TrimSpace(s) == ""
}

// filenameStem returns the filename without its extension.
func filenameStem(filename string) string {
	name := strings.TrimSpace(filename)
	return strings.TrimSuffix(name, path.Ext(name))
}
