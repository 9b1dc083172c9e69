package document

import (
	"context"
	"net/url"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/eduvault/service/internal/entity"
)

// ListItem is the list-view projection of a metadata document.
type ListItem struct {
	ID          string  `json:"id"`
	TypeName    string  `json:"type_name,omitempty"`
	Name        string  `json:"name"`
	URL         string  `json:"url"`
	FileType    string  `json:"file_type"`
	SizeBytes   *int64  `json:"size_bytes"`
	LastUpdated *string `json:"last_updated"`

	// lastUpdatedAt backs the cross-kind sort; string timestamps would
	// invert sub-second order ('Z' sorts above '.').
	lastUpdatedAt time.Time
}

// DetailItem is the detail-view projection, including the full sanitized document.
type DetailItem struct {
	ID          string                 `json:"id"`
	TypeName    string                 `json:"type_name"`
	Name        string                 `json:"name"`
	URL         string                 `json:"url"`
	FileType    string                 `json:"file_type"`
	SizeBytes   *int64                 `json:"size_bytes"`
	LastUpdated *string                `json:"last_updated"`
	CreatedAt   *string                `json:"created_at"`
	Mongo       map[string]interface{} `json:"mongo"`
}

// FileExtFromURL returns the lower-cased extension of the URL's path, or
// "unknown" when the path has none.
func FileExtFromURL(raw string) string {
	if raw == "" {
		return "unknown"
	}
	p := raw
	if u, err := url.Parse(raw); err == nil {
		p = u.Path
	}
	i := strings.LastIndex(p, ".")
	if i < 0 || i == len(p)-1 {
		return "unknown"
	}
	return strings.ToLower(p[i+1:])
}

// ParsePublicURL splits a public object URL into bucket and object key.
// URL shape: http://host:port/<bucket>/<object key...>
func ParsePublicURL(raw string) (bucket, object string, ok bool) {
	if raw == "" {
		return "", "", false
	}
	u, err := url.Parse(raw)
	if err != nil {
		return "", "", false
	}
	p := strings.TrimPrefix(u.Path, "/")
	i := strings.Index(p, "/")
	if p == "" || i <= 0 || i == len(p)-1 {
		return "", "", false
	}
	return p[:i], p[i+1:], true
}

// BuildListItem maps a document to its list projection, or nil when the
// document carries no resolvable URL. Storage stat failures degrade to absent
// size/timestamp so the list stays available when the store is unreachable.
func (s *Service) BuildListItem(ctx context.Context, doc bson.M, typeName string) *ListItem {
	typeName = strings.ToLower(strings.TrimSpace(typeName))

	urlVal := stringField(doc, entity.URLKey(typeName))
	if urlVal == "" {
		urlVal = stringField(doc, "url")
	}
	if urlVal == "" {
		return nil
	}

	size, lastModified := s.statFromURL(ctx, urlVal)

	updatedAt, ok := dtToTime(doc["updated_at"])
	if !ok && lastModified != nil {
		updatedAt, ok = *lastModified, true
	}
	var lastUpdated *string
	if ok {
		iso := updatedAt.UTC().Format(time.RFC3339Nano)
		lastUpdated = &iso
	}

	name := stringField(doc, entity.NameKey(typeName))
	if name == "" {
		name = stringField(doc, "name")
	}

	return &ListItem{
		ID:          idString(doc["_id"]),
		Name:        name,
		URL:         urlVal,
		FileType:    FileExtFromURL(urlVal),
		SizeBytes:   size,
		LastUpdated: lastUpdated,

		lastUpdatedAt: updatedAt,
	}
}

// BuildDetailItem maps a document to its detail projection, including the
// full document with store-native values made JSON-safe.
func (s *Service) BuildDetailItem(ctx context.Context, doc bson.M, typeName string) *DetailItem {
	typeName = strings.ToLower(strings.TrimSpace(typeName))

	urlVal := stringField(doc, entity.URLKey(typeName))
	if urlVal == "" {
		urlVal = stringField(doc, "url")
	}

	var size *int64
	var lastModified *time.Time
	if urlVal != "" {
		size, lastModified = s.statFromURL(ctx, urlVal)
	}

	lastUpdated := dtToISO(doc["updated_at"])
	if lastUpdated == nil && lastModified != nil {
		lastUpdated = dtToISO(*lastModified)
	}

	name := stringField(doc, entity.NameKey(typeName))
	if name == "" {
		name = stringField(doc, "name")
	}

	sanitized, _ := sanitize(doc).(map[string]interface{})

	return &DetailItem{
		ID:          idString(doc["_id"]),
		TypeName:    typeName,
		Name:        name,
		URL:         urlVal,
		FileType:    FileExtFromURL(urlVal),
		SizeBytes:   size,
		LastUpdated: lastUpdated,
		CreatedAt:   dtToISO(doc["created_at"]),
		Mongo:       sanitized,
	}
}

// statFromURL fetches size and last-modified from the object store for the
// bucket/key parsed out of a public URL. Any failure degrades to nils.
func (s *Service) statFromURL(ctx context.Context, raw string) (*int64, *time.Time) {
	bucket, object, ok := ParsePublicURL(raw)
	if !ok {
		return nil, nil
	}
	info, err := s.store.Stat(ctx, bucket, object)
	if err != nil {
		return nil, nil
	}
	size := info.Size
	lastModified := info.LastModified
	return &size, &lastModified
}

// dtToTime normalizes a stored timestamp, accepting the forms the driver may
// hand back (time.Time, primitive.DateTime, ISO string).
func dtToTime(v interface{}) (time.Time, bool) {
	switch t := v.(type) {
	case time.Time:
		return t.UTC(), true
	case primitive.DateTime:
		return t.Time().UTC(), true
	case string:
		parsed, err := time.Parse(time.RFC3339, t)
		if err != nil {
			return time.Time{}, false
		}
		return parsed.UTC(), true
	default:
		return time.Time{}, false
	}
}

// dtToISO serializes a stored timestamp to ISO-8601.
func dtToISO(v interface{}) *string {
	ts, ok := dtToTime(v)
	if !ok {
		return nil
	}
	s := ts.Format(time.RFC3339Nano)
	return &s
}

// sanitize converts store-native values (ObjectId, timestamps) to JSON-safe
// forms, recursing through nested mappings and sequences.
func sanitize(v interface{}) interface{} {
	switch t := v.(type) {
	case primitive.ObjectID:
		return t.Hex()
	case primitive.DateTime:
		return t.Time().UTC().Format(time.RFC3339Nano)
	case time.Time:
		return t.UTC().Format(time.RFC3339Nano)
	case bson.M:
		out := make(map[string]interface{}, len(t))
		for k, val := range t {
			out[k] = sanitize(val)
		}
		return out
	case map[string]interface{}:
		out := make(map[string]interface{}, len(t))
		for k, val := range t {
			out[k] = sanitize(val)
		}
		return out
	case bson.A:
		out := make([]interface{}, 0, len(t))
		for _, val := range t {
			out = append(out, sanitize(val))
		}
		return out
	case []interface{}:
		out := make([]interface{}, 0, len(t))
		for _, val := range t {
			out = append(out, sanitize(val))
		}
		return out
	default:
		return v
	}
}

func stringField(doc bson.M, key string) string {
	s, _ := doc[key].(string)
	return s
}

// idString coerces a document _id (ObjectId or already a string) to a string.
func idString(v interface{}) string {
	switch t := v.(type) {
	case primitive.ObjectID:
		return t.Hex()
	case string:
		return t
	default:
		return ""
	}
}
