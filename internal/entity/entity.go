// Package entity defines the closed set of content entity kinds and the
// storage/collection layout derived from their nesting.
package entity

// Entity kinds, ordered by nesting depth.
const (
	Subject = "subject"
	Topic   = "topic"
	Lesson  = "lesson"
	Chunk   = "chunk"
	Keyword = "keyword"
)

// kinds preserves the nesting order for callers that probe all collections.
var kinds = []string{Subject, Topic, Lesson, Chunk, Keyword}

// prefixes maps each kind to its fixed object-key prefix inside a class bucket.
var prefixes = map[string]string{
	Subject: "subjects/",
	Topic:   "subjects/topics/",
	Lesson:  "subjects/topics/lessons/",
	Chunk:   "subjects/topics/lessons/chunks/",
	Keyword: "subjects/topics/lessons/chunks/keywords/",
}

// collections maps each kind to its MongoDB collection name.
var collections = map[string]string{
	Subject: "subjects",
	Topic:   "topics",
	Lesson:  "lessons",
	Chunk:   "chunks",
	Keyword: "keywords",
}

// Kinds returns all entity kinds in nesting order.
func Kinds() []string {
	out := make([]string, len(kinds))
	copy(out, kinds)
	return out
}

// Valid reports whether name is a known entity kind.
func Valid(name string) bool {
	_, ok := prefixes[name]
	return ok
}

// Prefix returns the object-key prefix for the kind, or "" if unknown.
func Prefix(kind string) string {
	return prefixes[kind]
}

// Collection returns the document collection name for the kind, or "" if unknown.
func Collection(kind string) string {
	return collections[kind]
}

// NameKey returns the per-kind display name field, e.g. "lesson_name".
func NameKey(kind string) string {
	return kind + "_name"
}

// URLKey returns the per-kind storage URL field, e.g. "lesson_url".
func URLKey(kind string) string {
	return kind + "_url"
}

// IDKey returns the per-kind identifier field, e.g. "lesson_id".
func IDKey(kind string) string {
	return kind + "_id"
}
