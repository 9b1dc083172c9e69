package document

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseMetadata(t *testing.T) {
	meta, err := ParseMetadata("")
	require.NoError(t, err)
	assert.Empty(t, meta)

	meta, err = ParseMetadata(`{"lesson_name": "Intro", "tags": ["a", "b"]}`)
	require.NoError(t, err)
	assert.Equal(t, "Intro", meta["lesson_name"])

	_, err = ParseMetadata(`[1, 2]`)
	assert.Error(t, err)

	_, err = ParseMetadata(`null`)
	assert.Error(t, err)

	_, err = ParseMetadata(`{broken`)
	assert.Error(t, err)
}

func TestNormalizeMetadataDefaultsName(t *testing.T) {
	info := StorageInfo{OriginalFilename: "lesson.pdf", PublicURL: "http://127.0.0.1:9000/class-10/subjects/topics/lessons/lesson.pdf"}

	out := normalizeMetadata("lesson", map[string]interface{}{}, info)
	assert.Equal(t, "lesson", out["lesson_name"])
	assert.Equal(t, info.PublicURL, out["lesson_url"])

	// A caller-supplied name wins.
	out = normalizeMetadata("lesson", map[string]interface{}{"lesson_name": "Intro"}, info)
	assert.Equal(t, "Intro", out["lesson_name"])

	// An empty caller-supplied name is replaced.
	out = normalizeMetadata("lesson", map[string]interface{}{"lesson_name": "  "}, info)
	assert.Equal(t, "lesson", out["lesson_name"])
}

func TestNormalizeMetadataStripsTopicID(t *testing.T) {
	info := StorageInfo{OriginalFilename: "t.pdf", PublicURL: "http://127.0.0.1:9000/class-10/subjects/topics/t.pdf"}

	out := normalizeMetadata("topic", map[string]interface{}{"topic_id": "evil", "extra": 1}, info)
	assert.NotContains(t, out, "topic_id")
	assert.Equal(t, 1, out["extra"])

	// Only topics strip the field.
	out = normalizeMetadata("lesson", map[string]interface{}{"topic_id": "t1"}, info)
	assert.Equal(t, "t1", out["topic_id"])
}

func TestNormalizeMetadataStripsLegacyFile(t *testing.T) {
	info := StorageInfo{OriginalFilename: "x.pdf"}
	out := normalizeMetadata("chunk", map[string]interface{}{"file": map[string]interface{}{"object_name": "old"}}, info)
	assert.NotContains(t, out, "file")
}

func TestNormalizeMetadataDoesNotMutateInput(t *testing.T) {
	in := map[string]interface{}{"topic_id": "t1", "file": "legacy"}
	normalizeMetadata("topic", in, StorageInfo{OriginalFilename: "x.pdf"})
	assert.Equal(t, "t1", in["topic_id"])
	assert.Equal(t, "legacy", in["file"])
}

func TestNormalizeMetadataEmptyPublicURL(t *testing.T) {
	// No public base URL configured: the url field is still written, empty.
	out := normalizeMetadata("subject", map[string]interface{}{}, StorageInfo{OriginalFilename: "s.pdf"})
	assert.Contains(t, out, "subject_url")
	assert.Equal(t, "", out["subject_url"])
}

func TestFilenameStem(t *testing.T) {
	assert.Equal(t, "lesson", filenameStem("lesson.pdf"))
	assert.Equal(t, "archive.tar", filenameStem("archive.tar.gz"))
	assert.Equal(t, "noext", filenameStem("noext"))
	assert.Equal(t, "", filenameStem("  "))
}
