package upload

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

var testExts = []string{"pdf", "txt", "png", "jpg", "jpeg", "docx"}

func TestValidateExtensionAllowed(t *testing.T) {
	for _, name := range []string{"a.pdf", "b.txt", "c.PNG", "d.Jpg", "e.JPEG", "f.docx", "archive.tar.pdf"} {
		assert.NoError(t, ValidateExtension(name, testExts), name)
	}
}

func TestValidateExtensionRejected(t *testing.T) {
	for _, name := range []string{"run.exe", "script.sh", "noext", "trailingdot.", "doc.pdf.exe"} {
		assert.ErrorIs(t, ValidateExtension(name, testExts), ErrExtensionNotAllowed, name)
	}
}

func TestValidateSize(t *testing.T) {
	max := int64(50 * 1024 * 1024)

	assert.NoError(t, ValidateSize(1, max))
	// Boundary is inclusive.
	assert.NoError(t, ValidateSize(max, max))
	assert.ErrorIs(t, ValidateSize(max+1, max), ErrFileTooLarge)
}
