package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func TestExtractTextPlain(t *testing.T) {
	parser := NewDocumentParserService(zap.NewNop())

	text := parser.ExtractText("resume.txt", []byte("Jane Doe\nSQL, Python"))

	assert.Equal(t, "Jane Doe\nSQL, Python", text)
}

func TestExtractTextSniffsUnknownExtension(t *testing.T) {
	parser := NewDocumentParserService(zap.NewNop())

	assert.Equal(t, "plain resume", parser.ExtractText("resume", []byte("plain resume")))
	assert.Equal(t, "", parser.ExtractText("resume.bin", []byte{0xff, 0xfe, 0x00}))
}

func TestExtractTextEmpty(t *testing.T) {
	parser := NewDocumentParserService(zap.NewNop())

	assert.Equal(t, "", parser.ExtractText("resume.pdf", nil))
}

func TestExtractTextMalformedDocuments(t *testing.T) {
	parser := NewDocumentParserService(zap.NewNop())

	assert.NotPanics(t, func() {
		assert.Equal(t, "", parser.ExtractText("resume.pdf", []byte("%PDF-1.4 truncated")))
		assert.Equal(t, "", parser.ExtractText("resume.docx", []byte("PK\x03\x04 not a zip")))
	})
}

func TestDetectDocumentType(t *testing.T) {
	assert.Equal(t, "pdf", detectDocumentType("CV.PDF", nil))
	assert.Equal(t, "docx", detectDocumentType("cv.docx", nil))
	assert.Equal(t, "text", detectDocumentType("cv.md", nil))
	assert.Equal(t, "pdf", detectDocumentType("upload", []byte("%PDF-1.7")))
	assert.Equal(t, "docx", detectDocumentType("upload", []byte("PK\x03\x04")))
}

func TestStripDocxMarkup(t *testing.T) {
	content := `<w:p><w:r><w:t>Jane Doe</w:t></w:r></w:p><w:p><w:r><w:t>SQL</w:t></w:r></w:p>`

	assert.Equal(t, "Jane Doe\nSQL\n", stripDocxMarkup(content))

	escaped := `<w:p><w:r><w:t>R&amp;D lead, C&lt;&gt;Go &quot;tools&quot;</w:t></w:r></w:p>`
	assert.Equal(t, "R&D lead, C<>Go \"tools\"\n", stripDocxMarkup(escaped))
}
