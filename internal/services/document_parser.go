package services

import (
	"bytes"
	"fmt"
	"html"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/ledongthuc/pdf"
	"github.com/nguyenthenguyen/docx"
	"go.uber.org/zap"
)

// DocumentParserService turns an uploaded resume into plain text. It never
// fails: unreadable documents yield an empty string.
type DocumentParserService interface {
	ExtractText(filename string, data []byte) string
}

type documentParserService struct {
	log *zap.Logger
}

func NewDocumentParserService(log *zap.Logger) DocumentParserService {
	return &documentParserService{log: log}
}

func (p *documentParserService) ExtractText(filename string, data []byte) string {
	if len(data) == 0 {
		return ""
	}

	var (
		text string
		err  error
	)

	switch detectDocumentType(filename, data) {
	case "pdf":
		text, err = extractPDFText(data)
	case "docx":
		text, err = extractDocxText(data)
	case "text":
		text = string(data)
	default:
		err = fmt.Errorf("unsupported document type: %s", filepath.Ext(filename))
	}

	if err != nil {
		p.log.Warn("document text extraction failed",
			zap.String("filename", filename),
			zap.Int("size", len(data)),
			zap.Error(err),
		)
		return ""
	}

	return text
}

func detectDocumentType(filename string, data []byte) string {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".pdf":
		return "pdf"
	case ".docx":
		return "docx"
	case ".txt", ".md", ".text":
		return "text"
	}

	switch {
	case bytes.HasPrefix(data, []byte("%PDF-")):
		return "pdf"
	case bytes.HasPrefix(data, []byte("PK\x03\x04")):
		return "docx"
	case utf8.Valid(data):
		return "text"
	default:
		return ""
	}
}

func extractPDFText(data []byte) (text string, err error) {
	// the pdf reader panics on some malformed inputs
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("failed to read pdf: %v", r)
		}
	}()

	r, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("failed to read pdf: %w", err)
	}

	var textBuilder strings.Builder
	totalPage := r.NumPage()

	for pageIndex := 1; pageIndex <= totalPage; pageIndex++ {
		page := r.Page(pageIndex)
		if page.V.IsNull() {
			continue
		}

		pageText, err := page.GetPlainText(nil)
		if err != nil {
			// keep whatever the other pages give us
			continue
		}

		textBuilder.WriteString(pageText)
		textBuilder.WriteString("\n\n")
	}

	return textBuilder.String(), nil
}

func extractDocxText(data []byte) (string, error) {
	doc, err := docx.ReadDocxFromMemory(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("failed to parse docx: %w", err)
	}
	defer doc.Close()

	return stripDocxMarkup(doc.Editable().GetContent()), nil
}

// stripDocxMarkup drops the WordprocessingML tags GetContent leaves in and
// turns paragraph ends into newlines.
func stripDocxMarkup(content string) string {
	content = strings.ReplaceAll(content, "</w:p>", "\n")

	var b strings.Builder
	inTag := false
	for _, r := range content {
		switch {
		case r == '<':
			inTag = true
		case r == '>':
			inTag = false
		case !inTag:
			b.WriteRune(r)
		}
	}
	// document.xml escapes &, < and > in run text
	return html.UnescapeString(b.String())
}
