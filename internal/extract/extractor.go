// Package extract provides text extraction from stored document formats.
package extract

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
)

// ErrNoText indicates the document's media type is unsupported or the
// document carries no extractable text. Callers skip such documents rather
// than failing a corpus build.
var ErrNoText = errors.New("no extractable text")

// Extractor converts raw document bytes into plain text.
type Extractor struct{}

// NewExtractor returns a new Extractor.
func NewExtractor() *Extractor {
	return &Extractor{}
}

// Extract returns the text content of a document identified by id. The id is
// used only to infer the media type from its extension.
// Supported: .pdf, .txt, .md, .rst, .docx, .xlsx. Unsupported types return
// ErrNoText.
func (e *Extractor) Extract(id string, content []byte) (string, error) {
	return e.ExtractBytes(content, strings.ToLower(filepath.Ext(id)))
}

// ExtractBytes extracts text from content based on the given extension.
// ext should include the leading dot (e.g. ".pdf").
func (e *Extractor) ExtractBytes(content []byte, ext string) (string, error) {
	switch ext {
	case ".pdf":
		return extractPDF(content)
	case ".docx":
		return extractDOCX(content)
	case ".xlsx":
		return extractExcel(content)
	case ".txt", ".md", ".rst":
		return extractPlain(content)
	default:
		return "", fmt.Errorf("%w: unsupported extension %q", ErrNoText, ext)
	}
}
