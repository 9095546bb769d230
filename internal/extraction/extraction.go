// Package extraction converts uploaded tender documents into plain text.
package extraction

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"unicode/utf8"
)

var (
	// ErrUnsupportedInput indicates a file type that cannot be extracted.
	ErrUnsupportedInput = errors.New("unsupported input")
	// ErrUnreadable indicates a supported file whose content could not be read.
	ErrUnreadable = errors.New("unreadable document")
)

// Document is the extracted text of one uploaded file.
type Document struct {
	Filename string
	Text     string
	Pages    int
}

// Supported reports whether filename has an extractable extension.
func Supported(filename string) bool {
	switch ext(filename) {
	case ".pdf", ".docx", ".txt":
		return true
	}
	return false
}

// Extract reads data according to the extension of filename. PDF text is
// emitted page by page, each page prefixed with a "(Page N)" marker.
func Extract(filename string, data []byte) (*Document, error) {
	doc := &Document{Filename: filename}

	var err error
	switch ext(filename) {
	case ".pdf":
		doc.Text, doc.Pages, err = extractPDF(data)
	case ".docx":
		doc.Text, err = extractDocx(data)
	case ".txt":
		doc.Text, err = extractText(data)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedInput, filepath.Base(filename))
	}

	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrUnreadable, filepath.Base(filename), err)
	}
	return doc, nil
}

func extractText(data []byte) (string, error) {
	if !utf8.Valid(data) {
		return "", errors.New("text is not valid UTF-8")
	}
	text := strings.TrimPrefix(string(data), "\ufeff")
	return strings.ReplaceAll(text, "\r\n", "\n"), nil
}

func ext(filename string) string {
	return strings.ToLower(filepath.Ext(filename))
}
