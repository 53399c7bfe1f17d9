// ABOUTME: Text extraction boundary between raw uploads and the chunking pipeline
// ABOUTME: Ships a plain-text extractor; binary formats are an external concern
package extract

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

// DefaultMaxBytes bounds how large an upload the plain-text extractor accepts
const DefaultMaxBytes = 10 << 20 // 10 MiB

// PlainText extracts text from UTF-8 uploads (txt, md, and similar)
type PlainText struct {
	maxBytes int
}

// NewPlainText creates a plain-text extractor. maxBytes <= 0 uses the default.
func NewPlainText(maxBytes int) *PlainText {
	if maxBytes <= 0 {
		maxBytes = DefaultMaxBytes
	}
	return &PlainText{maxBytes: maxBytes}
}

// Extract validates and decodes the upload. Invalid UTF-8 means the file is
// binary or in an unsupported encoding; that is an extraction failure, which
// the ingestion pipeline records on the document.
func (p *PlainText) Extract(filename string, data []byte) (string, error) {
	if len(data) == 0 {
		return "", fmt.Errorf("%s is empty", filename)
	}
	if len(data) > p.maxBytes {
		return "", fmt.Errorf("%s is %d bytes, exceeds the %d byte limit", filename, len(data), p.maxBytes)
	}

	// Strip a UTF-8 BOM if present
	data = stripBOM(data)

	if !utf8.Valid(data) {
		return "", fmt.Errorf("%s is not valid UTF-8 text; binary formats are not supported", filename)
	}

	// Normalize Windows line endings so chunk boundaries are stable
	text := strings.ReplaceAll(string(data), "\r\n", "\n")
	return text, nil
}

func stripBOM(data []byte) []byte {
	if len(data) >= 3 && data[0] == 0xef && data[1] == 0xbb && data[2] == 0xbf {
		return data[3:]
	}
	return data
}
