// ABOUTME: Tests for the plain-text extractor
// ABOUTME: Verifies UTF-8 validation, BOM stripping, size limits, and newline normalization

package extract

import (
	"strings"
	"testing"
)

func TestExtract_PlainText(t *testing.T) {
	p := NewPlainText(0)

	text, err := p.Extract("contract.txt", []byte("This agreement is binding."))
	if err != nil {
		t.Fatalf("Extract() error = %v", err)
	}
	if text != "This agreement is binding." {
		t.Errorf("text = %q", text)
	}
}

func TestExtract_StripsBOM(t *testing.T) {
	p := NewPlainText(0)

	data := append([]byte{0xef, 0xbb, 0xbf}, []byte("Exhibit A")...)
	text, err := p.Extract("exhibit.txt", data)
	if err != nil {
		t.Fatalf("Extract() error = %v", err)
	}
	if text != "Exhibit A" {
		t.Errorf("text = %q, want BOM removed", text)
	}
}

func TestExtract_NormalizesLineEndings(t *testing.T) {
	p := NewPlainText(0)

	text, err := p.Extract("memo.txt", []byte("Section 1.\r\nSection 2.\r\n"))
	if err != nil {
		t.Fatalf("Extract() error = %v", err)
	}
	if strings.Contains(text, "\r") {
		t.Errorf("text still contains carriage returns: %q", text)
	}
}

func TestExtract_RejectsBinary(t *testing.T) {
	p := NewPlainText(0)

	_, err := p.Extract("scan.pdf", []byte{0x25, 0x50, 0x44, 0x46, 0xff, 0xfe, 0x00, 0x80})
	if err == nil {
		t.Fatal("expected error for binary content")
	}
	if !strings.Contains(err.Error(), "not valid UTF-8") {
		t.Errorf("error = %v, want UTF-8 cause", err)
	}
}

func TestExtract_RejectsEmptyFile(t *testing.T) {
	p := NewPlainText(0)

	if _, err := p.Extract("empty.txt", nil); err == nil {
		t.Fatal("expected error for empty file")
	}
}

func TestExtract_EnforcesSizeLimit(t *testing.T) {
	p := NewPlainText(16)

	_, err := p.Extract("big.txt", []byte(strings.Repeat("a", 17)))
	if err == nil {
		t.Fatal("expected error for oversized file")
	}
	if !strings.Contains(err.Error(), "exceeds") {
		t.Errorf("error = %v, want size cause", err)
	}
}
