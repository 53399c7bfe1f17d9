// ABOUTME: Chunker splits extracted document text into overlapping segments
// ABOUTME: Deterministic character-target splitting so boundary sentences stay recoverable
package core

import (
	"errors"
	"strings"
	"unicode"
)

// Chunking defaults: roughly a paragraph of legal prose per chunk, with
// enough overlap that a clause spanning a boundary survives in one piece.
const (
	DefaultChunkTargetLength = 1000
	DefaultChunkOverlapRatio = 0.12
)

// Chunker splits text into overlapping chunks of a target rune length
type Chunker struct {
	targetLength int
	overlap      int
}

// NewChunker creates a Chunker with the given target length (runes) and
// overlap ratio. Out-of-range values fall back to the defaults.
func NewChunker(targetLength int, overlapRatio float64) *Chunker {
	if targetLength <= 0 {
		targetLength = DefaultChunkTargetLength
	}
	if overlapRatio < 0 || overlapRatio >= 0.5 {
		overlapRatio = DefaultChunkOverlapRatio
	}
	return &Chunker{
		targetLength: targetLength,
		overlap:      int(float64(targetLength) * overlapRatio),
	}
}

// Chunk splits text into ordered chunk texts. The same input always produces
// the same boundaries, no chunk is ever empty, and original order is
// preserved; indices are assigned positionally by the caller. Text shorter
// than the target yields exactly one chunk. Whitespace-only text is an error
// so the document fails instead of reaching an empty processed state.
func (c *Chunker) Chunk(text string) ([]string, error) {
	if strings.TrimSpace(text) == "" {
		return nil, errors.New("document contains no extractable text")
	}

	runes := []rune(text)
	if len(runes) <= c.targetLength {
		return []string{text}, nil
	}

	var chunks []string
	start := 0
	for start < len(runes) {
		end := start + c.targetLength
		if end >= len(runes) {
			end = len(runes)
		} else {
			end = c.breakPoint(runes, start, end)
		}

		piece := string(runes[start:end])
		if strings.TrimSpace(piece) != "" {
			chunks = append(chunks, piece)
		}

		if end == len(runes) {
			break
		}

		next := end - c.overlap
		if next <= start {
			// Overlap must never stall the scan
			next = end
		}
		start = next
	}

	return chunks, nil
}

// breakPoint looks for the last whitespace in the final fifth of the window
// so chunks end on a word boundary where possible. Falls back to a hard cut.
func (c *Chunker) breakPoint(runes []rune, start, end int) int {
	earliest := end - c.targetLength/5
	if earliest <= start {
		earliest = start + 1
	}
	for i := end - 1; i >= earliest; i-- {
		if unicode.IsSpace(runes[i]) {
			return i + 1
		}
	}
	return end
}
