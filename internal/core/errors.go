// ABOUTME: Error taxonomy for the retrieval pipeline
// ABOUTME: Contract violations fail loudly; ingestion errors land on the document record
package core

import (
	"errors"
	"fmt"
)

// ErrInvalidArgument marks a caller contract violation, e.g. non-positive topK
var ErrInvalidArgument = errors.New("invalid argument")

// ErrModelUnavailable marks a failed chat-model call. The user message and
// retrieved evidence are not persisted on failure, so the turn is retryable.
var ErrModelUnavailable = errors.New("chat model unavailable")

// DimensionMismatchError reports a stored vector whose length differs from
// the query vector. This is a configuration error, not a user-facing one:
// every chunk and every query vector must share one embedding dimension.
type DimensionMismatchError struct {
	Want       int
	Got        int
	DocumentID string
	ChunkIndex int
}

func (e *DimensionMismatchError) Error() string {
	return fmt.Sprintf("embedding dimension mismatch: query has %d, chunk %d of document %s has %d",
		e.Want, e.ChunkIndex, e.DocumentID, e.Got)
}
