// ABOUTME: Ingestor drives the asynchronous document pipeline: extract, chunk, embed, persist
// ABOUTME: One ingestion task owns one document; any stage failure fails the whole document
package core

import (
	"context"
	"fmt"
	"log"

	"github.com/lexhaven/docket/internal/models"
)

// IngestStore is the write side of the document record store
type IngestStore interface {
	UpdateDocumentStatus(id string, status models.DocumentStatus, processingError string) error
	SaveChunks(documentID string, chunks []models.Chunk) error
}

// Embedder maps text to a fixed-length vector. The same embedder must be
// used at ingestion and at query time so the embedding spaces match.
type Embedder interface {
	GenerateEmbedding(ctx context.Context, text string) ([]float64, error)
}

// Extractor turns an uploaded file's raw bytes into plain text
type Extractor interface {
	Extract(filename string, data []byte) (string, error)
}

// Ingestor processes uploaded documents in the background
type Ingestor struct {
	store      IngestStore
	embedder   Embedder
	extractor  Extractor
	chunker    *Chunker
	dimensions int
}

// NewIngestor creates an Ingestor. dimensions > 0 enforces that every
// embedding the service returns has that length before it is persisted.
func NewIngestor(store IngestStore, embedder Embedder, extractor Extractor, chunker *Chunker, dimensions int) *Ingestor {
	return &Ingestor{
		store:      store,
		embedder:   embedder,
		extractor:  extractor,
		chunker:    chunker,
		dimensions: dimensions,
	}
}

// Process runs the full ingestion pipeline for one document. It is the sole
// writer for that document's record: callers run it in its own goroutine and
// observe progress through the status query. Chunks are persisted only after
// every embedding succeeded, so a partial index is never visible.
func (ing *Ingestor) Process(ctx context.Context, documentID, filename string, data []byte) error {
	if err := ing.store.UpdateDocumentStatus(documentID, models.StatusProcessing, ""); err != nil {
		return fmt.Errorf("marking document %s processing: %w", documentID, err)
	}

	text, err := ing.extractor.Extract(filename, data)
	if err != nil {
		return ing.fail(documentID, fmt.Sprintf("extraction failed: %v", err))
	}

	pieces, err := ing.chunker.Chunk(text)
	if err != nil {
		return ing.fail(documentID, fmt.Sprintf("chunking failed: %v", err))
	}

	chunks := make([]models.Chunk, 0, len(pieces))
	for i, piece := range pieces {
		vector, err := ing.embedder.GenerateEmbedding(ctx, piece)
		if err != nil {
			// One bad chunk fails the whole document: a silently
			// incomplete index is worse than no index
			return ing.fail(documentID, fmt.Sprintf("embedding failed for chunk %d of %d: %v", i, len(pieces), err))
		}
		if ing.dimensions > 0 && len(vector) != ing.dimensions {
			return ing.fail(documentID, fmt.Sprintf("embedding for chunk %d has dimension %d, expected %d", i, len(vector), ing.dimensions))
		}
		chunks = append(chunks, models.Chunk{
			DocumentID: documentID,
			Index:      i,
			Text:       piece,
			Embedding:  vector,
		})
	}

	if err := ing.store.SaveChunks(documentID, chunks); err != nil {
		return ing.fail(documentID, fmt.Sprintf("persisting chunks: %v", err))
	}

	if err := ing.store.UpdateDocumentStatus(documentID, models.StatusProcessed, ""); err != nil {
		return fmt.Errorf("marking document %s processed: %w", documentID, err)
	}
	return nil
}

// fail records the cause on the document so pollers discover it. A failed
// document is terminal; re-processing requires a new upload.
func (ing *Ingestor) fail(documentID, cause string) error {
	if err := ing.store.UpdateDocumentStatus(documentID, models.StatusFailed, cause); err != nil {
		log.Printf("Warning: could not mark document %s failed: %v", documentID, err)
	}
	return fmt.Errorf("document %s: %s", documentID, cause)
}
