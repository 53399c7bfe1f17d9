// ABOUTME: Document and Chunk types for the ingestion pipeline
// ABOUTME: Tracks the uploaded → processing → processed/failed lifecycle
package models

import "time"

// DocumentStatus represents a document's position in the ingestion lifecycle
type DocumentStatus string

const (
	StatusUploaded   DocumentStatus = "uploaded"
	StatusProcessing DocumentStatus = "processing"
	StatusProcessed  DocumentStatus = "processed"
	StatusFailed     DocumentStatus = "failed"
)

// Terminal reports whether the status is final for this upload.
// Re-processing requires a new document identity.
func (s DocumentStatus) Terminal() bool {
	return s == StatusProcessed || s == StatusFailed
}

// CanTransitionTo reports whether the lifecycle permits moving to next
func (s DocumentStatus) CanTransitionTo(next DocumentStatus) bool {
	switch s {
	case StatusUploaded:
		return next == StatusProcessing || next == StatusFailed
	case StatusProcessing:
		return next == StatusProcessed || next == StatusFailed
	default:
		return false
	}
}

// Document represents one uploaded file and its indexed chunks
type Document struct {
	ID              string         `json:"id"`
	Filename        string         `json:"filename"`
	OwnerID         string         `json:"owner_id,omitempty"`
	ChatID          string         `json:"chat_id,omitempty"`
	Status          DocumentStatus `json:"status"`
	ProcessingError string         `json:"processing_error,omitempty"`
	ChunkCount      int            `json:"chunk_count"`
	CreatedAt       time.Time      `json:"created_at"`
	UpdatedAt       time.Time      `json:"updated_at"`
}

// Chunk is one bounded slice of a document's extracted text.
// Index is 0-based and defines retrieval tie-break and citation order.
// The chunk list of a processed document is append-only and never reordered.
type Chunk struct {
	DocumentID string    `json:"document_id"`
	Index      int       `json:"index"`
	Text       string    `json:"text"`
	Embedding  []float64 `json:"embedding"`
}
