// ABOUTME: Document record persistence and the status query used by pollers
// ABOUTME: Status updates respect the lifecycle; terminal states stay terminal
package sqlite

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/lexhaven/docket/internal/models"
)

// CreateDocument inserts a new document record in its initial status
func (s *Store) CreateDocument(doc *models.Document) error {
	if doc.Status == "" {
		doc.Status = models.StatusUploaded
	}
	now := time.Now()
	if doc.CreatedAt.IsZero() {
		doc.CreatedAt = now
	}
	doc.UpdatedAt = now

	_, err := s.db.Exec(`
		INSERT INTO documents (id, filename, owner_id, chat_id, status, processing_error, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`, doc.ID, doc.Filename, nullString(doc.OwnerID), nullString(doc.ChatID),
		string(doc.Status), nullString(doc.ProcessingError), doc.CreatedAt, doc.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert document: %w", err)
	}
	return nil
}

// GetDocument retrieves a document with its chunk count.
// Returns nil without error when the document does not exist.
func (s *Store) GetDocument(id string) (*models.Document, error) {
	var (
		doc             models.Document
		ownerID         sql.NullString
		chatID          sql.NullString
		processingError sql.NullString
		status          string
	)

	err := s.db.QueryRow(`
		SELECT d.id, d.filename, d.owner_id, d.chat_id, d.status, d.processing_error,
		       d.created_at, d.updated_at,
		       (SELECT COUNT(*) FROM chunks c WHERE c.document_id = d.id)
		FROM documents d
		WHERE d.id = ?
	`, id).Scan(&doc.ID, &doc.Filename, &ownerID, &chatID, &status, &processingError,
		&doc.CreatedAt, &doc.UpdatedAt, &doc.ChunkCount)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get document: %w", err)
	}

	doc.Status = models.DocumentStatus(status)
	if ownerID.Valid {
		doc.OwnerID = ownerID.String
	}
	if chatID.Valid {
		doc.ChatID = chatID.String
	}
	if processingError.Valid {
		doc.ProcessingError = processingError.String
	}
	return &doc, nil
}

// UpdateDocumentStatus advances a document through its lifecycle. Moving out
// of a terminal state is rejected: re-processing requires a new document.
func (s *Store) UpdateDocumentStatus(id string, status models.DocumentStatus, processingError string) error {
	current, err := s.GetDocument(id)
	if err != nil {
		return err
	}
	if current == nil {
		return fmt.Errorf("document not found: %s", id)
	}
	if !current.Status.CanTransitionTo(status) {
		return fmt.Errorf("invalid status transition for document %s: %s → %s", id, current.Status, status)
	}

	_, err = s.db.Exec(`
		UPDATE documents
		SET status = ?, processing_error = ?, updated_at = ?
		WHERE id = ?
	`, string(status), nullString(processingError), time.Now(), id)
	if err != nil {
		return fmt.Errorf("failed to update document status: %w", err)
	}
	return nil
}

// DeleteDocument removes the document record. Chunks (the embedding store
// side) and conversation links go with it via cascade, so retrieval can
// never return this document's chunks again.
func (s *Store) DeleteDocument(id string) error {
	result, err := s.db.Exec(`DELETE FROM documents WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete document: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return fmt.Errorf("document not found: %s", id)
	}
	return nil
}

// ListDocuments returns all documents, newest first
func (s *Store) ListDocuments() ([]models.Document, error) {
	rows, err := s.db.Query(`
		SELECT d.id, d.filename, d.owner_id, d.chat_id, d.status, d.processing_error,
		       d.created_at, d.updated_at,
		       (SELECT COUNT(*) FROM chunks c WHERE c.document_id = d.id)
		FROM documents d
		ORDER BY d.created_at DESC, d.id DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to list documents: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var docs []models.Document
	for rows.Next() {
		var (
			doc             models.Document
			ownerID         sql.NullString
			chatID          sql.NullString
			processingError sql.NullString
			status          string
		)
		if err := rows.Scan(&doc.ID, &doc.Filename, &ownerID, &chatID, &status, &processingError,
			&doc.CreatedAt, &doc.UpdatedAt, &doc.ChunkCount); err != nil {
			return nil, err
		}
		doc.Status = models.DocumentStatus(status)
		if ownerID.Valid {
			doc.OwnerID = ownerID.String
		}
		if chatID.Valid {
			doc.ChatID = chatID.String
		}
		if processingError.Valid {
			doc.ProcessingError = processingError.String
		}
		docs = append(docs, doc)
	}
	return docs, rows.Err()
}

// nullString converts empty strings to NULL for optional columns
func nullString(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}
