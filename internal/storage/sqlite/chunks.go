// ABOUTME: Chunk persistence with embedding vectors stored as BLOBs
// ABOUTME: Chunks are written in one transaction so a partial index is never visible
package sqlite

import (
	"encoding/binary"
	"fmt"
	"math"

	"github.com/lexhaven/docket/internal/models"
)

// SaveChunks persists a document's full chunk list atomically. The list is
// written exactly once, when ingestion completes; readers either see every
// chunk with its embedding or none at all.
func (s *Store) SaveChunks(documentID string, chunks []models.Chunk) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	// A re-run after a crash mid-ingestion replaces any stale rows
	if _, err := tx.Exec(`DELETE FROM chunks WHERE document_id = ?`, documentID); err != nil {
		return fmt.Errorf("failed to clear existing chunks: %w", err)
	}

	stmt, err := tx.Prepare(`
		INSERT INTO chunks (document_id, chunk_index, content, vector)
		VALUES (?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare chunk insert: %w", err)
	}
	defer func() { _ = stmt.Close() }()

	for _, chunk := range chunks {
		if chunk.Text == "" {
			return fmt.Errorf("chunk %d of document %s has empty text", chunk.Index, documentID)
		}
		if _, err := stmt.Exec(documentID, chunk.Index, chunk.Text, vectorToBlob(chunk.Embedding)); err != nil {
			return fmt.Errorf("failed to insert chunk %d: %w", chunk.Index, err)
		}
	}

	return tx.Commit()
}

// GetChunksByDocument returns a document's chunks in index order
func (s *Store) GetChunksByDocument(documentID string) ([]models.Chunk, error) {
	rows, err := s.db.Query(`
		SELECT document_id, chunk_index, content, vector
		FROM chunks
		WHERE document_id = ?
		ORDER BY chunk_index ASC
	`, documentID)
	if err != nil {
		return nil, fmt.Errorf("failed to query chunks: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var chunks []models.Chunk
	for rows.Next() {
		var (
			chunk models.Chunk
			blob  []byte
		)
		if err := rows.Scan(&chunk.DocumentID, &chunk.Index, &chunk.Text, &blob); err != nil {
			return nil, err
		}
		chunk.Embedding = blobToVector(blob)
		chunks = append(chunks, chunk)
	}
	return chunks, rows.Err()
}

// CountChunks returns how many chunks a document has persisted
func (s *Store) CountChunks(documentID string) (int, error) {
	var count int
	err := s.db.QueryRow(`SELECT COUNT(*) FROM chunks WHERE document_id = ?`, documentID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count chunks: %w", err)
	}
	return count, nil
}

// vectorToBlob converts a float64 slice to a binary blob
func vectorToBlob(vector []float64) []byte {
	blob := make([]byte, len(vector)*8)
	for i, v := range vector {
		binary.LittleEndian.PutUint64(blob[i*8:], math.Float64bits(v))
	}
	return blob
}

// blobToVector converts a binary blob back to a float64 slice
func blobToVector(blob []byte) []float64 {
	count := len(blob) / 8
	vector := make([]float64, count)
	for i := 0; i < count; i++ {
		bits := binary.LittleEndian.Uint64(blob[i*8:])
		vector[i] = math.Float64frombits(bits)
	}
	return vector
}
