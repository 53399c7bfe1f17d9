// ABOUTME: Store is the SQLite-backed document record and conversation store
// ABOUTME: Satisfies the core pipeline's source, ingest, and conversation interfaces
package sqlite

import "sync"

// Store provides all persistence for documents, chunks, and conversations.
// Message appends are serialized per process via mu; each document's record
// is only ever written by the one ingestion task that owns it.
type Store struct {
	db *DB
	mu sync.Mutex
}

// NewStore creates a Store on top of an open database
func NewStore(db *DB) *Store {
	return &Store{db: db}
}

// DB exposes the underlying database handle
func (s *Store) DB() *DB {
	return s.db
}

// Close closes the underlying database
func (s *Store) Close() error {
	return s.db.Close()
}
