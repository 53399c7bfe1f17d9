// ABOUTME: Conversation and message persistence
// ABOUTME: Document links record insertion order, which fixes the implicit scope order
package sqlite

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/lexhaven/docket/internal/models"
)

// CreateConversation inserts a new conversation record. Creating an ID that
// already exists is a no-op, so upload and chat can both ensure a
// conversation without coordinating.
func (s *Store) CreateConversation(id string) error {
	_, err := s.db.Exec(`
		INSERT OR IGNORE INTO conversations (id, created_at) VALUES (?, ?)
	`, id, time.Now())
	if err != nil {
		return fmt.Errorf("failed to insert conversation: %w", err)
	}
	return nil
}

// GetConversation loads a conversation with its document links in the order
// they were added. Returns nil without error when the conversation does not
// exist.
func (s *Store) GetConversation(id string) (*models.Conversation, error) {
	var conv models.Conversation
	err := s.db.QueryRow(`
		SELECT id, created_at FROM conversations WHERE id = ?
	`, id).Scan(&conv.ID, &conv.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get conversation: %w", err)
	}

	rows, err := s.db.Query(`
		SELECT document_id FROM conversation_documents
		WHERE conversation_id = ?
		ORDER BY rowid ASC
	`, id)
	if err != nil {
		return nil, fmt.Errorf("failed to query conversation documents: %w", err)
	}
	defer func() { _ = rows.Close() }()

	for rows.Next() {
		var docID string
		if err := rows.Scan(&docID); err != nil {
			return nil, err
		}
		conv.DocumentIDs = append(conv.DocumentIDs, docID)
	}
	return &conv, rows.Err()
}

// AddDocumentToConversation links a document into a conversation's implicit
// retrieval scope. Linking the same document twice is a no-op.
func (s *Store) AddDocumentToConversation(conversationID, documentID string) error {
	_, err := s.db.Exec(`
		INSERT OR IGNORE INTO conversation_documents (conversation_id, document_id)
		VALUES (?, ?)
	`, conversationID, documentID)
	if err != nil {
		return fmt.Errorf("failed to link document to conversation: %w", err)
	}
	return nil
}

// GetMessages returns a conversation's history oldest first
func (s *Store) GetMessages(conversationID string) ([]models.Message, error) {
	rows, err := s.db.Query(`
		SELECT id, conversation_id, role, content, created_at
		FROM messages
		WHERE conversation_id = ?
		ORDER BY created_at ASC, rowid ASC
	`, conversationID)
	if err != nil {
		return nil, fmt.Errorf("failed to query messages: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var msgs []models.Message
	for rows.Next() {
		var msg models.Message
		if err := rows.Scan(&msg.ID, &msg.ConversationID, &msg.Role, &msg.Content, &msg.CreatedAt); err != nil {
			return nil, err
		}
		msgs = append(msgs, msg)
	}
	return msgs, rows.Err()
}

// AppendMessage adds a message to the end of a conversation's history.
// Serialized so two appends from the same process cannot interleave timestamps.
func (s *Store) AppendMessage(msg models.Message) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if msg.CreatedAt.IsZero() {
		msg.CreatedAt = time.Now()
	}
	_, err := s.db.Exec(`
		INSERT INTO messages (id, conversation_id, role, content, created_at)
		VALUES (?, ?, ?, ?, ?)
	`, msg.ID, msg.ConversationID, msg.Role, msg.Content, msg.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert message: %w", err)
	}
	return nil
}
