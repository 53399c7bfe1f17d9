// ABOUTME: Conversation and Message types for chat history
// ABOUTME: A conversation accumulates document IDs that form its implicit scope
package models

import "time"

// Message roles, matching the wire format sent to the chat model
const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Message is a single entry in a conversation's history
type Message struct {
	ID             string    `json:"id"`
	ConversationID string    `json:"conversation_id"`
	Role           string    `json:"role"`
	Content        string    `json:"content"`
	CreatedAt      time.Time `json:"created_at"`
}

// Conversation is an ordered message history plus the set of documents
// uploaded into it. DocumentIDs only grows; removal happens only through
// explicit document deletion.
type Conversation struct {
	ID          string    `json:"id"`
	DocumentIDs []string  `json:"document_ids"`
	Messages    []Message `json:"messages,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}
