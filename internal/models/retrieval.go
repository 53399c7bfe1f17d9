// ABOUTME: Per-turn retrieval value objects: query scope, ranked results, citations
// ABOUTME: RetrievalQuery is immutable per chat turn; never a shared mutable set
package models

// RetrievalQuery captures everything scope resolution needs for one chat turn.
// It is built fresh per turn and passed by value into the orchestrator.
type RetrievalQuery struct {
	Message                 string
	AttachedDocumentIDs     []string
	ConversationDocumentIDs []string
}

// Scope returns the document IDs eligible as retrieval candidates this turn,
// deduplicated, preserving first-seen order.
//
// Explicit attachment is a hard override: when AttachedDocumentIDs is
// non-empty the conversation's implicit documents are NOT merged in. An empty
// result is valid and means the turn proceeds without document grounding.
func (q RetrievalQuery) Scope() []string {
	ids := q.AttachedDocumentIDs
	if len(ids) == 0 {
		ids = q.ConversationDocumentIDs
	}

	seen := make(map[string]bool, len(ids))
	scope := make([]string, 0, len(ids))
	for _, id := range ids {
		if id == "" || seen[id] {
			continue
		}
		seen[id] = true
		scope = append(scope, id)
	}
	return scope
}

// RankedChunk is a chunk paired with its similarity to the query vector.
// Ephemeral: produced during retrieval, never persisted.
type RankedChunk struct {
	Chunk      Chunk
	Similarity float64
}

// ChunkRef identifies a chunk used as evidence, for rendering citations
type ChunkRef struct {
	DocumentID string `json:"documentId"`
	ChunkIndex int    `json:"chunkIndex"`
}

// ChatResult is the outcome of one grounded chat turn
type ChatResult struct {
	Reply          string     `json:"reply"`
	ConversationID string     `json:"conversationId"`
	UsedChunks     []ChunkRef `json:"usedChunks"`
}
