// ABOUTME: Chat orchestrator composing scope, retrieval, history, and the model call
// ABOUTME: Grounds replies in retrieved chunks and returns the citations actually used
package core

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/lexhaven/docket/internal/models"
)

const groundedSystemPrompt = `You are Docket, a legal-document assistant. Answer the user's question using ONLY the evidence excerpts provided below. Cite the source of each claim using the bracketed labels. If the evidence does not answer the question, say so plainly instead of guessing.`

const ungroundedSystemPrompt = `You are Docket, a legal-document assistant. No documents are in scope for this question, so answer from general knowledge and say plainly that your reply is not grounded in the user's documents.`

// ConversationStore persists conversations and their message history.
// Message appends for one conversation are serialized by the store.
type ConversationStore interface {
	// GetConversation returns nil without error when the conversation does not exist
	GetConversation(id string) (*models.Conversation, error)
	CreateConversation(id string) error
	GetMessages(conversationID string) ([]models.Message, error)
	AppendMessage(msg models.Message) error
}

// ChatModel produces a completion for an ordered message sequence
type ChatModel interface {
	Complete(ctx context.Context, messages []models.Message) (string, error)
}

// Orchestrator handles one grounded chat turn end to end
type Orchestrator struct {
	documents     DocumentSource
	conversations ConversationStore
	embedder      Embedder
	chat          ChatModel
	assembler     *ContextAssembler
	retriever     *Retriever
	topK          int
}

// NewOrchestrator wires the orchestrator. topK <= 0 falls back to DefaultTopK.
func NewOrchestrator(documents DocumentSource, conversations ConversationStore, embedder Embedder, chat ChatModel, assembler *ContextAssembler, topK int) *Orchestrator {
	if topK <= 0 {
		topK = DefaultTopK
	}
	return &Orchestrator{
		documents:     documents,
		conversations: conversations,
		embedder:      embedder,
		chat:          chat,
		assembler:     assembler,
		retriever:     NewRetriever(),
		topK:          topK,
	}
}

// Answer runs one chat turn: resolve scope, retrieve evidence, call the
// model, and append both sides of the exchange to the conversation. A model
// failure propagates before anything is appended, so the turn can be retried
// without re-running ingestion.
func (o *Orchestrator) Answer(ctx context.Context, message, conversationID string, attachedDocumentIDs []string) (*models.ChatResult, error) {
	if strings.TrimSpace(message) == "" {
		return nil, fmt.Errorf("%w: message must not be empty", ErrInvalidArgument)
	}

	conv, err := o.loadOrCreateConversation(conversationID)
	if err != nil {
		return nil, err
	}

	query := models.RetrievalQuery{
		Message:                 message,
		AttachedDocumentIDs:     attachedDocumentIDs,
		ConversationDocumentIDs: conv.DocumentIDs,
	}

	scope := o.assembler.ResolveScope(query)
	candidates, err := o.assembler.BuildCandidates(scope)
	if err != nil {
		return nil, err
	}

	var ranked []models.RankedChunk
	if len(candidates) > 0 {
		queryVector, err := o.embedder.GenerateEmbedding(ctx, message)
		if err != nil {
			return nil, fmt.Errorf("embedding query: %w", err)
		}
		ranked, err = o.retriever.Retrieve(queryVector, candidates, o.topK)
		if err != nil {
			return nil, err
		}
	} else {
		log.Printf("chat turn for conversation %s has no candidate chunks, answering ungrounded", conv.ID)
	}

	history, err := o.conversations.GetMessages(conv.ID)
	if err != nil {
		return nil, fmt.Errorf("loading history for conversation %s: %w", conv.ID, err)
	}

	prompt := make([]models.Message, 0, len(history)+2)
	prompt = append(prompt, models.Message{Role: models.RoleSystem, Content: o.systemPrompt(ranked)})
	prompt = append(prompt, history...)
	prompt = append(prompt, models.Message{Role: models.RoleUser, Content: message})

	reply, err := o.chat.Complete(ctx, prompt)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrModelUnavailable, err)
	}

	now := time.Now()
	userMsg := models.Message{
		ID:             "msg_" + uuid.New().String(),
		ConversationID: conv.ID,
		Role:           models.RoleUser,
		Content:        message,
		CreatedAt:      now,
	}
	assistantMsg := models.Message{
		ID:             "msg_" + uuid.New().String(),
		ConversationID: conv.ID,
		Role:           models.RoleAssistant,
		Content:        reply,
		CreatedAt:      now,
	}
	if err := o.conversations.AppendMessage(userMsg); err != nil {
		return nil, fmt.Errorf("appending user message: %w", err)
	}
	if err := o.conversations.AppendMessage(assistantMsg); err != nil {
		return nil, fmt.Errorf("appending assistant message: %w", err)
	}

	used := make([]models.ChunkRef, 0, len(ranked))
	for _, rc := range ranked {
		used = append(used, models.ChunkRef{
			DocumentID: rc.Chunk.DocumentID,
			ChunkIndex: rc.Chunk.Index,
		})
	}

	return &models.ChatResult{
		Reply:          reply,
		ConversationID: conv.ID,
		UsedChunks:     used,
	}, nil
}

// loadOrCreateConversation resolves the conversation for this turn, creating
// one when the caller did not supply an ID or supplied an unknown one.
func (o *Orchestrator) loadOrCreateConversation(conversationID string) (*models.Conversation, error) {
	if conversationID == "" {
		conversationID = "conv_" + uuid.New().String()
	}

	conv, err := o.conversations.GetConversation(conversationID)
	if err != nil {
		return nil, fmt.Errorf("loading conversation %s: %w", conversationID, err)
	}
	if conv == nil {
		if err := o.conversations.CreateConversation(conversationID); err != nil {
			return nil, fmt.Errorf("creating conversation %s: %w", conversationID, err)
		}
		conv = &models.Conversation{ID: conversationID}
	}
	return conv, nil
}

// systemPrompt builds the grounding instruction, labelling each evidence
// excerpt with its document filename and chunk index for citation.
func (o *Orchestrator) systemPrompt(ranked []models.RankedChunk) string {
	if len(ranked) == 0 {
		return ungroundedSystemPrompt
	}

	var b strings.Builder
	b.WriteString(groundedSystemPrompt)
	b.WriteString("\n\nEvidence excerpts:\n")

	names := make(map[string]string)
	for _, rc := range ranked {
		name, ok := names[rc.Chunk.DocumentID]
		if !ok {
			name = rc.Chunk.DocumentID
			if doc, err := o.documents.GetDocument(rc.Chunk.DocumentID); err == nil && doc != nil {
				name = doc.Filename
			}
			names[rc.Chunk.DocumentID] = name
		}
		fmt.Fprintf(&b, "\n[%s #%d]\n%s\n", name, rc.Chunk.Index, rc.Chunk.Text)
	}
	return b.String()
}
