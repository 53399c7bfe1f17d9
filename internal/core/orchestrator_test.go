// ABOUTME: Tests for the chat orchestrator
// ABOUTME: Verifies grounding, scope policy end to end, history growth, and model failure

package core

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/lexhaven/docket/internal/models"
)

func newTestOrchestrator(store *fakeStore, embedder Embedder, chat ChatModel, topK int) *Orchestrator {
	assembler := NewContextAssembler(store, 0)
	return NewOrchestrator(store, store, embedder, chat, assembler, topK)
}

func TestAnswer_GroundedReplyWithCitations(t *testing.T) {
	store := newFakeStore()
	store.addDocument("doc_lease", models.StatusProcessed, []models.Chunk{
		chunkFor("doc_lease", 0, unitVector(4, 0)),
		chunkFor("doc_lease", 1, unitVector(4, 1)),
	})
	store.addConversation("conv_1", "doc_lease")

	chat := &fakeChat{reply: "The lease requires written consent. [doc_lease.txt #0]"}
	o := newTestOrchestrator(store, newFakeEmbedder(4), chat, 2)

	result, err := o.Answer(context.Background(), "Can the tenant sublet?", "conv_1", nil)
	if err != nil {
		t.Fatalf("Answer() error = %v", err)
	}

	if result.ConversationID != "conv_1" {
		t.Errorf("ConversationID = %s, want conv_1", result.ConversationID)
	}
	if result.Reply == "" {
		t.Error("reply is empty")
	}
	if len(result.UsedChunks) != 2 {
		t.Fatalf("got %d used chunks, want 2", len(result.UsedChunks))
	}
	for _, ref := range result.UsedChunks {
		if ref.DocumentID != "doc_lease" {
			t.Errorf("citation points at %s, want doc_lease", ref.DocumentID)
		}
	}

	// The model must have seen the evidence, labelled by filename
	system := chat.received[0]
	if system.Role != models.RoleSystem {
		t.Fatalf("first prompt message role = %s, want system", system.Role)
	}
	if !strings.Contains(system.Content, "doc_lease.txt #0") {
		t.Error("system prompt does not cite the evidence by filename and chunk index")
	}
	if !strings.Contains(system.Content, "ONLY the evidence") {
		t.Error("system prompt does not instruct evidence-only answering")
	}
}

func TestAnswer_ExplicitAttachmentRestrictsRetrieval(t *testing.T) {
	store := newFakeStore()
	for _, id := range []string{"doc_a", "doc_b", "doc_c", "doc_d"} {
		store.addDocument(id, models.StatusProcessed, []models.Chunk{
			chunkFor(id, 0, unitVector(4, 0)),
		})
	}
	// Conversation already has three processed documents
	store.addConversation("conv_1", "doc_a", "doc_b", "doc_c")

	chat := &fakeChat{reply: "answer"}
	o := newTestOrchestrator(store, newFakeEmbedder(4), chat, 10)

	// Attaching doc_d must restrict retrieval to doc_d alone, never a union
	result, err := o.Answer(context.Background(), "What does this filing say?", "conv_1", []string{"doc_d"})
	if err != nil {
		t.Fatalf("Answer() error = %v", err)
	}

	if len(result.UsedChunks) != 1 {
		t.Fatalf("got %d used chunks, want 1", len(result.UsedChunks))
	}
	if result.UsedChunks[0].DocumentID != "doc_d" {
		t.Errorf("evidence from %s, want only doc_d", result.UsedChunks[0].DocumentID)
	}
}

func TestAnswer_ImplicitScopeSpansAllConversationDocuments(t *testing.T) {
	store := newFakeStore()
	store.addDocument("doc_a", models.StatusProcessed, []models.Chunk{
		chunkFor("doc_a", 0, unitVector(4, 0)),
	})
	store.addDocument("doc_b", models.StatusProcessed, []models.Chunk{
		chunkFor("doc_b", 0, unitVector(4, 0)),
	})
	store.addConversation("conv_1", "doc_a", "doc_b")

	chat := &fakeChat{reply: "answer"}
	o := newTestOrchestrator(store, newFakeEmbedder(4), chat, 10)

	result, err := o.Answer(context.Background(), "Summarize my documents.", "conv_1", nil)
	if err != nil {
		t.Fatalf("Answer() error = %v", err)
	}

	docs := make(map[string]bool)
	for _, ref := range result.UsedChunks {
		docs[ref.DocumentID] = true
	}
	if !docs["doc_a"] || !docs["doc_b"] {
		t.Errorf("used chunks cover %v, want both doc_a and doc_b", docs)
	}
}

func TestAnswer_EmptyScopeAnswersUngrounded(t *testing.T) {
	store := newFakeStore()
	embedder := newFakeEmbedder(4)
	chat := &fakeChat{reply: "I don't have any of your documents to draw on."}
	o := newTestOrchestrator(store, embedder, chat, 5)

	result, err := o.Answer(context.Background(), "What is a tort?", "", nil)
	if err != nil {
		t.Fatalf("Answer() error = %v", err)
	}

	if len(result.UsedChunks) != 0 {
		t.Errorf("got %d used chunks, want 0", len(result.UsedChunks))
	}
	if result.ConversationID == "" {
		t.Error("a new conversation ID should have been assigned")
	}
	if embedder.calls != 0 {
		t.Errorf("embedder called %d times with no candidates, want 0", embedder.calls)
	}
	if !strings.Contains(chat.received[0].Content, "not grounded") {
		t.Error("ungrounded system prompt should say replies are not grounded in documents")
	}
}

func TestAnswer_AppendsBothSidesToHistory(t *testing.T) {
	store := newFakeStore()
	store.addConversation("conv_1")

	chat := &fakeChat{reply: "Certainly."}
	o := newTestOrchestrator(store, newFakeEmbedder(4), chat, 5)

	if _, err := o.Answer(context.Background(), "Hello?", "conv_1", nil); err != nil {
		t.Fatalf("Answer() error = %v", err)
	}

	msgs, _ := store.GetMessages("conv_1")
	if len(msgs) != 2 {
		t.Fatalf("history has %d messages, want 2", len(msgs))
	}
	if msgs[0].Role != models.RoleUser || msgs[0].Content != "Hello?" {
		t.Errorf("first message = (%s, %q), want user question", msgs[0].Role, msgs[0].Content)
	}
	if msgs[1].Role != models.RoleAssistant || msgs[1].Content != "Certainly." {
		t.Errorf("second message = (%s, %q), want assistant reply", msgs[1].Role, msgs[1].Content)
	}

	// Second turn sees the first turn's history in the prompt
	if _, err := o.Answer(context.Background(), "And again?", "conv_1", nil); err != nil {
		t.Fatalf("Answer() error = %v", err)
	}
	var contents []string
	for _, m := range chat.received {
		contents = append(contents, m.Content)
	}
	joined := strings.Join(contents, "\n")
	if !strings.Contains(joined, "Hello?") || !strings.Contains(joined, "Certainly.") {
		t.Error("second turn's prompt is missing the first turn's history")
	}

	msgs, _ = store.GetMessages("conv_1")
	if len(msgs) != 4 {
		t.Errorf("history has %d messages after two turns, want 4", len(msgs))
	}
}

func TestAnswer_ModelFailurePropagatesAndPersistsNothing(t *testing.T) {
	store := newFakeStore()
	store.addConversation("conv_1")

	chat := &fakeChat{err: errors.New("upstream timeout")}
	o := newTestOrchestrator(store, newFakeEmbedder(4), chat, 5)

	_, err := o.Answer(context.Background(), "Hello?", "conv_1", nil)
	if !errors.Is(err, ErrModelUnavailable) {
		t.Fatalf("error = %v, want ErrModelUnavailable", err)
	}

	// Nothing appended: the turn is retryable without losing state
	msgs, _ := store.GetMessages("conv_1")
	if len(msgs) != 0 {
		t.Errorf("history has %d messages after failure, want 0", len(msgs))
	}
}

func TestAnswer_EmptyMessageIsInvalid(t *testing.T) {
	o := newTestOrchestrator(newFakeStore(), newFakeEmbedder(4), &fakeChat{reply: "x"}, 5)

	for _, msg := range []string{"", "   ", "\n\t"} {
		_, err := o.Answer(context.Background(), msg, "", nil)
		if !errors.Is(err, ErrInvalidArgument) {
			t.Errorf("message %q: error = %v, want ErrInvalidArgument", msg, err)
		}
	}
}

func TestAnswer_UnknownConversationIsCreated(t *testing.T) {
	store := newFakeStore()
	chat := &fakeChat{reply: "done"}
	o := newTestOrchestrator(store, newFakeEmbedder(4), chat, 5)

	result, err := o.Answer(context.Background(), "Start fresh.", "conv_new", nil)
	if err != nil {
		t.Fatalf("Answer() error = %v", err)
	}
	if result.ConversationID != "conv_new" {
		t.Errorf("ConversationID = %s, want conv_new", result.ConversationID)
	}

	conv, _ := store.GetConversation("conv_new")
	if conv == nil {
		t.Fatal("conversation was not created")
	}
}
