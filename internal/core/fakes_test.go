// ABOUTME: In-memory fakes shared by the core package tests
// ABOUTME: Fake document store, conversation store, embedder, and chat model

package core

import (
	"context"
	"fmt"
	"sync"

	"github.com/lexhaven/docket/internal/models"
)

// fakeStore implements DocumentSource, IngestStore, and ConversationStore
type fakeStore struct {
	mu            sync.Mutex
	docs          map[string]*models.Document
	chunks        map[string][]models.Chunk
	conversations map[string]*models.Conversation
	messages      map[string][]models.Message
	statusLog     []string
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		docs:          make(map[string]*models.Document),
		chunks:        make(map[string][]models.Chunk),
		conversations: make(map[string]*models.Conversation),
		messages:      make(map[string][]models.Message),
	}
}

func (f *fakeStore) addDocument(id string, status models.DocumentStatus, chunks []models.Chunk) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.docs[id] = &models.Document{ID: id, Filename: id + ".txt", Status: status}
	f.chunks[id] = chunks
}

func (f *fakeStore) GetDocument(id string) (*models.Document, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	doc, ok := f.docs[id]
	if !ok {
		return nil, nil
	}
	copied := *doc
	return &copied, nil
}

func (f *fakeStore) GetChunksByDocument(documentID string) ([]models.Chunk, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.chunks[documentID], nil
}

func (f *fakeStore) UpdateDocumentStatus(id string, status models.DocumentStatus, processingError string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	doc, ok := f.docs[id]
	if !ok {
		doc = &models.Document{ID: id}
		f.docs[id] = doc
	}
	doc.Status = status
	doc.ProcessingError = processingError
	f.statusLog = append(f.statusLog, string(status))
	return nil
}

func (f *fakeStore) SaveChunks(documentID string, chunks []models.Chunk) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.chunks[documentID] = chunks
	if doc, ok := f.docs[documentID]; ok {
		doc.ChunkCount = len(chunks)
	}
	return nil
}

func (f *fakeStore) GetConversation(id string) (*models.Conversation, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	conv, ok := f.conversations[id]
	if !ok {
		return nil, nil
	}
	copied := *conv
	return &copied, nil
}

func (f *fakeStore) CreateConversation(id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.conversations[id] = &models.Conversation{ID: id}
	return nil
}

func (f *fakeStore) addConversation(id string, documentIDs ...string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.conversations[id] = &models.Conversation{ID: id, DocumentIDs: documentIDs}
}

func (f *fakeStore) GetMessages(conversationID string) ([]models.Message, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.messages[conversationID], nil
}

func (f *fakeStore) AppendMessage(msg models.Message) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.messages[msg.ConversationID] = append(f.messages[msg.ConversationID], msg)
	return nil
}

// fakeEmbedder returns deterministic vectors and can fail on chosen calls
type fakeEmbedder struct {
	dimension int
	failOn    map[int]error // 0-based call index → error
	calls     int
}

func newFakeEmbedder(dimension int) *fakeEmbedder {
	return &fakeEmbedder{dimension: dimension, failOn: make(map[int]error)}
}

func (e *fakeEmbedder) GenerateEmbedding(ctx context.Context, text string) ([]float64, error) {
	call := e.calls
	e.calls++
	if err, ok := e.failOn[call]; ok {
		return nil, err
	}
	// Deterministic pseudo-vector seeded by text length
	vec := make([]float64, e.dimension)
	for i := range vec {
		vec[i] = float64((len(text)+i)%7) + 0.5
	}
	return vec, nil
}

// fakeChat records the prompt it received and returns a canned reply
type fakeChat struct {
	reply    string
	err      error
	received []models.Message
}

func (c *fakeChat) Complete(ctx context.Context, messages []models.Message) (string, error) {
	c.received = messages
	if c.err != nil {
		return "", c.err
	}
	return c.reply, nil
}

// unitVector builds a normalized vector pointing along the given axis
func unitVector(dimension, axis int) []float64 {
	vec := make([]float64, dimension)
	vec[axis%dimension] = 1
	return vec
}

// chunkFor is a shorthand for building a candidate chunk in tests
func chunkFor(docID string, index int, embedding []float64) models.Chunk {
	return models.Chunk{
		DocumentID: docID,
		Index:      index,
		Text:       fmt.Sprintf("%s chunk %d", docID, index),
		Embedding:  embedding,
	}
}
