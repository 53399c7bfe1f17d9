// ABOUTME: HTTP server exposing document upload, status, deletion, and chat
// ABOUTME: Upload kicks off background ingestion; status is the polling surface
package server

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/lexhaven/docket/internal/core"
	"github.com/lexhaven/docket/internal/models"
)

// DocumentStore is everything the HTTP surface needs from persistence
type DocumentStore interface {
	CreateDocument(doc *models.Document) error
	GetDocument(id string) (*models.Document, error)
	DeleteDocument(id string) error
	// CreateConversation is a no-op when the conversation already exists
	CreateConversation(id string) error
	AddDocumentToConversation(conversationID, documentID string) error
}

// Server routes API requests to the ingestion pipeline and the orchestrator
type Server struct {
	store        DocumentStore
	ingestor     *core.Ingestor
	orchestrator *core.Orchestrator
	httpServer   *http.Server
}

// New creates a Server listening on addr
func New(addr string, store DocumentStore, ingestor *core.Ingestor, orchestrator *core.Orchestrator) *Server {
	s := &Server{
		store:        store,
		ingestor:     ingestor,
		orchestrator: orchestrator,
	}

	mux := http.NewServeMux()
	mux.HandleFunc("POST /documents", s.handleUploadDocument)
	mux.HandleFunc("GET /documents/{id}", s.handleGetDocument)
	mux.HandleFunc("DELETE /documents/{id}", s.handleDeleteDocument)
	mux.HandleFunc("POST /chat", s.handleChat)
	mux.HandleFunc("GET /healthz", s.handleHealth)

	s.httpServer = &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}
	return s
}

// Handler exposes the routing mux (for tests)
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler
}

// ListenAndServe runs the server until ctx is cancelled, then drains
// in-flight requests before returning.
func (s *Server) ListenAndServe(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		log.Printf("Docket API listening on %s", s.httpServer.Addr)
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}
	return nil
}
