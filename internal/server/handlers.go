// ABOUTME: HTTP handlers for the document and chat endpoints
// ABOUTME: JSON responses throughout; errors use a single envelope shape
package server

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/lexhaven/docket/internal/core"
	"github.com/lexhaven/docket/internal/models"
)

// maxUploadBytes bounds the multipart body read into memory
const maxUploadBytes = 10 << 20

type uploadResponse struct {
	ID       string `json:"id"`
	Filename string `json:"filename"`
	Status   string `json:"status"`
}

type statusResponse struct {
	ID              string `json:"id"`
	Status          string `json:"status"`
	ProcessingError string `json:"processingError,omitempty"`
	ChunkCount      *int   `json:"chunkCount,omitempty"`
}

type chatRequest struct {
	Message        string   `json:"message"`
	ConversationID string   `json:"conversationId,omitempty"`
	DocumentIDs    []string `json:"documentIds"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// handleUploadDocument accepts a multipart upload, records the document in
// its initial status, and starts ingestion in the background. The response
// returns before processing; callers poll the status endpoint.
func (s *Server) handleUploadDocument(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		writeError(w, http.StatusBadRequest, "invalid multipart body")
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, "missing file field")
		return
	}
	defer func() { _ = file.Close() }()

	data, err := io.ReadAll(io.LimitReader(file, maxUploadBytes+1))
	if err != nil {
		writeError(w, http.StatusBadRequest, "failed to read file")
		return
	}
	if len(data) > maxUploadBytes {
		writeError(w, http.StatusRequestEntityTooLarge, "file exceeds upload limit")
		return
	}

	filename := filepath.Base(header.Filename)
	if filename == "" || filename == "." {
		filename = "upload.txt"
	}
	chatID := strings.TrimSpace(r.FormValue("chatId"))

	doc := &models.Document{
		ID:       "doc_" + uuid.New().String(),
		Filename: filename,
		ChatID:   chatID,
		Status:   models.StatusUploaded,
	}
	if err := s.store.CreateDocument(doc); err != nil {
		log.Printf("Error creating document record: %v", err)
		writeError(w, http.StatusInternalServerError, "failed to create document")
		return
	}

	if chatID != "" {
		if err := s.store.CreateConversation(chatID); err != nil {
			log.Printf("Error ensuring conversation %s: %v", chatID, err)
			writeError(w, http.StatusInternalServerError, "failed to link document to conversation")
			return
		}
		if err := s.store.AddDocumentToConversation(chatID, doc.ID); err != nil {
			log.Printf("Error linking document %s to conversation %s: %v", doc.ID, chatID, err)
			writeError(w, http.StatusInternalServerError, "failed to link document to conversation")
			return
		}
	}

	// Ingestion owns this document from here; progress is visible via GET.
	// The request context ends when the response is written, so the
	// background task gets its own.
	go func() {
		if err := s.ingestor.Process(context.Background(), doc.ID, doc.Filename, data); err != nil {
			log.Printf("Ingestion failed: %v", err)
		}
	}()

	writeJSON(w, http.StatusAccepted, uploadResponse{
		ID:       doc.ID,
		Filename: doc.Filename,
		Status:   string(models.StatusUploaded),
	})
}

// handleGetDocument reports ingestion progress. processingError appears only
// for failed documents; chunkCount only once processed.
func (s *Server) handleGetDocument(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	doc, err := s.store.GetDocument(id)
	if err != nil {
		log.Printf("Error loading document %s: %v", id, err)
		writeError(w, http.StatusInternalServerError, "failed to load document")
		return
	}
	if doc == nil {
		writeError(w, http.StatusNotFound, "document not found")
		return
	}

	resp := statusResponse{ID: doc.ID, Status: string(doc.Status)}
	if doc.Status == models.StatusFailed {
		resp.ProcessingError = doc.ProcessingError
	}
	if doc.Status == models.StatusProcessed {
		count := doc.ChunkCount
		resp.ChunkCount = &count
	}
	writeJSON(w, http.StatusOK, resp)
}

// handleDeleteDocument removes the document record; chunks and conversation
// links cascade with it, so later retrieval never sees this document again.
func (s *Server) handleDeleteDocument(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	doc, err := s.store.GetDocument(id)
	if err != nil {
		log.Printf("Error loading document %s: %v", id, err)
		writeError(w, http.StatusInternalServerError, "failed to load document")
		return
	}
	if doc == nil {
		writeError(w, http.StatusNotFound, "document not found")
		return
	}

	if err := s.store.DeleteDocument(id); err != nil {
		log.Printf("Error deleting document %s: %v", id, err)
		writeError(w, http.StatusInternalServerError, "failed to delete document")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// handleChat runs one grounded chat turn
func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	var req chatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	result, err := s.orchestrator.Answer(r.Context(), req.Message, req.ConversationID, req.DocumentIDs)
	if err != nil {
		switch {
		case errors.Is(err, core.ErrInvalidArgument):
			writeError(w, http.StatusBadRequest, err.Error())
		case errors.Is(err, core.ErrModelUnavailable):
			writeError(w, http.StatusBadGateway, "language model unavailable, retry the turn")
		default:
			log.Printf("Chat turn failed: %v", err)
			writeError(w, http.StatusInternalServerError, "chat turn failed")
		}
		return
	}

	writeJSON(w, http.StatusOK, result)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok", "time": time.Now().UTC().Format(time.RFC3339)})
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("Error encoding response: %v", err)
	}
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, errorResponse{Error: message})
}
