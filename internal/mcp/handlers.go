// ABOUTME: MCP tool handler implementations for the Docket server
// ABOUTME: Search and chat run the same pipeline the HTTP API uses
package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/lexhaven/docket/internal/core"
	"github.com/lexhaven/docket/internal/models"
	"github.com/mark3labs/mcp-go/mcp"
)

// DocumentReader is the read side of the document store the MCP tools need
type DocumentReader interface {
	GetDocument(id string) (*models.Document, error)
	ListDocuments() ([]models.Document, error)
}

// Handlers contains the handler functions for all MCP tools
type Handlers struct {
	documents    DocumentReader
	embedder     core.Embedder
	assembler    *core.ContextAssembler
	retriever    *core.Retriever
	orchestrator *core.Orchestrator
	topK         int
}

// SearchDocuments handles the search_documents tool
func (h *Handlers) SearchDocuments(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	query, err := request.RequireString("query")
	if err != nil {
		return mcp.NewToolResultError("query argument is required and must be a string"), nil
	}

	maxResults := request.GetInt("max_results", h.topK)
	scope := stringSliceArg(request, "document_ids")

	// No explicit scope searches every processed document
	if len(scope) == 0 {
		docs, err := h.documents.ListDocuments()
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("failed to list documents: %v", err)), nil
		}
		for _, doc := range docs {
			if doc.Status == models.StatusProcessed {
				scope = append(scope, doc.ID)
			}
		}
	}

	candidates, err := h.assembler.BuildCandidates(scope)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to load candidate chunks: %v", err)), nil
	}
	if len(candidates) == 0 {
		return jsonResult(map[string]interface{}{"results": []interface{}{}})
	}

	queryVector, err := h.embedder.GenerateEmbedding(ctx, query)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to embed query: %v", err)), nil
	}

	ranked, err := h.retriever.Retrieve(queryVector, candidates, maxResults)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("retrieval failed: %v", err)), nil
	}

	results := make([]map[string]interface{}, 0, len(ranked))
	for _, rc := range ranked {
		entry := map[string]interface{}{
			"document_id": rc.Chunk.DocumentID,
			"chunk_index": rc.Chunk.Index,
			"similarity":  rc.Similarity,
			"text":        rc.Chunk.Text,
		}
		if doc, err := h.documents.GetDocument(rc.Chunk.DocumentID); err == nil && doc != nil {
			entry["filename"] = doc.Filename
		}
		results = append(results, entry)
	}

	return jsonResult(map[string]interface{}{"results": results})
}

// DocumentStatus handles the document_status tool
func (h *Handlers) DocumentStatus(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	documentID, err := request.RequireString("document_id")
	if err != nil {
		return mcp.NewToolResultError("document_id argument is required and must be a string"), nil
	}

	doc, err := h.documents.GetDocument(documentID)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to load document: %v", err)), nil
	}
	if doc == nil {
		return mcp.NewToolResultError(fmt.Sprintf("document not found: %s", documentID)), nil
	}

	response := map[string]interface{}{
		"id":       doc.ID,
		"filename": doc.Filename,
		"status":   string(doc.Status),
	}
	if doc.Status == models.StatusFailed {
		response["processing_error"] = doc.ProcessingError
	}
	if doc.Status == models.StatusProcessed {
		response["chunk_count"] = doc.ChunkCount
	}

	return jsonResult(response)
}

// Ask handles the ask tool
func (h *Handlers) Ask(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	message, err := request.RequireString("message")
	if err != nil {
		return mcp.NewToolResultError("message argument is required and must be a string"), nil
	}

	conversationID := request.GetString("conversation_id", "")
	documentIDs := stringSliceArg(request, "document_ids")

	result, err := h.orchestrator.Answer(ctx, message, conversationID, documentIDs)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("chat turn failed: %v", err)), nil
	}

	citations := make([]map[string]interface{}, 0, len(result.UsedChunks))
	for _, ref := range result.UsedChunks {
		citations = append(citations, map[string]interface{}{
			"document_id": ref.DocumentID,
			"chunk_index": ref.ChunkIndex,
		})
	}

	return jsonResult(map[string]interface{}{
		"reply":           result.Reply,
		"conversation_id": result.ConversationID,
		"used_chunks":     citations,
	})
}

// stringSliceArg reads an optional string-array argument
func stringSliceArg(request mcp.CallToolRequest, key string) []string {
	args, ok := request.Params.Arguments.(map[string]any)
	if !ok {
		return nil
	}
	raw, exists := args[key]
	if !exists {
		return nil
	}
	items, ok := raw.([]interface{})
	if !ok {
		return nil
	}
	var values []string
	for _, item := range items {
		if s, ok := item.(string); ok {
			values = append(values, s)
		}
	}
	return values
}

func jsonResult(response map[string]interface{}) (*mcp.CallToolResult, error) {
	responseJSON, err := json.Marshal(response)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to marshal response: %v", err)), nil
	}
	return mcp.NewToolResultText(string(responseJSON)), nil
}
