// ABOUTME: MCP tool definitions and registration for the Docket server
// ABOUTME: Exposes document search, status, and grounded chat over stdio
package mcp

import (
	"github.com/lexhaven/docket/internal/core"
	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"
)

// RegisterTools registers all MCP tools with the server
func RegisterTools(server *mcpserver.MCPServer, documents DocumentReader, embedder core.Embedder, assembler *core.ContextAssembler, orchestrator *core.Orchestrator, topK int) *Handlers {
	handlers := &Handlers{
		documents:    documents,
		embedder:     embedder,
		assembler:    assembler,
		retriever:    core.NewRetriever(),
		orchestrator: orchestrator,
		topK:         topK,
	}

	// 1. search_documents - semantic search over processed documents
	server.AddTool(mcp.Tool{
		Name:        "search_documents",
		Description: "Search the user's uploaded documents by semantic similarity. Returns the most relevant text excerpts with document and chunk identifiers for citation.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"query": map[string]interface{}{
					"type":        "string",
					"description": "Search query text",
				},
				"document_ids": map[string]interface{}{
					"type":        "array",
					"items":       map[string]interface{}{"type": "string"},
					"description": "Optional document IDs to restrict the search to. Empty searches all processed documents.",
				},
				"max_results": map[string]interface{}{
					"type":        "number",
					"description": "Maximum number of excerpts to return (default: 5)",
					"default":     5,
				},
			},
			Required: []string{"query"},
		},
	}, handlers.SearchDocuments)

	// 2. document_status - ingestion progress for one document
	server.AddTool(mcp.Tool{
		Name:        "document_status",
		Description: "Get the ingestion status of an uploaded document: uploaded, processing, processed, or failed (with the failure cause).",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"document_id": map[string]interface{}{
					"type":        "string",
					"description": "Document ID returned at upload",
				},
			},
			Required: []string{"document_id"},
		},
	}, handlers.DocumentStatus)

	// 3. ask - one grounded chat turn
	server.AddTool(mcp.Tool{
		Name:        "ask",
		Description: "Ask a question grounded in the user's documents. Replies cite the document excerpts used as evidence.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"message": map[string]interface{}{
					"type":        "string",
					"description": "The question to answer",
				},
				"conversation_id": map[string]interface{}{
					"type":        "string",
					"description": "Optional conversation to continue. A new one is created when omitted.",
				},
				"document_ids": map[string]interface{}{
					"type":        "array",
					"items":       map[string]interface{}{"type": "string"},
					"description": "Optional document IDs to attach to this turn. Attached documents replace the conversation's document scope for this turn.",
				},
			},
			Required: []string{"message"},
		},
	}, handlers.Ask)

	return handlers
}
