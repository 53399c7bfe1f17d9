// ABOUTME: MCP command starts Model Context Protocol server
// ABOUTME: Enables LLM agents to search and ask questions of the document index via stdio
package commands

import (
	"context"
	"log"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/lexhaven/docket/internal/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"
)

// NewMCPCmd creates the MCP command
func NewMCPCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "mcp",
		Short: "Start MCP server for LLM agents",
		Long: `Start MCP server for LLM agents

Runs Docket as an MCP (Model Context Protocol) server, exposing
document search, ingestion status, and grounded chat over stdio.`,
		RunE: runMCP,
		Example: `  # Start MCP server (typically called by an MCP client)
  docket mcp

  # Configure in claude_desktop_config.json:
  # {
  #   "mcpServers": {
  #     "docket": {
  #       "command": "docket",
  #       "args": ["mcp"]
  #     }
  #   }
  # }`,
	}

	return cmd
}

// runMCP starts the MCP server
func runMCP(cmd *cobra.Command, args []string) error {
	a, err := newApp(true)
	if err != nil {
		return err
	}
	defer a.Close()

	server := mcpserver.NewMCPServer(
		"Docket Legal Document Assistant",
		versionInfo.Version,
	)

	mcp.RegisterTools(server, a.store, a.client, a.assembler, a.orchestrator, a.cfg.RetrievalTopK)

	// Start server in goroutine
	serverErr := make(chan error, 1)
	go func() {
		serverErr <- mcpserver.ServeStdio(server)
	}()

	// Wait for shutdown signal or server error
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	select {
	case err := <-serverErr:
		return err
	case <-ctx.Done():
		if !quiet {
			log.Println("Shutting down MCP server")
		}
		return nil
	}
}
