// ABOUTME: Serve command runs the HTTP API
// ABOUTME: Handles upload, status polling, deletion, and chat until interrupted
package commands

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/lexhaven/docket/internal/server"
)

// NewServeCmd creates the serve command
func NewServeCmd() *cobra.Command {
	var listenAddr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the Docket HTTP API",
		Long: `Start the Docket HTTP API

Serves document upload, ingestion status, deletion, and grounded chat.
Uploads are processed in the background; clients poll the status
endpoint until the document is processed or failed.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(listenAddr)
		},
		Example: `  # Listen on the default address (:8080)
  docket serve

  # Listen on a specific address
  docket serve --listen 127.0.0.1:9000`,
	}

	cmd.Flags().StringVar(&listenAddr, "listen", "", "Listen address (default from DOCKET_LISTEN_ADDR)")
	return cmd
}

func runServe(listenAddr string) error {
	a, err := newApp(true)
	if err != nil {
		return err
	}
	defer a.Close()

	if listenAddr == "" {
		listenAddr = a.cfg.ListenAddr
	}

	srv := server.New(listenAddr, a.store, a.ingestor, a.orchestrator)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := srv.ListenAndServe(ctx); err != nil {
		return fmt.Errorf("server error: %w", err)
	}
	return nil
}
