// ABOUTME: Ingest command uploads a local file into the document index
// ABOUTME: Processing runs in the background while the command polls for completion
package commands

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/lexhaven/docket/internal/models"
	"github.com/lexhaven/docket/internal/util"
)

// NewIngestCmd creates the ingest command
func NewIngestCmd() *cobra.Command {
	var chatID string

	cmd := &cobra.Command{
		Use:   "ingest <file>",
		Short: "Ingest a document into the index",
		Long: `Ingest a document into the index

Reads a plain-text file, chunks and embeds it, and stores the result
for retrieval. The command polls the document status on a fixed
interval while processing runs. A document still processing when the
attempt ceiling is reached is reported as such, not treated as failed.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runIngest(cmd, args[0], chatID)
		},
		Example: `  # Ingest a lease and wait for processing
  docket ingest lease.txt

  # Ingest into a conversation's document scope
  docket ingest lease.txt --chat conv_12345`,
	}

	cmd.Flags().StringVar(&chatID, "chat", "", "Conversation ID to add the document to")
	return cmd
}

func runIngest(cmd *cobra.Command, path, chatID string) error {
	a, err := newApp(true)
	if err != nil {
		return err
	}
	defer a.Close()

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", path, err)
	}

	doc := &models.Document{
		ID:       "doc_" + uuid.New().String(),
		Filename: filepath.Base(path),
		ChatID:   chatID,
		Status:   models.StatusUploaded,
	}
	if err := a.store.CreateDocument(doc); err != nil {
		return fmt.Errorf("failed to create document record: %w", err)
	}
	if chatID != "" {
		if err := a.store.CreateConversation(chatID); err != nil {
			return err
		}
		if err := a.store.AddDocumentToConversation(chatID, doc.ID); err != nil {
			return err
		}
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Uploaded %s as %s\n", doc.Filename, doc.ID)

	done := make(chan struct{})
	go func() {
		defer close(done)
		if err := a.ingestor.Process(context.Background(), doc.ID, doc.Filename, data); err != nil && verbose {
			log.Printf("Ingestion error: %v", err)
		}
	}()

	result := util.Poll(context.Background(), a.cfg.PollInterval, a.cfg.PollMaxAttempts, func(ctx context.Context) (bool, error) {
		current, err := a.store.GetDocument(doc.ID)
		if err != nil {
			return false, err
		}
		if current == nil {
			return false, fmt.Errorf("document %s disappeared during processing", doc.ID)
		}
		if current.Status == models.StatusFailed {
			return false, fmt.Errorf("processing failed: %s", current.ProcessingError)
		}
		return current.Status == models.StatusProcessed, nil
	})

	switch result.Outcome {
	case util.PollCompleted:
		current, err := a.store.GetDocument(doc.ID)
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "Processed %s: %d chunks indexed\n", doc.ID, current.ChunkCount)
		return nil
	case util.PollFailed:
		return result.Err
	default:
		// Soft timeout: processing continues in the background
		fmt.Fprintf(out, "Still processing after %d checks; see: docket status %s\n", result.Attempts, doc.ID)
		<-done
		return nil
	}
}
