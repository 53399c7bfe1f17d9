// ABOUTME: Status command reports ingestion progress for documents
// ABOUTME: Lists all documents or shows one document's status and failure cause
package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/lexhaven/docket/internal/models"
)

// NewStatusCmd creates the status command
func NewStatusCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "status [document-id]",
		Short: "Show document ingestion status",
		Long: `Show document ingestion status

With a document ID, shows that document's status, chunk count, and
failure cause if processing failed. Without arguments, lists all
documents newest first.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 1 {
				return runStatusOne(cmd, args[0])
			}
			return runStatusList(cmd)
		},
		Example: `  # One document
  docket status doc_abc123

  # All documents
  docket status`,
	}

	return cmd
}

func runStatusOne(cmd *cobra.Command, id string) error {
	a, err := newApp(false)
	if err != nil {
		return err
	}
	defer a.Close()

	doc, err := a.store.GetDocument(id)
	if err != nil {
		return err
	}
	if doc == nil {
		return fmt.Errorf("document not found: %s", id)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "%s  %s\n", doc.ID, doc.Filename)
	fmt.Fprintf(out, "Status:  %s\n", doc.Status)
	if doc.Status == models.StatusProcessed {
		fmt.Fprintf(out, "Chunks:  %d\n", doc.ChunkCount)
	}
	if doc.Status == models.StatusFailed {
		fmt.Fprintf(out, "Error:   %s\n", doc.ProcessingError)
	}
	if verbose {
		fmt.Fprintf(out, "Created: %s\n", doc.CreatedAt.Format("2006-01-02 15:04:05"))
		fmt.Fprintf(out, "Updated: %s\n", doc.UpdatedAt.Format("2006-01-02 15:04:05"))
	}
	return nil
}

func runStatusList(cmd *cobra.Command) error {
	a, err := newApp(false)
	if err != nil {
		return err
	}
	defer a.Close()

	docs, err := a.store.ListDocuments()
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if len(docs) == 0 {
		fmt.Fprintln(out, "No documents ingested yet.")
		return nil
	}

	for _, doc := range docs {
		detail := ""
		switch doc.Status {
		case models.StatusProcessed:
			detail = fmt.Sprintf(" (%d chunks)", doc.ChunkCount)
		case models.StatusFailed:
			detail = fmt.Sprintf(" (%s)", truncate(doc.ProcessingError, 60))
		}
		fmt.Fprintf(out, "%-44s %-10s %s%s\n", doc.ID, doc.Status, doc.Filename, detail)
	}
	return nil
}
