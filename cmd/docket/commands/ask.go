// ABOUTME: Ask command runs one grounded chat turn from the terminal
// ABOUTME: Prints the reply followed by its document citations
package commands

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

// NewAskCmd creates the ask command
func NewAskCmd() *cobra.Command {
	var conversationID string
	var documentIDs []string

	cmd := &cobra.Command{
		Use:   "ask <question>",
		Short: "Ask a question grounded in your documents",
		Long: `Ask a question grounded in your documents

Retrieves the most relevant excerpts from the documents in scope and
answers using only that evidence, citing the document and chunk each
claim came from. With no conversation or attachments the reply is
answered from general knowledge and marked as ungrounded.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAsk(cmd, strings.Join(args, " "), conversationID, documentIDs)
		},
		Example: `  # One-shot question against all conversation documents
  docket ask --chat conv_12345 "When is rent due?"

  # Restrict this turn to specific documents
  docket ask --doc doc_abc --doc doc_def "Compare the termination clauses"`,
	}

	cmd.Flags().StringVar(&conversationID, "chat", "", "Conversation ID to continue")
	cmd.Flags().StringArrayVar(&documentIDs, "doc", nil, "Document ID to attach to this turn (repeatable)")
	return cmd
}

func runAsk(cmd *cobra.Command, question, conversationID string, documentIDs []string) error {
	a, err := newApp(true)
	if err != nil {
		return err
	}
	defer a.Close()

	result, err := a.orchestrator.Answer(context.Background(), question, conversationID, documentIDs)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintln(out, result.Reply)

	if len(result.UsedChunks) > 0 && !quiet {
		fmt.Fprintln(out)
		fmt.Fprintln(out, "Sources:")
		for _, ref := range result.UsedChunks {
			fmt.Fprintf(out, "  %s (chunk %d)\n", ref.DocumentID, ref.ChunkIndex)
		}
	}
	if verbose {
		fmt.Fprintf(out, "\nConversation: %s\n", result.ConversationID)
	}
	return nil
}
