// ABOUTME: Root CLI command with global flags and subcommand registration
// ABOUTME: docket is a legal-document assistant with grounded, cited answers
package commands

import (
	"github.com/spf13/cobra"
)

var (
	verbose bool
	quiet   bool
)

// NewRootCmd creates the root command with all subcommands
func NewRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "docket",
		Short: "Legal-document assistant with grounded, cited answers",
		Long: `Docket ingests legal documents, indexes them for semantic search,
and answers questions grounded in the documents' actual text.

Uploaded documents are chunked, embedded, and stored locally. Questions
retrieve the most relevant excerpts and every reply cites the document
and chunk each claim came from.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output")
	rootCmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "Suppress non-essential output")
	rootCmd.MarkFlagsMutuallyExclusive("verbose", "quiet")

	rootCmd.AddCommand(
		NewServeCmd(),
		NewMCPCmd(),
		NewIngestCmd(),
		NewAskCmd(),
		NewStatusCmd(),
		NewVersionCmd(),
	)

	return rootCmd
}

// Execute runs the root command
func Execute() error {
	return NewRootCmd().Execute()
}
