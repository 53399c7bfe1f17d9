// ABOUTME: Context assembler resolving per-turn document scope into candidate chunks
// ABOUTME: Only processed documents contribute; in-flight and failed ones are skipped
package core

import (
	"fmt"

	"github.com/lexhaven/docket/internal/models"
)

// DefaultMaxCandidateChunks caps how many chunks may be scanned per turn
const DefaultMaxCandidateChunks = 2000

// DocumentSource is the read side of the document record store
type DocumentSource interface {
	// GetDocument returns nil without error when the document does not exist
	GetDocument(id string) (*models.Document, error)
	GetChunksByDocument(documentID string) ([]models.Chunk, error)
}

// ContextAssembler decides which documents supply evidence for a chat turn
type ContextAssembler struct {
	source        DocumentSource
	maxCandidates int
}

// NewContextAssembler creates a ContextAssembler backed by the given source
func NewContextAssembler(source DocumentSource, maxCandidates int) *ContextAssembler {
	if maxCandidates <= 0 {
		maxCandidates = DefaultMaxCandidateChunks
	}
	return &ContextAssembler{
		source:        source,
		maxCandidates: maxCandidates,
	}
}

// ResolveScope returns the document IDs eligible for retrieval this turn.
// Explicit attachment overrides the conversation's implicit documents
// entirely; this is deliberate policy, not a default-merge heuristic.
func (a *ContextAssembler) ResolveScope(query models.RetrievalQuery) []string {
	return query.Scope()
}

// BuildCandidates flattens the chunks of every processed document in scope,
// in scope order then chunk order. Documents that are still processing, have
// failed, or were deleted are skipped silently; they are not errors, they
// simply contribute no evidence. The candidate set is capped at
// maxCandidates to bound the per-turn scan.
func (a *ContextAssembler) BuildCandidates(scope []string) ([]models.Chunk, error) {
	candidates := []models.Chunk{}
	for _, id := range scope {
		doc, err := a.source.GetDocument(id)
		if err != nil {
			return nil, fmt.Errorf("loading document %s: %w", id, err)
		}
		if doc == nil || doc.Status != models.StatusProcessed {
			continue
		}

		chunks, err := a.source.GetChunksByDocument(id)
		if err != nil {
			return nil, fmt.Errorf("loading chunks for document %s: %w", id, err)
		}

		for _, chunk := range chunks {
			if len(candidates) >= a.maxCandidates {
				return candidates, nil
			}
			candidates = append(candidates, chunk)
		}
	}
	return candidates, nil
}
