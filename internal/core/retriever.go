// ABOUTME: Similarity retriever ranking candidate chunks by cosine similarity
// ABOUTME: Linear scan with a deterministic tie-break, correctness-first at this scale
package core

import (
	"fmt"
	"math"
	"sort"

	"github.com/lexhaven/docket/internal/models"
)

// DefaultTopK is the default number of chunks returned per retrieval
const DefaultTopK = 5

// Retriever ranks candidate chunks against a query vector
type Retriever struct{}

// NewRetriever creates a new Retriever instance
func NewRetriever() *Retriever {
	return &Retriever{}
}

// Retrieve scores every candidate against queryVector and returns the topK
// best matches, sorted by descending similarity. Ties are broken by ascending
// (documentID, chunkIndex) so identical inputs always rank identically.
//
// An empty candidate set returns an empty result, not an error: retrieval
// with no evidence is a valid state and the caller answers ungrounded. A
// candidate whose vector length differs from the query's is a
// DimensionMismatchError; no partial ranking is returned.
func (r *Retriever) Retrieve(queryVector []float64, candidates []models.Chunk, topK int) ([]models.RankedChunk, error) {
	if topK <= 0 {
		return nil, fmt.Errorf("%w: topK must be positive, got %d", ErrInvalidArgument, topK)
	}
	if len(candidates) == 0 {
		return []models.RankedChunk{}, nil
	}

	ranked := make([]models.RankedChunk, 0, len(candidates))
	for _, chunk := range candidates {
		if len(chunk.Embedding) != len(queryVector) {
			return nil, &DimensionMismatchError{
				Want:       len(queryVector),
				Got:        len(chunk.Embedding),
				DocumentID: chunk.DocumentID,
				ChunkIndex: chunk.Index,
			}
		}
		ranked = append(ranked, models.RankedChunk{
			Chunk:      chunk,
			Similarity: cosineSimilarity(queryVector, chunk.Embedding),
		})
	}

	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].Similarity != ranked[j].Similarity {
			return ranked[i].Similarity > ranked[j].Similarity
		}
		if ranked[i].Chunk.DocumentID != ranked[j].Chunk.DocumentID {
			return ranked[i].Chunk.DocumentID < ranked[j].Chunk.DocumentID
		}
		return ranked[i].Chunk.Index < ranked[j].Chunk.Index
	})

	if len(ranked) > topK {
		ranked = ranked[:topK]
	}
	return ranked, nil
}

// cosineSimilarity calculates cosine similarity between two vectors
func cosineSimilarity(a, b []float64) float64 {
	var dotProduct, normA, normB float64
	for i := range a {
		dotProduct += a[i] * b[i]
		normA += a[i] * a[i]
		normB += b[i] * b[i]
	}

	if normA == 0 || normB == 0 {
		return 0.0
	}

	return dotProduct / (math.Sqrt(normA) * math.Sqrt(normB))
}
