package interfaces

import (
	"context"

	"github.com/ternarybob/colloquy/internal/models"
)

// VectorIndex stores (vector, text, metadata) entries and supports
// nearest-neighbor similarity search and incremental insertion.
// Implementations provide their own internal concurrency safety: concurrent
// Add and SimilaritySearch calls must not corrupt index state.
type VectorIndex interface {
	// SimilaritySearch returns up to k entries ordered by descending
	// similarity to the query under the implementation's metric.
	SimilaritySearch(ctx context.Context, query string, k int) ([]models.SearchResult, error)

	// Add embeds and inserts new chunks into the index
	Add(ctx context.Context, chunks []models.Chunk) error

	// Count returns the number of entries currently in the index
	Count() int

	// Close releases the underlying store
	Close() error
}
