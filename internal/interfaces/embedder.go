package interfaces

import (
	"context"
)

// Embedder converts text into fixed-dimension embedding vectors.
// The capability may be entirely absent when no embedding backend could be
// initialized; callers must check availability rather than assume it.
type Embedder interface {
	// Embed generates an embedding vector for a single text
	Embed(ctx context.Context, text string) ([]float32, error)

	// EmbedBatch generates one vector per input text, order-preserving
	EmbedBatch(ctx context.Context, texts []string) ([][]float32, error)

	// Dimension returns the embedding vector dimension
	Dimension() int

	// ModelName returns the underlying model identifier
	ModelName() string
}
