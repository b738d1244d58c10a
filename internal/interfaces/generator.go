package interfaces

import (
	"context"
)

// Generator produces a natural-language answer from a question and retrieved
// context. The capability is optional; no generation backend is wired up by
// default, and any error during generation is treated by callers as
// "generator unavailable for this call".
type Generator interface {
	// Generate produces an answer grounded in the supplied context chunks
	Generate(ctx context.Context, question string, context []string) (string, error)
}
