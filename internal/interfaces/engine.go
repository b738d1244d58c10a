package interfaces

import (
	"context"
)

// CapabilitySet records which optional capabilities the engine holds.
// Initialization failures downgrade the set instead of failing the engine.
type CapabilitySet struct {
	Embedder  bool `json:"embedder"`
	Index     bool `json:"index"`
	Generator bool `json:"generator"`
}

// QueryEngine turns a raw question into a grounded answer, degrading
// gracefully when optional capabilities are unavailable.
//
// Query never returns an error: every failure path ends in a fallback
// message that echoes the original question.
type QueryEngine interface {
	// Query answers a question using the richest available strategy
	Query(ctx context.Context, question string) string

	// AddDocuments chunks and inserts documents into the vector index.
	// Best-effort: errors are swallowed; the boolean reports success for
	// testability only.
	AddDocuments(ctx context.Context, documents []string) bool

	// Capabilities reports which capabilities are currently held
	Capabilities() CapabilitySet

	// IndexSize returns the number of entries in the vector index,
	// zero when the index capability is absent
	IndexSize() int
}
