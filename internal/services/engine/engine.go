package engine

import (
	"context"
	"fmt"
	"sync"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/colloquy/internal/common"
	"github.com/ternarybob/colloquy/internal/interfaces"
	"github.com/ternarybob/colloquy/internal/models"
	"github.com/ternarybob/colloquy/internal/services/chunker"
)

// Bootstrap acquires the engine's optional capabilities. Each returned
// handle may be nil when that capability could not be initialized; only a
// non-nil error marks the whole bootstrap as failed and worth retrying.
type Bootstrap func(ctx context.Context) (interfaces.Embedder, interfaces.VectorIndex, interfaces.Generator, error)

// Engine answers questions against the vector index, degrading through a
// ladder of strategies as capabilities are missing. Initialization is lazy
// and re-entrant: a failed bootstrap is retried on the next call instead of
// wedging the engine permanently.
type Engine struct {
	logger    arbor.ILogger
	ragConfig common.RAGConfig
	splitter  *chunker.Splitter
	bootstrap Bootstrap

	mu          sync.Mutex
	initialized bool
	embedder    interfaces.Embedder
	index       interfaces.VectorIndex
	generator   interfaces.Generator
}

// New creates an Engine. Capabilities are acquired on first use via the
// bootstrap function, not here, so construction never fails.
func New(logger arbor.ILogger, ragConfig common.RAGConfig, splitter *chunker.Splitter, bootstrap Bootstrap) *Engine {
	return &Engine{
		logger:    logger,
		ragConfig: ragConfig,
		splitter:  splitter,
		bootstrap: bootstrap,
	}
}

// ensureInitialized runs the bootstrap once. Subsequent calls after a
// success are no-ops; after a failure the bootstrap is retried.
func (e *Engine) ensureInitialized(ctx context.Context) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.initialized {
		return nil
	}

	embedder, index, generator, err := e.bootstrap(ctx)
	if err != nil {
		e.logger.Warn().Err(err).Msg("Engine initialization deferred")
		return err
	}

	e.embedder = embedder
	e.index = index
	e.generator = generator
	e.initialized = true

	e.logger.Info().
		Bool("embedder", embedder != nil).
		Bool("index", index != nil).
		Bool("generator", generator != nil).
		Msg("Engine initialized")
	return nil
}

// Warm attempts capability acquisition eagerly. Failures are tolerated;
// the next Query retries.
func (e *Engine) Warm(ctx context.Context) {
	_ = e.ensureInitialized(ctx)
}

// Query answers a question using the richest strategy the current
// capabilities allow. It never returns an error: every failure path ends in
// a fallback message that echoes the original question.
func (e *Engine) Query(ctx context.Context, question string) string {
	if err := e.ensureInitialized(ctx); err != nil {
		return initFailureMessage(question, err)
	}

	e.mu.Lock()
	index := e.index
	generator := e.generator
	e.mu.Unlock()

	// Generation grounded in retrieved context. Any failure falls through
	// to retrieval-only answering.
	if generator != nil && index != nil {
		answer, err := e.generateGrounded(ctx, index, generator, question)
		if err == nil {
			return answer
		}
		e.logger.Warn().Err(err).Msg("Generation failed, falling back to retrieval")
	}

	// Retrieval-only answering.
	if index != nil {
		results, err := index.SimilaritySearch(ctx, question, e.ragConfig.TopK)
		if err != nil {
			e.logger.Warn().Err(err).Msg("Retrieval failed")
			return retrievalErrorMessage(question, err)
		}
		if len(results) > 0 {
			return synthesizeAnswer(results, e.ragConfig.ContextLimit)
		}
		return noResultsMessage(question)
	}

	return initializingMessage(question)
}

// generateGrounded retrieves context for the question and asks the
// generator for an answer grounded in it.
func (e *Engine) generateGrounded(ctx context.Context, index interfaces.VectorIndex, generator interfaces.Generator, question string) (string, error) {
	results, err := index.SimilaritySearch(ctx, question, e.ragConfig.TopK)
	if err != nil {
		return "", fmt.Errorf("retrieval for generation failed: %w", err)
	}

	contexts := make([]string, 0, len(results))
	for _, result := range results {
		contexts = append(contexts, result.Entry.Text)
	}

	answer, err := generator.Generate(ctx, question, contexts)
	if err != nil {
		return "", err
	}
	return answer, nil
}

// AddDocuments chunks and inserts the documents into the index.
// Best-effort: a missing index or an insertion failure is logged and
// reported as false, never surfaced as an error. Empty input is a no-op.
func (e *Engine) AddDocuments(ctx context.Context, documents []string) bool {
	if len(documents) == 0 {
		return true
	}

	if err := e.ensureInitialized(ctx); err != nil {
		return false
	}

	e.mu.Lock()
	index := e.index
	e.mu.Unlock()

	if index == nil {
		e.logger.Warn().Msg("Cannot ingest documents, vector index unavailable")
		return false
	}

	docs := make([]models.Document, 0, len(documents))
	for _, content := range documents {
		docs = append(docs, models.Document{
			ID:      common.NewDocumentID(),
			Content: content,
		})
	}

	chunks := e.splitter.Split(docs)
	if err := index.Add(ctx, chunks); err != nil {
		e.logger.Warn().Err(err).Int("documents", len(documents)).Msg("Document ingestion failed")
		return false
	}

	e.logger.Info().
		Int("documents", len(documents)).
		Int("chunks", len(chunks)).
		Int("index_size", index.Count()).
		Msg("Documents ingested")
	return true
}

// Capabilities reports which optional capabilities the engine currently
// holds. An engine that has not yet initialized successfully reports all
// capabilities absent.
func (e *Engine) Capabilities() interfaces.CapabilitySet {
	e.mu.Lock()
	defer e.mu.Unlock()
	return interfaces.CapabilitySet{
		Embedder:  e.embedder != nil,
		Index:     e.index != nil,
		Generator: e.generator != nil,
	}
}

// IndexSize returns the number of entries in the vector index, zero when
// the index capability is absent
func (e *Engine) IndexSize() int {
	e.mu.Lock()
	index := e.index
	e.mu.Unlock()
	if index == nil {
		return 0
	}
	return index.Count()
}

// Close releases the vector index store if one was acquired
func (e *Engine) Close() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.index != nil {
		return e.index.Close()
	}
	return nil
}
