package index

import (
	"context"
	"fmt"
	"math"
	"sort"
	"sync"
	"time"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/colloquy/internal/common"
	"github.com/ternarybob/colloquy/internal/interfaces"
	"github.com/ternarybob/colloquy/internal/models"
	"github.com/ternarybob/colloquy/internal/services/chunker"
	"github.com/ternarybob/colloquy/internal/storage/badger"
)

// Index is a brute-force cosine-similarity vector index. Entries live in
// memory for search and are mirrored to a badgerhold store for persistence
// across restarts. A persistence failure degrades the index to memory-only
// rather than taking retrieval down.
type Index struct {
	mu       sync.RWMutex
	entries  []models.IndexEntry
	embedder interfaces.Embedder
	splitter *chunker.Splitter
	storage  *badger.IndexStorage
	logger   arbor.ILogger
}

// LoadOrCreate opens the persisted index at cfg.Path, or creates a fresh one
// when none exists. A fresh index is seeded with the starter corpus when
// cfg.SeedOnCreate is set. The embedder is required: without one the index
// cannot embed queries and the caller should treat the capability as absent.
func LoadOrCreate(logger arbor.ILogger, cfg common.IndexConfig, embedder interfaces.Embedder, splitter *chunker.Splitter) (*Index, error) {
	if embedder == nil {
		return nil, fmt.Errorf("vector index requires an embedder")
	}

	existed := badger.IndexExists(cfg.Path)

	storage, err := badger.OpenIndexStorage(logger, cfg.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to open index storage: %w", err)
	}

	idx := &Index{
		embedder: embedder,
		splitter: splitter,
		storage:  storage,
		logger:   logger,
	}

	if existed {
		entries, err := storage.LoadAll()
		if err != nil {
			storage.Close()
			return nil, fmt.Errorf("failed to load persisted index: %w", err)
		}
		idx.entries = entries
		logger.Info().
			Str("path", cfg.Path).
			Int("entries", len(entries)).
			Msg("Loaded persisted vector index")
		return idx, nil
	}

	if cfg.SeedOnCreate {
		if err := idx.seed(context.Background()); err != nil {
			storage.Close()
			return nil, fmt.Errorf("failed to seed index: %w", err)
		}
		logger.Info().
			Str("path", cfg.Path).
			Int("entries", idx.Count()).
			Msg("Created and seeded vector index")
	} else {
		logger.Info().Str("path", cfg.Path).Msg("Created empty vector index")
	}

	return idx, nil
}

// seed chunks and embeds the starter corpus into a fresh index
func (idx *Index) seed(ctx context.Context) error {
	docs := make([]models.Document, 0, len(seedSentences))
	for _, text := range seedSentences {
		docs = append(docs, models.Document{
			ID:      common.NewDocumentID(),
			Content: text,
			Source:  "seed",
		})
	}
	return idx.Add(ctx, idx.splitter.Split(docs))
}

// SimilaritySearch embeds the query and returns up to k entries ordered by
// descending cosine similarity. k <= 0 or an empty index yields no results.
func (idx *Index) SimilaritySearch(ctx context.Context, query string, k int) ([]models.SearchResult, error) {
	if k <= 0 {
		return nil, nil
	}

	vector, err := idx.embedder.Embed(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to embed query: %w", err)
	}

	idx.mu.RLock()
	defer idx.mu.RUnlock()

	results := make([]models.SearchResult, 0, len(idx.entries))
	for _, entry := range idx.entries {
		results = append(results, models.SearchResult{
			Entry: entry,
			Score: CosineSimilarity(vector, entry.Vector),
		})
	}

	sort.Slice(results, func(i, j int) bool {
		return results[i].Score > results[j].Score
	})

	if len(results) > k {
		results = results[:k]
	}
	return results, nil
}

// Add embeds the chunks and inserts them into the index. The in-memory view
// is updated even when persistence fails; a persist failure is logged and
// the index continues memory-only for those entries.
func (idx *Index) Add(ctx context.Context, chunks []models.Chunk) error {
	if len(chunks) == 0 {
		return nil
	}

	texts := make([]string, len(chunks))
	for i, chunk := range chunks {
		texts[i] = chunk.Text
	}

	vectors, err := idx.embedder.EmbedBatch(ctx, texts)
	if err != nil {
		return fmt.Errorf("failed to embed chunks: %w", err)
	}
	if len(vectors) != len(chunks) {
		return fmt.Errorf("embedder returned %d vectors for %d chunks", len(vectors), len(chunks))
	}

	now := time.Now()
	entries := make([]models.IndexEntry, len(chunks))
	for i, chunk := range chunks {
		entries[i] = models.IndexEntry{
			ID:        common.NewIndexEntryID(),
			Text:      chunk.Text,
			Source:    chunk.DocumentID,
			Vector:    vectors[i],
			CreatedAt: now,
		}
	}

	idx.mu.Lock()
	idx.entries = append(idx.entries, entries...)
	idx.mu.Unlock()

	if err := idx.storage.AppendEntries(entries); err != nil {
		idx.logger.Warn().Err(err).Msg("Failed to persist index entries, continuing memory-only")
	}
	return nil
}

// Count returns the number of entries currently in the index
func (idx *Index) Count() int {
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	return len(idx.entries)
}

// Close releases the underlying store
func (idx *Index) Close() error {
	return idx.storage.Close()
}

// CosineSimilarity returns the cosine of the angle between two vectors.
// Mismatched lengths or a zero vector score 0.
func CosineSimilarity(a, b []float32) float32 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}
	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return float32(dot / (math.Sqrt(normA) * math.Sqrt(normB)))
}
