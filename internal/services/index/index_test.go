package index

import (
	"context"
	"hash/fnv"
	"math"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/colloquy/internal/common"
	"github.com/ternarybob/colloquy/internal/interfaces"
	"github.com/ternarybob/colloquy/internal/models"
	"github.com/ternarybob/colloquy/internal/services/chunker"
	"github.com/ternarybob/colloquy/internal/services/engine"
	"github.com/ternarybob/colloquy/internal/storage/badger"
)

// stubEmbedder returns canned vectors for known texts and a deterministic
// bag-of-words hash vector for everything else.
type stubEmbedder struct {
	vectors    map[string][]float32
	embedCalls int
}

func (e *stubEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	e.embedCalls++
	if v, ok := e.vectors[text]; ok {
		return v, nil
	}
	return hashVector(text), nil
}

func (e *stubEmbedder) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	out := make([][]float32, len(texts))
	for i, text := range texts {
		v, err := e.Embed(ctx, text)
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}

func (e *stubEmbedder) Dimension() int { return 8 }

func (e *stubEmbedder) ModelName() string { return "stub-embedder" }

func hashVector(text string) []float32 {
	v := make([]float32, 8)
	h := fnv.New32a()
	h.Write([]byte(text))
	v[h.Sum32()%8] = 1
	return v
}

func newTestIndex(t *testing.T, seed bool, embedder *stubEmbedder) (*Index, string) {
	t.Helper()
	dir := filepath.Join(t.TempDir(), "index")
	cfg := common.IndexConfig{Path: dir, SeedOnCreate: seed}
	splitter := chunker.NewSplitter(500, 50)

	idx, err := LoadOrCreate(arbor.NewLogger(), cfg, embedder, splitter)
	if err != nil {
		t.Fatalf("LoadOrCreate failed: %v", err)
	}
	t.Cleanup(func() { idx.Close() })
	return idx, dir
}

func TestLoadOrCreate_RequiresEmbedder(t *testing.T) {
	cfg := common.IndexConfig{Path: t.TempDir()}
	_, err := LoadOrCreate(arbor.NewLogger(), cfg, nil, chunker.NewSplitter(500, 50))
	if err == nil {
		t.Fatal("Expected error for nil embedder")
	}
}

func TestLoadOrCreate_SeedsFreshIndex(t *testing.T) {
	embedder := &stubEmbedder{}
	idx, dir := newTestIndex(t, true, embedder)

	if got := idx.Count(); got != SeedDocumentCount() {
		t.Errorf("Count() = %d, want %d", got, SeedDocumentCount())
	}
	if !badger.IndexExists(dir) {
		t.Error("Index directory should exist and be non-empty after seeding")
	}
}

func TestLoadOrCreate_ReloadsWithoutReseeding(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "index")
	cfg := common.IndexConfig{Path: dir, SeedOnCreate: true}
	splitter := chunker.NewSplitter(500, 50)

	first, err := LoadOrCreate(arbor.NewLogger(), cfg, &stubEmbedder{}, splitter)
	if err != nil {
		t.Fatalf("Initial LoadOrCreate failed: %v", err)
	}
	wantCount := first.Count()
	if err := first.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	embedder := &stubEmbedder{}
	second, err := LoadOrCreate(arbor.NewLogger(), cfg, embedder, splitter)
	if err != nil {
		t.Fatalf("Reopen LoadOrCreate failed: %v", err)
	}
	defer second.Close()

	if got := second.Count(); got != wantCount {
		t.Errorf("Reloaded Count() = %d, want %d", got, wantCount)
	}
	if embedder.embedCalls != 0 {
		t.Errorf("Reload should not re-embed, got %d embed calls", embedder.embedCalls)
	}
}

func TestSimilaritySearch_RanksByCosine(t *testing.T) {
	embedder := &stubEmbedder{vectors: map[string][]float32{
		"query":    {1, 0, 0, 0, 0, 0, 0, 0},
		"close":    {0.9, 0.1, 0, 0, 0, 0, 0, 0},
		"closer":   {1, 0.01, 0, 0, 0, 0, 0, 0},
		"far":      {0, 1, 0, 0, 0, 0, 0, 0},
		"opposite": {-1, 0, 0, 0, 0, 0, 0, 0},
	}}
	idx, _ := newTestIndex(t, false, embedder)

	chunks := []models.Chunk{
		{DocumentID: "doc_1", Index: 0, Text: "far"},
		{DocumentID: "doc_1", Index: 1, Text: "close"},
		{DocumentID: "doc_2", Index: 0, Text: "closer"},
		{DocumentID: "doc_2", Index: 1, Text: "opposite"},
	}
	if err := idx.Add(context.Background(), chunks); err != nil {
		t.Fatalf("Add failed: %v", err)
	}

	results, err := idx.SimilaritySearch(context.Background(), "query", 3)
	if err != nil {
		t.Fatalf("SimilaritySearch failed: %v", err)
	}
	if len(results) != 3 {
		t.Fatalf("Expected 3 results, got %d", len(results))
	}
	if results[0].Entry.Text != "closer" {
		t.Errorf("Top result = %q, want %q", results[0].Entry.Text, "closer")
	}
	if results[1].Entry.Text != "close" {
		t.Errorf("Second result = %q, want %q", results[1].Entry.Text, "close")
	}
	for i := 1; i < len(results); i++ {
		if results[i].Score > results[i-1].Score {
			t.Errorf("Results not ordered by descending score at %d", i)
		}
	}
}

func TestSimilaritySearch_KBounds(t *testing.T) {
	embedder := &stubEmbedder{}
	idx, _ := newTestIndex(t, false, embedder)

	if err := idx.Add(context.Background(), []models.Chunk{{DocumentID: "doc_1", Text: "only entry"}}); err != nil {
		t.Fatalf("Add failed: %v", err)
	}

	t.Run("k zero yields no results", func(t *testing.T) {
		results, err := idx.SimilaritySearch(context.Background(), "anything", 0)
		if err != nil {
			t.Fatalf("SimilaritySearch failed: %v", err)
		}
		if len(results) != 0 {
			t.Errorf("Expected 0 results, got %d", len(results))
		}
	})

	t.Run("k larger than index returns all", func(t *testing.T) {
		results, err := idx.SimilaritySearch(context.Background(), "anything", 10)
		if err != nil {
			t.Fatalf("SimilaritySearch failed: %v", err)
		}
		if len(results) != 1 {
			t.Errorf("Expected 1 result, got %d", len(results))
		}
	})
}

func TestAdd_EmptyChunksIsNoOp(t *testing.T) {
	embedder := &stubEmbedder{}
	idx, _ := newTestIndex(t, false, embedder)

	if err := idx.Add(context.Background(), nil); err != nil {
		t.Fatalf("Add(nil) failed: %v", err)
	}
	if idx.Count() != 0 {
		t.Errorf("Count() = %d, want 0", idx.Count())
	}
	if embedder.embedCalls != 0 {
		t.Errorf("Empty Add should not embed, got %d calls", embedder.embedCalls)
	}
}

// TestSeededIndexQuery wires a freshly seeded index into an engine with no
// generator and checks that a question about one of the starter sentences
// answers with that sentence itself.
func TestSeededIndexQuery(t *testing.T) {
	// One orthogonal basis vector per seed sentence, so only the targeted
	// sentence scores against the query.
	vectors := make(map[string][]float32, len(seedSentences)+1)
	var chromaSentence string
	for i, sentence := range seedSentences {
		v := make([]float32, len(seedSentences))
		v[i] = 1
		vectors[sentence] = v
		if strings.Contains(sentence, "ChromaDB") {
			chromaSentence = sentence
		}
	}
	if chromaSentence == "" {
		t.Fatal("No ChromaDB starter sentence found")
	}
	vectors["What is ChromaDB?"] = vectors[chromaSentence]
	embedder := &stubEmbedder{vectors: vectors}

	splitter := chunker.NewSplitter(500, 50)
	cfg := common.IndexConfig{Path: filepath.Join(t.TempDir(), "index"), SeedOnCreate: true}
	idx, err := LoadOrCreate(arbor.NewLogger(), cfg, embedder, splitter)
	if err != nil {
		t.Fatalf("LoadOrCreate failed: %v", err)
	}
	defer idx.Close()

	bootstrap := func(ctx context.Context) (interfaces.Embedder, interfaces.VectorIndex, interfaces.Generator, error) {
		return embedder, idx, nil, nil
	}
	e := engine.New(arbor.NewLogger(), common.RAGConfig{TopK: 3, ContextLimit: 2}, splitter, bootstrap)

	answer := e.Query(context.Background(), "What is ChromaDB?")
	if !strings.HasPrefix(answer, chromaSentence) {
		t.Errorf("Answer should start with the ChromaDB sentence, got %q", answer)
	}
}

func TestCosineSimilarity(t *testing.T) {
	tests := []struct {
		name string
		a, b []float32
		want float32
	}{
		{"identical", []float32{1, 0}, []float32{1, 0}, 1},
		{"orthogonal", []float32{1, 0}, []float32{0, 1}, 0},
		{"opposite", []float32{1, 0}, []float32{-1, 0}, -1},
		{"mismatched lengths", []float32{1, 0}, []float32{1}, 0},
		{"zero vector", []float32{0, 0}, []float32{1, 0}, 0},
		{"empty", nil, nil, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := CosineSimilarity(tt.a, tt.b)
			if math.Abs(float64(got-tt.want)) > 1e-6 {
				t.Errorf("CosineSimilarity = %v, want %v", got, tt.want)
			}
		})
	}
}
