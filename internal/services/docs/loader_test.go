package docs

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/colloquy/internal/common"
	"github.com/ternarybob/colloquy/internal/interfaces"
)

type recordingEngine struct {
	docs   []string
	accept bool
}

func (e *recordingEngine) Query(ctx context.Context, question string) string { return "" }

func (e *recordingEngine) AddDocuments(ctx context.Context, documents []string) bool {
	if !e.accept {
		return false
	}
	e.docs = append(e.docs, documents...)
	return true
}

func (e *recordingEngine) Capabilities() interfaces.CapabilitySet { return interfaces.CapabilitySet{} }

func (e *recordingEngine) IndexSize() int { return len(e.docs) }

func newTestLoader(t *testing.T, dir string, engine *recordingEngine) *Loader {
	t.Helper()
	cfg := common.DocsConfig{Dir: dir, Extensions: []string{".md", ".txt"}}
	return NewLoader(cfg, engine, arbor.NewLogger())
}

func TestScan_IngestsMatchingFiles(t *testing.T) {
	dir := t.TempDir()
	os.WriteFile(filepath.Join(dir, "notes.md"), []byte("markdown notes"), 0644)
	os.WriteFile(filepath.Join(dir, "facts.txt"), []byte("plain facts"), 0644)
	os.WriteFile(filepath.Join(dir, "image.png"), []byte("not text"), 0644)
	os.WriteFile(filepath.Join(dir, "empty.md"), nil, 0644)
	os.Mkdir(filepath.Join(dir, "sub"), 0755)

	engine := &recordingEngine{accept: true}
	loader := newTestLoader(t, dir, engine)

	ingested := loader.Scan(context.Background())

	if ingested != 2 {
		t.Errorf("Scan ingested %d files, want 2", ingested)
	}
	if len(engine.docs) != 2 {
		t.Errorf("Engine received %d documents, want 2", len(engine.docs))
	}
}

func TestScan_SkipsAlreadyIngestedFiles(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "notes.md")
	os.WriteFile(path, []byte("version one"), 0644)

	engine := &recordingEngine{accept: true}
	loader := newTestLoader(t, dir, engine)

	if got := loader.Scan(context.Background()); got != 1 {
		t.Fatalf("First scan ingested %d, want 1", got)
	}
	if got := loader.Scan(context.Background()); got != 0 {
		t.Errorf("Second scan ingested %d, want 0", got)
	}

	// A modified file is picked up again
	newTime := time.Now().Add(time.Hour)
	os.WriteFile(path, []byte("version two"), 0644)
	os.Chtimes(path, newTime, newTime)

	if got := loader.Scan(context.Background()); got != 1 {
		t.Errorf("Scan after modification ingested %d, want 1", got)
	}
	if len(engine.docs) != 2 {
		t.Errorf("Engine received %d documents, want 2", len(engine.docs))
	}
}

func TestScan_RetriesRejectedFiles(t *testing.T) {
	dir := t.TempDir()
	os.WriteFile(filepath.Join(dir, "notes.md"), []byte("content"), 0644)

	engine := &recordingEngine{accept: false}
	loader := newTestLoader(t, dir, engine)

	if got := loader.Scan(context.Background()); got != 0 {
		t.Fatalf("Rejected scan ingested %d, want 0", got)
	}

	// Once the engine accepts, the file is ingested on the next scan
	engine.accept = true
	if got := loader.Scan(context.Background()); got != 1 {
		t.Errorf("Retry scan ingested %d, want 1", got)
	}
}

func TestScan_MissingDirectory(t *testing.T) {
	engine := &recordingEngine{accept: true}
	loader := newTestLoader(t, filepath.Join(t.TempDir(), "does-not-exist"), engine)

	if got := loader.Scan(context.Background()); got != 0 {
		t.Errorf("Scan of missing dir ingested %d, want 0", got)
	}
}

func TestStart_EmptyDirConfigIsNoOp(t *testing.T) {
	loader := NewLoader(common.DocsConfig{}, &recordingEngine{}, arbor.NewLogger())
	if err := loader.Start(context.Background()); err != nil {
		t.Errorf("Start with empty dir config failed: %v", err)
	}
	loader.Stop()
}

func TestStart_InvalidSchedule(t *testing.T) {
	cfg := common.DocsConfig{Dir: t.TempDir(), Extensions: []string{".md"}, RescanSchedule: "not a cron expr"}
	loader := NewLoader(cfg, &recordingEngine{accept: true}, arbor.NewLogger())
	if err := loader.Start(context.Background()); err == nil {
		t.Error("Expected error for invalid cron schedule")
	}
}
