package threads

import (
	"context"
	"errors"
	"sort"
	"strings"
	"testing"
	"time"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/colloquy/internal/interfaces"
	"github.com/ternarybob/colloquy/internal/models"
)

// memoryStorage is an in-memory ThreadStorage for service tests
type memoryStorage struct {
	threads  map[string]*models.Thread
	messages []*models.Message
	saveErr  error
}

func newMemoryStorage() *memoryStorage {
	return &memoryStorage{threads: make(map[string]*models.Thread)}
}

func (m *memoryStorage) SaveThread(ctx context.Context, thread *models.Thread) error {
	if m.saveErr != nil {
		return m.saveErr
	}
	now := time.Now()
	if thread.CreatedAt.IsZero() {
		thread.CreatedAt = now
	}
	thread.UpdatedAt = now
	copied := *thread
	m.threads[thread.ID] = &copied
	return nil
}

func (m *memoryStorage) GetThread(ctx context.Context, id string) (*models.Thread, error) {
	thread, ok := m.threads[id]
	if !ok {
		return nil, interfaces.ErrThreadNotFound
	}
	copied := *thread
	return &copied, nil
}

func (m *memoryStorage) ListThreads(ctx context.Context) ([]*models.Thread, error) {
	var out []*models.Thread
	for _, thread := range m.threads {
		out = append(out, thread)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].UpdatedAt.After(out[j].UpdatedAt)
	})
	return out, nil
}

func (m *memoryStorage) DeleteThread(ctx context.Context, id string) error {
	if _, ok := m.threads[id]; !ok {
		return interfaces.ErrThreadNotFound
	}
	delete(m.threads, id)
	var kept []*models.Message
	for _, msg := range m.messages {
		if msg.ThreadID != id {
			kept = append(kept, msg)
		}
	}
	m.messages = kept
	return nil
}

func (m *memoryStorage) AppendMessage(ctx context.Context, msg *models.Message) error {
	seq := 0
	for _, existing := range m.messages {
		if existing.ThreadID == msg.ThreadID {
			seq++
		}
	}
	msg.Seq = seq
	m.messages = append(m.messages, msg)
	return nil
}

func (m *memoryStorage) GetMessages(ctx context.Context, threadID string) ([]*models.Message, error) {
	var out []*models.Message
	for _, msg := range m.messages {
		if msg.ThreadID == threadID {
			out = append(out, msg)
		}
	}
	return out, nil
}

func (m *memoryStorage) Close() error { return nil }

// echoEngine answers every question with a fixed prefix
type echoEngine struct{}

func (e *echoEngine) Query(ctx context.Context, question string) string {
	return "answer to: " + question
}

func (e *echoEngine) AddDocuments(ctx context.Context, documents []string) bool { return true }

func (e *echoEngine) Capabilities() interfaces.CapabilitySet { return interfaces.CapabilitySet{} }

func (e *echoEngine) IndexSize() int { return 0 }

func newTestService(storage interfaces.ThreadStorage) *Service {
	return NewService(arbor.NewLogger(), storage, &echoEngine{})
}

func TestConverse_NewThread(t *testing.T) {
	storage := newMemoryStorage()
	svc := newTestService(storage)

	result, err := svc.Converse(context.Background(), "", "What is semantic search?")
	if err != nil {
		t.Fatalf("Converse failed: %v", err)
	}

	if result.Response != "answer to: What is semantic search?" {
		t.Errorf("Unexpected response: %q", result.Response)
	}
	if !strings.HasPrefix(result.ThreadID, "thread_") {
		t.Errorf("Thread ID missing prefix: %q", result.ThreadID)
	}

	thread, err := storage.GetThread(context.Background(), result.ThreadID)
	if err != nil {
		t.Fatalf("Thread was not persisted: %v", err)
	}
	if thread.Title != "What is semantic search?" {
		t.Errorf("Title = %q, want the prompt", thread.Title)
	}

	messages, _ := storage.GetMessages(context.Background(), result.ThreadID)
	if len(messages) != 2 {
		t.Fatalf("Expected 2 messages, got %d", len(messages))
	}
	if messages[0].Role != models.RoleUser || messages[0].Content != "What is semantic search?" {
		t.Errorf("Unexpected user message: %+v", messages[0])
	}
	if messages[1].Role != models.RoleAssistant || messages[1].Content != result.Response {
		t.Errorf("Unexpected assistant message: %+v", messages[1])
	}
	if messages[1].ID != result.MessageID {
		t.Errorf("MessageID should reference the assistant message")
	}
}

func TestConverse_LongPromptTruncatedTitle(t *testing.T) {
	storage := newMemoryStorage()
	svc := newTestService(storage)

	prompt := strings.Repeat("x", 80)
	result, err := svc.Converse(context.Background(), "", prompt)
	if err != nil {
		t.Fatalf("Converse failed: %v", err)
	}

	thread, _ := storage.GetThread(context.Background(), result.ThreadID)
	want := strings.Repeat("x", 50) + "..."
	if thread.Title != want {
		t.Errorf("Title = %q, want %q", thread.Title, want)
	}
}

func TestConverse_ExistingThread(t *testing.T) {
	storage := newMemoryStorage()
	svc := newTestService(storage)

	first, err := svc.Converse(context.Background(), "", "first question")
	if err != nil {
		t.Fatalf("Converse failed: %v", err)
	}

	second, err := svc.Converse(context.Background(), first.ThreadID, "followup question")
	if err != nil {
		t.Fatalf("Converse failed: %v", err)
	}
	if second.ThreadID != first.ThreadID {
		t.Errorf("Followup created a new thread")
	}

	thread, _ := storage.GetThread(context.Background(), first.ThreadID)
	if thread.Title != "first question" {
		t.Errorf("Followup should not retitle the thread, got %q", thread.Title)
	}

	messages, _ := storage.GetMessages(context.Background(), first.ThreadID)
	if len(messages) != 4 {
		t.Errorf("Expected 4 messages after two exchanges, got %d", len(messages))
	}
}

func TestConverse_UnknownThread(t *testing.T) {
	svc := newTestService(newMemoryStorage())

	_, err := svc.Converse(context.Background(), "thread_missing", "hello")
	if !errors.Is(err, interfaces.ErrThreadNotFound) {
		t.Errorf("Expected ErrThreadNotFound, got %v", err)
	}
}

func TestConverse_PersistenceFailure(t *testing.T) {
	storage := newMemoryStorage()
	storage.saveErr = errors.New("disk full")
	svc := newTestService(storage)

	_, err := svc.Converse(context.Background(), "", "hello")
	if err == nil {
		t.Fatal("Expected persistence error")
	}
}

func TestGetAndDelete(t *testing.T) {
	storage := newMemoryStorage()
	svc := newTestService(storage)

	result, err := svc.Converse(context.Background(), "", "hello")
	if err != nil {
		t.Fatalf("Converse failed: %v", err)
	}

	thread, messages, err := svc.Get(context.Background(), result.ThreadID)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if thread.ID != result.ThreadID || len(messages) != 2 {
		t.Errorf("Get returned thread %q with %d messages", thread.ID, len(messages))
	}

	if err := svc.Delete(context.Background(), result.ThreadID); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if _, _, err := svc.Get(context.Background(), result.ThreadID); !errors.Is(err, interfaces.ErrThreadNotFound) {
		t.Errorf("Expected ErrThreadNotFound after delete, got %v", err)
	}
}

func TestList_MostRecentFirst(t *testing.T) {
	storage := newMemoryStorage()
	svc := newTestService(storage)

	first, _ := svc.Converse(context.Background(), "", "older thread")
	time.Sleep(time.Millisecond)
	svc.Converse(context.Background(), "", "newer thread")
	time.Sleep(time.Millisecond)

	// Touch the first thread so it becomes most recent again
	if _, err := svc.Converse(context.Background(), first.ThreadID, "bump"); err != nil {
		t.Fatalf("Converse failed: %v", err)
	}

	threadList, err := svc.List(context.Background())
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(threadList) != 2 {
		t.Fatalf("Expected 2 threads, got %d", len(threadList))
	}
	if threadList[0].Title != "older thread" {
		t.Errorf("Bumped thread should be first, got %q", threadList[0].Title)
	}
}
