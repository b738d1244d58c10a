package badger

import (
	"context"
	"fmt"
	"time"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/colloquy/internal/interfaces"
	"github.com/ternarybob/colloquy/internal/models"
	"github.com/timshannon/badgerhold/v4"
)

// ThreadStorage implements the ThreadStorage interface for Badger
type ThreadStorage struct {
	db     *BadgerDB
	logger arbor.ILogger
}

// NewThreadStorage creates a new ThreadStorage instance
func NewThreadStorage(db *BadgerDB, logger arbor.ILogger) interfaces.ThreadStorage {
	return &ThreadStorage{
		db:     db,
		logger: logger,
	}
}

// SaveThread inserts or updates a thread
func (s *ThreadStorage) SaveThread(ctx context.Context, thread *models.Thread) error {
	if thread.ID == "" {
		return fmt.Errorf("thread ID is required")
	}

	now := time.Now()
	if thread.CreatedAt.IsZero() {
		thread.CreatedAt = now
	}
	thread.UpdatedAt = now

	if err := s.db.Store().Upsert(thread.ID, thread); err != nil {
		return fmt.Errorf("failed to save thread: %w", err)
	}
	return nil
}

// GetThread retrieves a thread by id
func (s *ThreadStorage) GetThread(ctx context.Context, id string) (*models.Thread, error) {
	var thread models.Thread
	if err := s.db.Store().Get(id, &thread); err != nil {
		if err == badgerhold.ErrNotFound {
			return nil, interfaces.ErrThreadNotFound
		}
		return nil, fmt.Errorf("failed to get thread: %w", err)
	}
	return &thread, nil
}

// ListThreads returns all threads ordered by UpdatedAt descending
func (s *ThreadStorage) ListThreads(ctx context.Context) ([]*models.Thread, error) {
	var threads []models.Thread
	if err := s.db.Store().Find(&threads, badgerhold.Where("ID").Ne("").SortBy("UpdatedAt").Reverse()); err != nil {
		return nil, fmt.Errorf("failed to list threads: %w", err)
	}

	result := make([]*models.Thread, len(threads))
	for i := range threads {
		result[i] = &threads[i]
	}
	return result, nil
}

// DeleteThread removes a thread and all of its messages
func (s *ThreadStorage) DeleteThread(ctx context.Context, id string) error {
	if _, err := s.GetThread(ctx, id); err != nil {
		return err
	}

	if err := s.db.Store().DeleteMatching(&models.Message{}, badgerhold.Where("ThreadID").Eq(id)); err != nil {
		return fmt.Errorf("failed to delete thread messages: %w", err)
	}

	if err := s.db.Store().Delete(id, &models.Thread{}); err != nil && err != badgerhold.ErrNotFound {
		return fmt.Errorf("failed to delete thread: %w", err)
	}

	s.logger.Debug().Str("thread_id", id).Msg("Thread deleted")
	return nil
}

// AppendMessage appends a message to a thread. The message sequence number
// is assigned from the current message count so insertion order survives
// identical timestamps.
func (s *ThreadStorage) AppendMessage(ctx context.Context, msg *models.Message) error {
	if msg.ID == "" {
		return fmt.Errorf("message ID is required")
	}
	if msg.ThreadID == "" {
		return fmt.Errorf("message thread ID is required")
	}

	count, err := s.db.Store().Count(&models.Message{}, badgerhold.Where("ThreadID").Eq(msg.ThreadID))
	if err != nil {
		return fmt.Errorf("failed to count thread messages: %w", err)
	}
	msg.Seq = int(count)

	if msg.CreatedAt.IsZero() {
		msg.CreatedAt = time.Now()
	}

	if err := s.db.Store().Insert(msg.ID, msg); err != nil {
		return fmt.Errorf("failed to append message: %w", err)
	}
	return nil
}

// GetMessages returns a thread's messages in insertion order
func (s *ThreadStorage) GetMessages(ctx context.Context, threadID string) ([]*models.Message, error) {
	var messages []models.Message
	if err := s.db.Store().Find(&messages, badgerhold.Where("ThreadID").Eq(threadID).SortBy("Seq")); err != nil {
		return nil, fmt.Errorf("failed to get messages: %w", err)
	}

	result := make([]*models.Message, len(messages))
	for i := range messages {
		result[i] = &messages[i]
	}
	return result, nil
}

// Close closes the underlying store
func (s *ThreadStorage) Close() error {
	return s.db.Close()
}
