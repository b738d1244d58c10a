package interfaces

import (
	"context"
	"errors"

	"github.com/ternarybob/colloquy/internal/models"
)

// ErrThreadNotFound is returned when a thread id does not exist in storage
var ErrThreadNotFound = errors.New("thread not found")

// ThreadStorage persists conversation threads and their ordered messages,
// keyed by thread id.
type ThreadStorage interface {
	// SaveThread inserts or updates a thread
	SaveThread(ctx context.Context, thread *models.Thread) error

	// GetThread retrieves a thread by id, ErrThreadNotFound if missing
	GetThread(ctx context.Context, id string) (*models.Thread, error)

	// ListThreads returns all threads ordered by UpdatedAt descending
	ListThreads(ctx context.Context) ([]*models.Thread, error)

	// DeleteThread removes a thread and all of its messages
	DeleteThread(ctx context.Context, id string) error

	// AppendMessage appends a message to a thread
	AppendMessage(ctx context.Context, msg *models.Message) error

	// GetMessages returns a thread's messages in insertion order
	GetMessages(ctx context.Context, threadID string) ([]*models.Message, error)

	// Close closes the underlying store
	Close() error
}
