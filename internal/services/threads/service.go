package threads

import (
	"context"
	"fmt"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/colloquy/internal/common"
	"github.com/ternarybob/colloquy/internal/interfaces"
	"github.com/ternarybob/colloquy/internal/models"
)

// Service ties the query engine to thread persistence: every conversational
// exchange is answered by the engine and recorded as a user/assistant
// message pair on a thread.
type Service struct {
	logger  arbor.ILogger
	storage interfaces.ThreadStorage
	engine  interfaces.QueryEngine
}

// NewService creates a thread conversation service
func NewService(logger arbor.ILogger, storage interfaces.ThreadStorage, engine interfaces.QueryEngine) *Service {
	return &Service{
		logger:  logger,
		storage: storage,
		engine:  engine,
	}
}

// ConverseResult is the outcome of a single chat exchange
type ConverseResult struct {
	ThreadID  string `json:"thread_id"`
	Response  string `json:"response"`
	MessageID string `json:"message_id"`
}

// Converse answers the prompt through the engine and records the exchange.
// An empty threadID starts a new thread titled from the prompt; a non-empty
// one must reference an existing thread and bumps its UpdatedAt.
//
// The answer itself never fails (the engine guarantees a response); only
// persistence problems surface as errors.
func (s *Service) Converse(ctx context.Context, threadID, prompt string) (*ConverseResult, error) {
	response := s.engine.Query(ctx, prompt)

	var thread *models.Thread
	if threadID == "" {
		thread = &models.Thread{
			ID:    common.NewThreadID(),
			Title: models.DeriveTitle(prompt),
		}
	} else {
		existing, err := s.storage.GetThread(ctx, threadID)
		if err != nil {
			return nil, err
		}
		thread = existing
	}

	// SaveThread refreshes UpdatedAt on every exchange
	if err := s.storage.SaveThread(ctx, thread); err != nil {
		return nil, fmt.Errorf("failed to save thread: %w", err)
	}

	userMsg := &models.Message{
		ID:       common.NewMessageID(),
		ThreadID: thread.ID,
		Role:     models.RoleUser,
		Content:  prompt,
	}
	if err := s.storage.AppendMessage(ctx, userMsg); err != nil {
		return nil, fmt.Errorf("failed to record user message: %w", err)
	}

	assistantMsg := &models.Message{
		ID:       common.NewMessageID(),
		ThreadID: thread.ID,
		Role:     models.RoleAssistant,
		Content:  response,
	}
	if err := s.storage.AppendMessage(ctx, assistantMsg); err != nil {
		return nil, fmt.Errorf("failed to record assistant message: %w", err)
	}

	s.logger.Debug().
		Str("thread_id", thread.ID).
		Int("prompt_len", len(prompt)).
		Msg("Chat exchange recorded")

	return &ConverseResult{
		ThreadID:  thread.ID,
		Response:  response,
		MessageID: assistantMsg.ID,
	}, nil
}

// List returns all threads, most recently updated first
func (s *Service) List(ctx context.Context) ([]*models.Thread, error) {
	return s.storage.ListThreads(ctx)
}

// Get returns a thread and its messages in conversation order
func (s *Service) Get(ctx context.Context, id string) (*models.Thread, []*models.Message, error) {
	thread, err := s.storage.GetThread(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	messages, err := s.storage.GetMessages(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	return thread, messages, nil
}

// Delete removes a thread and its messages
func (s *Service) Delete(ctx context.Context, id string) error {
	return s.storage.DeleteThread(ctx, id)
}
