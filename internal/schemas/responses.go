package schemas

import (
	"github.com/ternarybob/colloquy/internal/interfaces"
	"github.com/ternarybob/colloquy/internal/models"
)

// ChatResponse is the body returned by POST /api/chat
type ChatResponse struct {
	ThreadID  string `json:"thread_id"`
	Response  string `json:"response"`
	MessageID string `json:"message_id"`
}

// ThreadListResponse wraps the thread listing
type ThreadListResponse struct {
	Threads []*models.Thread `json:"threads"`
}

// ThreadDetailResponse is a thread together with its ordered messages
type ThreadDetailResponse struct {
	models.Thread
	Messages []*models.Message `json:"messages"`
}

// IngestResponse acknowledges a document ingestion request
type IngestResponse struct {
	Accepted  int  `json:"accepted"`
	Ingested  bool `json:"ingested"`
	IndexSize int  `json:"index_size,omitempty"`
}

// StatsResponse reports the current state of the vector index
type StatsResponse struct {
	IndexSize    int                      `json:"index_size"`
	Capabilities interfaces.CapabilitySet `json:"capabilities"`
}

// StatusResponse reports service identity and health
type StatusResponse struct {
	Service      string                   `json:"service"`
	Version      string                   `json:"version"`
	Environment  string                   `json:"environment"`
	Uptime       string                   `json:"uptime"`
	Capabilities interfaces.CapabilitySet `json:"capabilities"`
}

// ErrorResponse is the uniform error body for all endpoints
type ErrorResponse struct {
	Error string `json:"error"`
}
