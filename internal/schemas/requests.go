package schemas

import (
	"github.com/go-playground/validator/v10"
)

// ChatRequest is the body of POST /api/chat. An empty ThreadID starts a new
// conversation thread.
type ChatRequest struct {
	Prompt   string `json:"prompt" validate:"required"`
	ThreadID string `json:"thread_id,omitempty"`
}

// Validate checks the request against its validation tags
func (r *ChatRequest) Validate() error {
	validate := validator.New()
	return validate.Struct(r)
}

// IngestRequest is the body of POST /api/documents
type IngestRequest struct {
	Documents []string `json:"documents" validate:"required,min=1,dive,required"`
}

// Validate checks the request against its validation tags
func (r *IngestRequest) Validate() error {
	validate := validator.New()
	return validate.Struct(r)
}
