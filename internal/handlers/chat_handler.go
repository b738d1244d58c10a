package handlers

import (
	"errors"
	"net/http"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/colloquy/internal/interfaces"
	"github.com/ternarybob/colloquy/internal/schemas"
	"github.com/ternarybob/colloquy/internal/services/threads"
)

// ChatHandler handles conversational chat requests
type ChatHandler struct {
	threadService *threads.Service
	logger        arbor.ILogger
}

// NewChatHandler creates a new ChatHandler
func NewChatHandler(threadService *threads.Service, logger arbor.ILogger) *ChatHandler {
	return &ChatHandler{
		threadService: threadService,
		logger:        logger,
	}
}

// ChatHandler handles POST /api/chat
func (h *ChatHandler) ChatHandler(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodPost) {
		return
	}

	var req schemas.ChatRequest
	if !DecodeJSON(w, r, &req) {
		return
	}
	if err := req.Validate(); err != nil {
		WriteError(w, http.StatusBadRequest, "Prompt is required")
		return
	}

	result, err := h.threadService.Converse(r.Context(), req.ThreadID, req.Prompt)
	if err != nil {
		if errors.Is(err, interfaces.ErrThreadNotFound) {
			WriteError(w, http.StatusNotFound, "Thread not found")
			return
		}
		h.logger.Error().Err(err).Msg("Chat exchange failed")
		WriteError(w, http.StatusInternalServerError, "Failed to process chat request")
		return
	}

	WriteJSON(w, http.StatusOK, schemas.ChatResponse{
		ThreadID:  result.ThreadID,
		Response:  result.Response,
		MessageID: result.MessageID,
	})
}
