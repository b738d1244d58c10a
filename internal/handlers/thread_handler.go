package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/colloquy/internal/interfaces"
	"github.com/ternarybob/colloquy/internal/schemas"
	"github.com/ternarybob/colloquy/internal/services/threads"
)

// ThreadHandler handles thread listing, retrieval and deletion
type ThreadHandler struct {
	threadService *threads.Service
	logger        arbor.ILogger
}

// NewThreadHandler creates a new ThreadHandler
func NewThreadHandler(threadService *threads.Service, logger arbor.ILogger) *ThreadHandler {
	return &ThreadHandler{
		threadService: threadService,
		logger:        logger,
	}
}

// ListThreadsHandler handles GET /api/threads
func (h *ThreadHandler) ListThreadsHandler(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	threadList, err := h.threadService.List(r.Context())
	if err != nil {
		h.logger.Error().Err(err).Msg("Failed to list threads")
		WriteError(w, http.StatusInternalServerError, "Failed to list threads")
		return
	}

	WriteJSON(w, http.StatusOK, schemas.ThreadListResponse{Threads: threadList})
}

// ThreadHandler handles GET and DELETE /api/threads/{id}
func (h *ThreadHandler) ThreadHandler(w http.ResponseWriter, r *http.Request) {
	threadID := h.threadIDFromPath(r.URL.Path)
	if threadID == "" {
		WriteError(w, http.StatusBadRequest, "Thread ID is required")
		return
	}

	switch r.Method {
	case http.MethodGet:
		h.getThread(w, r, threadID)
	case http.MethodDelete:
		h.deleteThread(w, r, threadID)
	default:
		WriteError(w, http.StatusMethodNotAllowed, "Method not allowed")
	}
}

func (h *ThreadHandler) getThread(w http.ResponseWriter, r *http.Request, threadID string) {
	thread, messages, err := h.threadService.Get(r.Context(), threadID)
	if err != nil {
		if errors.Is(err, interfaces.ErrThreadNotFound) {
			WriteError(w, http.StatusNotFound, "Thread not found")
			return
		}
		h.logger.Error().Err(err).Str("thread_id", threadID).Msg("Failed to get thread")
		WriteError(w, http.StatusInternalServerError, "Failed to get thread")
		return
	}

	WriteJSON(w, http.StatusOK, schemas.ThreadDetailResponse{
		Thread:   *thread,
		Messages: messages,
	})
}

func (h *ThreadHandler) deleteThread(w http.ResponseWriter, r *http.Request, threadID string) {
	if err := h.threadService.Delete(r.Context(), threadID); err != nil {
		if errors.Is(err, interfaces.ErrThreadNotFound) {
			WriteError(w, http.StatusNotFound, "Thread not found")
			return
		}
		h.logger.Error().Err(err).Str("thread_id", threadID).Msg("Failed to delete thread")
		WriteError(w, http.StatusInternalServerError, "Failed to delete thread")
		return
	}

	WriteJSON(w, http.StatusOK, map[string]string{"message": "Thread deleted"})
}

// threadIDFromPath extracts the thread id from /api/threads/{id}
func (h *ThreadHandler) threadIDFromPath(path string) string {
	parts := strings.Split(strings.Trim(path, "/"), "/")
	if len(parts) < 3 {
		return ""
	}
	return parts[2]
}
