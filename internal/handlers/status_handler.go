package handlers

import (
	"net/http"
	"time"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/colloquy/internal/common"
	"github.com/ternarybob/colloquy/internal/interfaces"
	"github.com/ternarybob/colloquy/internal/schemas"
)

// StatusHandler handles application status requests
type StatusHandler struct {
	config    *common.Config
	engine    interfaces.QueryEngine
	logger    arbor.ILogger
	startedAt time.Time
}

// NewStatusHandler creates a new StatusHandler
func NewStatusHandler(config *common.Config, engine interfaces.QueryEngine, logger arbor.ILogger) *StatusHandler {
	return &StatusHandler{
		config:    config,
		engine:    engine,
		logger:    logger,
		startedAt: time.Now(),
	}
}

// GetStatusHandler handles GET /api/status
func (h *StatusHandler) GetStatusHandler(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	WriteJSON(w, http.StatusOK, schemas.StatusResponse{
		Service:      "colloquy",
		Version:      common.GetVersion(),
		Environment:  h.config.Environment,
		Uptime:       time.Since(h.startedAt).Round(time.Second).String(),
		Capabilities: h.engine.Capabilities(),
	})
}
