package handlers

import (
	"net/http"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/colloquy/internal/interfaces"
	"github.com/ternarybob/colloquy/internal/schemas"
)

// DocumentHandler handles document ingestion into the vector index
type DocumentHandler struct {
	engine interfaces.QueryEngine
	logger arbor.ILogger
}

// NewDocumentHandler creates a new DocumentHandler
func NewDocumentHandler(engine interfaces.QueryEngine, logger arbor.ILogger) *DocumentHandler {
	return &DocumentHandler{
		engine: engine,
		logger: logger,
	}
}

// IngestHandler handles POST /api/documents. Ingestion is best-effort:
// the request is accepted even when the index is unavailable, mirroring
// the engine's degraded-capability behavior.
func (h *DocumentHandler) IngestHandler(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodPost) {
		return
	}

	var req schemas.IngestRequest
	if !DecodeJSON(w, r, &req) {
		return
	}
	if err := req.Validate(); err != nil {
		WriteError(w, http.StatusBadRequest, "At least one non-empty document is required")
		return
	}

	ingested := h.engine.AddDocuments(r.Context(), req.Documents)

	WriteJSON(w, http.StatusAccepted, schemas.IngestResponse{
		Accepted:  len(req.Documents),
		Ingested:  ingested,
		IndexSize: h.engine.IndexSize(),
	})
}

// StatsHandler handles GET /api/documents/stats
func (h *DocumentHandler) StatsHandler(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	WriteJSON(w, http.StatusOK, schemas.StatsResponse{
		IndexSize:    h.engine.IndexSize(),
		Capabilities: h.engine.Capabilities(),
	})
}
