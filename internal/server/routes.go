package server

import (
	"net/http"
)

// setupRoutes configures all HTTP routes
func (s *Server) setupRoutes() *http.ServeMux {
	mux := http.NewServeMux()

	// API routes - Chat (RAG-enabled chat)
	mux.HandleFunc("/api/chat", s.app.ChatHandler.ChatHandler)

	// API routes - Threads
	mux.HandleFunc("/api/threads", s.app.ThreadHandler.ListThreadsHandler)
	mux.HandleFunc("/api/threads/", s.app.ThreadHandler.ThreadHandler) // GET/DELETE /{id}

	// API routes - Documents
	mux.HandleFunc("/api/documents/stats", s.app.DocumentHandler.StatsHandler)
	mux.HandleFunc("/api/documents", s.app.DocumentHandler.IngestHandler)

	// API routes - System
	mux.HandleFunc("/api/status", s.app.StatusHandler.GetStatusHandler)

	return mux
}
