package app

import (
	"context"
	"fmt"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/colloquy/internal/common"
	"github.com/ternarybob/colloquy/internal/handlers"
	"github.com/ternarybob/colloquy/internal/interfaces"
	"github.com/ternarybob/colloquy/internal/services/chunker"
	"github.com/ternarybob/colloquy/internal/services/docs"
	"github.com/ternarybob/colloquy/internal/services/engine"
	"github.com/ternarybob/colloquy/internal/services/index"
	"github.com/ternarybob/colloquy/internal/services/llm"
	"github.com/ternarybob/colloquy/internal/services/threads"
	"github.com/ternarybob/colloquy/internal/storage/badger"
)

// App holds all application components and dependencies
type App struct {
	Config *common.Config
	Logger arbor.ILogger

	// Storage
	ThreadDB      *badger.BadgerDB
	ThreadStorage interfaces.ThreadStorage

	// Core services
	Splitter      *chunker.Splitter
	Engine        *engine.Engine
	ThreadService *threads.Service
	DocsLoader    *docs.Loader

	// HTTP handlers
	ChatHandler     *handlers.ChatHandler
	ThreadHandler   *handlers.ThreadHandler
	DocumentHandler *handlers.DocumentHandler
	StatusHandler   *handlers.StatusHandler
}

// New initializes the application with all dependencies. The query engine's
// LLM capabilities are acquired lazily on first use, so New succeeds even
// when no provider is configured.
func New(cfg *common.Config, logger arbor.ILogger) (*App, error) {
	app := &App{
		Config: cfg,
		Logger: logger,
	}

	threadDB, err := badger.NewBadgerDB(logger, &cfg.Storage.Badger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize thread storage: %w", err)
	}
	app.ThreadDB = threadDB
	app.ThreadStorage = badger.NewThreadStorage(threadDB, logger)

	app.Splitter = chunker.NewSplitter(cfg.Chunking.ChunkSize, cfg.Chunking.ChunkOverlap)

	app.Engine = engine.New(logger, cfg.RAG, app.Splitter, app.bootstrapEngine)
	app.ThreadService = threads.NewService(logger, app.ThreadStorage, app.Engine)
	app.DocsLoader = docs.NewLoader(cfg.Docs, app.Engine, logger)

	app.ChatHandler = handlers.NewChatHandler(app.ThreadService, logger)
	app.ThreadHandler = handlers.NewThreadHandler(app.ThreadService, logger)
	app.DocumentHandler = handlers.NewDocumentHandler(app.Engine, logger)
	app.StatusHandler = handlers.NewStatusHandler(cfg, app.Engine, logger)

	return app, nil
}

// Start warms the engine and begins background document ingestion
func (a *App) Start(ctx context.Context) error {
	// Trigger capability acquisition up front so the first chat request
	// does not pay the initialization cost.
	a.Engine.Warm(ctx)

	caps := a.Engine.Capabilities()
	a.Logger.Info().
		Bool("embedder", caps.Embedder).
		Bool("index", caps.Index).
		Bool("generator", caps.Generator).
		Int("index_size", a.Engine.IndexSize()).
		Msg("Query engine ready")

	if err := a.DocsLoader.Start(ctx); err != nil {
		return fmt.Errorf("failed to start document loader: %w", err)
	}
	return nil
}

// bootstrapEngine acquires the engine's capabilities. Each capability is
// independent: a missing embedder leaves retrieval absent but never fails
// the bootstrap.
func (a *App) bootstrapEngine(ctx context.Context) (interfaces.Embedder, interfaces.VectorIndex, interfaces.Generator, error) {
	caps := llm.NewCapabilities(&a.Config.LLM, a.Logger)

	var vectorIndex interfaces.VectorIndex
	if caps.Embedder != nil {
		idx, err := index.LoadOrCreate(a.Logger, a.Config.Index, caps.Embedder, a.Splitter)
		if err != nil {
			a.Logger.Warn().Err(err).Msg("Vector index unavailable")
		} else {
			vectorIndex = idx
		}
	}

	return caps.Embedder, vectorIndex, caps.Generator, nil
}

// Close shuts down all application components
func (a *App) Close() {
	a.DocsLoader.Stop()

	if err := a.Engine.Close(); err != nil {
		a.Logger.Warn().Err(err).Msg("Failed to close vector index")
	}

	if a.ThreadStorage != nil {
		if err := a.ThreadStorage.Close(); err != nil {
			a.Logger.Warn().Err(err).Msg("Failed to close thread storage")
		}
	}

	a.Logger.Info().Msg("Application closed")
}
