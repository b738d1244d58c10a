package docs

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/ternarybob/arbor"
	"github.com/ternarybob/colloquy/internal/common"
	"github.com/ternarybob/colloquy/internal/interfaces"
)

// Loader ingests local reference documents into the vector index. The
// configured directory is scanned at startup and, when a cron schedule is
// set, rescanned on that schedule. Files already ingested are skipped
// unless their modification time changed.
type Loader struct {
	config common.DocsConfig
	engine interfaces.QueryEngine
	logger arbor.ILogger
	cron   *cron.Cron

	mu   sync.Mutex
	seen map[string]time.Time // path -> mod time at last ingestion
}

// NewLoader creates a document loader
func NewLoader(config common.DocsConfig, engine interfaces.QueryEngine, logger arbor.ILogger) *Loader {
	return &Loader{
		config: config,
		engine: engine,
		logger: logger,
		seen:   make(map[string]time.Time),
	}
}

// Start performs the initial scan and registers the rescan schedule when
// one is configured. A missing or empty docs directory is not an error.
func (l *Loader) Start(ctx context.Context) error {
	if l.config.Dir == "" {
		return nil
	}

	l.Scan(ctx)

	if l.config.RescanSchedule != "" {
		l.cron = cron.New()
		_, err := l.cron.AddFunc(l.config.RescanSchedule, func() {
			l.Scan(context.Background())
		})
		if err != nil {
			return fmt.Errorf("invalid rescan schedule %q: %w", l.config.RescanSchedule, err)
		}
		l.cron.Start()
		l.logger.Info().
			Str("schedule", l.config.RescanSchedule).
			Str("dir", l.config.Dir).
			Msg("Document rescan scheduled")
	}

	return nil
}

// Stop halts the rescan schedule
func (l *Loader) Stop() {
	if l.cron != nil {
		l.cron.Stop()
	}
}

// Scan walks the docs directory and ingests new or modified files.
// Returns the number of files ingested.
func (l *Loader) Scan(ctx context.Context) int {
	entries, err := os.ReadDir(l.config.Dir)
	if err != nil {
		if !os.IsNotExist(err) {
			l.logger.Warn().Err(err).Str("dir", l.config.Dir).Msg("Failed to read docs directory")
		}
		return 0
	}

	var pending []string
	l.mu.Lock()
	for _, entry := range entries {
		if entry.IsDir() || !l.wantExtension(entry.Name()) {
			continue
		}
		path := filepath.Join(l.config.Dir, entry.Name())
		info, err := entry.Info()
		if err != nil {
			continue
		}
		if last, ok := l.seen[path]; ok && !info.ModTime().After(last) {
			continue
		}
		pending = append(pending, path)
	}
	l.mu.Unlock()

	ingested := 0
	for _, path := range pending {
		content, err := os.ReadFile(path)
		if err != nil {
			l.logger.Warn().Err(err).Str("path", path).Msg("Failed to read document")
			continue
		}
		if len(content) == 0 {
			continue
		}
		if !l.engine.AddDocuments(ctx, []string{string(content)}) {
			l.logger.Warn().Str("path", path).Msg("Document ingestion failed, will retry on next scan")
			continue
		}
		info, err := os.Stat(path)
		if err == nil {
			l.mu.Lock()
			l.seen[path] = info.ModTime()
			l.mu.Unlock()
		}
		ingested++
	}

	if ingested > 0 {
		l.logger.Info().
			Int("files", ingested).
			Str("dir", l.config.Dir).
			Msg("Documents ingested from docs directory")
	}
	return ingested
}

// wantExtension reports whether the filename matches a configured extension
func (l *Loader) wantExtension(name string) bool {
	ext := filepath.Ext(name)
	for _, want := range l.config.Extensions {
		if ext == want {
			return true
		}
	}
	return false
}
