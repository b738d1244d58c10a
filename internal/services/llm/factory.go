package llm

import (
	"fmt"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/colloquy/internal/common"
	"github.com/ternarybob/colloquy/internal/interfaces"
)

// Capabilities bundles the optional LLM-backed capabilities for the engine.
// Either handle may be nil when the corresponding backend is unconfigured
// or failed to initialize.
type Capabilities struct {
	Embedder  interfaces.Embedder
	Generator interfaces.Generator
}

// NewCapabilities builds the embedder and generator for the configured mode.
// Acquisition of each capability is independent: failure of one never
// prevents acquiring the other. Failures are logged and leave the handle nil.
//
// Modes:
//   - "none":   no generation backend; embedder still attempted when a
//     Google API key is present so retrieval-only answering works
//   - "gemini": Gemini for both embedding and generation
//   - "claude": Claude for generation, Gemini (when configured) for embedding
func NewCapabilities(cfg *common.LLMConfig, logger arbor.ILogger) Capabilities {
	var caps Capabilities

	// Embedding always comes from Gemini; a missing key means the
	// capability is absent, not an error.
	if cfg.GoogleAPIKey != "" {
		gemini, err := NewGeminiService(cfg, logger)
		if err != nil {
			logger.Warn().Err(err).Msg("Embedder unavailable")
		} else {
			caps.Embedder = gemini

			if cfg.Mode == "gemini" {
				caps.Generator = gemini
			}
		}
	} else {
		logger.Debug().Msg("No Google API key configured, embedder absent")
	}

	switch cfg.Mode {
	case "none":
		logger.Info().Msg("Generation disabled (llm.mode = none)")
	case "gemini":
		if caps.Generator == nil {
			logger.Warn().Msg("Gemini generation unavailable")
		}
	case "claude":
		claude, err := NewClaudeService(cfg, logger)
		if err != nil {
			logger.Warn().Err(err).Msg("Claude generator unavailable")
		} else {
			caps.Generator = claude
		}
	default:
		logger.Warn().Msg(fmt.Sprintf("Unknown llm mode '%s', generation disabled", cfg.Mode))
	}

	return caps
}
