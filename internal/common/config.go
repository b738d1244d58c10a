package common

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

// Config represents the application configuration
type Config struct {
	Environment string         `toml:"environment"` // "development" or "production"
	Server      ServerConfig   `toml:"server"`
	Storage     StorageConfig  `toml:"storage"`
	Index       IndexConfig    `toml:"index"`
	Chunking    ChunkingConfig `toml:"chunking"`
	RAG         RAGConfig      `toml:"rag"`
	LLM         LLMConfig      `toml:"llm"`
	Docs        DocsConfig     `toml:"docs"`
	Logging     LoggingConfig  `toml:"logging"`
}

type ServerConfig struct {
	Port int    `toml:"port"`
	Host string `toml:"host"`
}

type StorageConfig struct {
	Badger BadgerConfig `toml:"badger"`
}

// BadgerConfig represents BadgerDB-specific configuration for thread storage
type BadgerConfig struct {
	Path           string `toml:"path"`             // Database directory path
	ResetOnStartup bool   `toml:"reset_on_startup"` // Delete database on startup for clean test runs
}

// IndexConfig configures the persisted vector index.
// The index is considered to exist when Path exists and is non-empty.
type IndexConfig struct {
	Path         string `toml:"path"`           // Index directory path
	SeedOnCreate bool   `toml:"seed_on_create"` // Seed a fresh index with the built-in corpus
}

// ChunkingConfig controls how documents are split before embedding
type ChunkingConfig struct {
	ChunkSize    int `toml:"chunk_size"`    // Maximum chunk length in characters
	ChunkOverlap int `toml:"chunk_overlap"` // Characters shared between consecutive chunks
}

// RAGConfig controls retrieval behavior for chat queries
type RAGConfig struct {
	TopK         int `toml:"top_k"`         // Nearest neighbors requested per query
	ContextLimit int `toml:"context_limit"` // Chunks used to synthesize a retrieval-only answer
}

// LLMConfig configures the embedding and generation providers
type LLMConfig struct {
	Mode              string  `toml:"mode"`                // "none", "gemini", or "claude"
	GoogleAPIKey      string  `toml:"google_api_key"`      // Gemini API key (or COLLOQUY_GOOGLE_API_KEY)
	AnthropicAPIKey   string  `toml:"anthropic_api_key"`   // Claude API key (or COLLOQUY_ANTHROPIC_API_KEY)
	EmbedModelName    string  `toml:"embed_model_name"`    // Default: gemini-embedding-001
	ChatModelName     string  `toml:"chat_model_name"`     // Default: gemini-2.0-flash
	ClaudeModelName   string  `toml:"claude_model_name"`   // Default: claude-sonnet-4-20250514
	EmbedDimension    int     `toml:"embed_dimension"`     // Embedding vector dimension
	Temperature       float32 `toml:"temperature"`         // Generation temperature
	MaxTokens         int     `toml:"max_tokens"`          // Claude max output tokens
	Timeout           string  `toml:"timeout"`             // Per-call timeout, e.g. "30s"
	RequestsPerMinute int     `toml:"requests_per_minute"` // Embedding API rate limit
}

// DocsConfig configures the local document directory ingested into the index
type DocsConfig struct {
	Dir            string   `toml:"dir"`             // Directory containing reference documents
	Extensions     []string `toml:"extensions"`      // File extensions to scan (default: .md, .txt)
	RescanSchedule string   `toml:"rescan_schedule"` // Cron schedule for rescans (empty = startup only)
}

type LoggingConfig struct {
	Level      string   `toml:"level"`       // "debug", "info", "warn", "error"
	Format     string   `toml:"format"`      // "json" or "text"
	Output     []string `toml:"output"`      // "stdout", "file"
	TimeFormat string   `toml:"time_format"` // Time format for logs (default: "15:04:05.000")
}

// NewDefaultConfig returns a Config populated with defaults
func NewDefaultConfig() *Config {
	return &Config{
		Environment: "development",
		Server: ServerConfig{
			Port: 8080,
			Host: "localhost",
		},
		Storage: StorageConfig{
			Badger: BadgerConfig{
				Path:           "./data/threads",
				ResetOnStartup: false,
			},
		},
		Index: IndexConfig{
			Path:         "./data/index",
			SeedOnCreate: true,
		},
		Chunking: ChunkingConfig{
			ChunkSize:    500,
			ChunkOverlap: 50,
		},
		RAG: RAGConfig{
			TopK:         3,
			ContextLimit: 2,
		},
		LLM: LLMConfig{
			Mode:              "none",
			EmbedModelName:    "gemini-embedding-001",
			ChatModelName:     "gemini-2.0-flash",
			ClaudeModelName:   "claude-sonnet-4-20250514",
			EmbedDimension:    768,
			Temperature:       0.2,
			MaxTokens:         1024,
			Timeout:           "30s",
			RequestsPerMinute: 60,
		},
		Docs: DocsConfig{
			Dir:        "./docs",
			Extensions: []string{".md", ".txt"},
		},
		Logging: LoggingConfig{
			Level:      "info",
			Format:     "text",
			Output:     []string{"stdout"},
			TimeFormat: "15:04:05.000",
		},
	}
}

// LoadFromFiles loads configuration from one or more TOML files.
// Later files override earlier ones; environment variables override all files.
func LoadFromFiles(paths ...string) (*Config, error) {
	config := NewDefaultConfig()

	for i, path := range paths {
		if path == "" {
			continue
		}

		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}

		if err := toml.Unmarshal(data, config); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s (file %d of %d): %w", path, i+1, len(paths), err)
		}
	}

	applyEnvOverrides(config)

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

// applyEnvOverrides applies environment variable overrides to config
func applyEnvOverrides(config *Config) {
	if env := os.Getenv("COLLOQUY_ENV"); env != "" {
		config.Environment = env
	} else if env := os.Getenv("GO_ENV"); env != "" {
		config.Environment = env
	}

	if port := os.Getenv("COLLOQUY_SERVER_PORT"); port != "" {
		if p, err := strconv.Atoi(port); err == nil {
			config.Server.Port = p
		}
	}
	if host := os.Getenv("COLLOQUY_SERVER_HOST"); host != "" {
		config.Server.Host = host
	}

	if badgerPath := os.Getenv("COLLOQUY_BADGER_PATH"); badgerPath != "" {
		config.Storage.Badger.Path = badgerPath
	}
	if indexPath := os.Getenv("COLLOQUY_INDEX_PATH"); indexPath != "" {
		config.Index.Path = indexPath
	}

	if mode := os.Getenv("COLLOQUY_LLM_MODE"); mode != "" {
		config.LLM.Mode = mode
	}
	if key := os.Getenv("COLLOQUY_GOOGLE_API_KEY"); key != "" {
		config.LLM.GoogleAPIKey = key
	}
	if key := os.Getenv("COLLOQUY_ANTHROPIC_API_KEY"); key != "" {
		config.LLM.AnthropicAPIKey = key
	}

	if level := os.Getenv("COLLOQUY_LOG_LEVEL"); level != "" {
		config.Logging.Level = level
	}
	if format := os.Getenv("COLLOQUY_LOG_FORMAT"); format != "" {
		config.Logging.Format = format
	}
	if output := os.Getenv("COLLOQUY_LOG_OUTPUT"); output != "" {
		parts := strings.Split(output, ",")
		outputs := make([]string, 0, len(parts))
		for _, p := range parts {
			if trimmed := strings.TrimSpace(p); trimmed != "" {
				outputs = append(outputs, trimmed)
			}
		}
		if len(outputs) > 0 {
			config.Logging.Output = outputs
		}
	}
}

// ApplyFlagOverrides applies command-line flag overrides (highest priority)
func ApplyFlagOverrides(config *Config, port int, host string) {
	if port != 0 {
		config.Server.Port = port
	}
	if host != "" {
		config.Server.Host = host
	}
}

// Validate checks configuration invariants that would otherwise surface
// as confusing runtime failures.
func (c *Config) Validate() error {
	if c.Chunking.ChunkSize <= 0 {
		return fmt.Errorf("chunking.chunk_size must be greater than 0, got %d", c.Chunking.ChunkSize)
	}
	if c.Chunking.ChunkOverlap < 0 || c.Chunking.ChunkOverlap >= c.Chunking.ChunkSize {
		return fmt.Errorf("chunking.chunk_overlap must satisfy 0 <= overlap < chunk_size, got overlap=%d chunk_size=%d",
			c.Chunking.ChunkOverlap, c.Chunking.ChunkSize)
	}
	if c.RAG.TopK < 0 {
		return fmt.Errorf("rag.top_k must not be negative, got %d", c.RAG.TopK)
	}
	if c.RAG.ContextLimit <= 0 {
		return fmt.Errorf("rag.context_limit must be greater than 0, got %d", c.RAG.ContextLimit)
	}

	switch c.LLM.Mode {
	case "none", "gemini", "claude":
	default:
		return fmt.Errorf("invalid llm mode '%s': must be 'none', 'gemini' or 'claude'", c.LLM.Mode)
	}

	return nil
}
