package llm

import (
	"context"
	"fmt"
	"time"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/ternarybob/arbor"
	"github.com/ternarybob/colloquy/internal/common"
)

// ClaudeService provides grounded generation using the Anthropic API.
// It implements the Generator interface only; embedding stays with the
// Gemini provider since Anthropic exposes no embedding endpoint.
type ClaudeService struct {
	config  *common.LLMConfig
	logger  arbor.ILogger
	client  anthropic.Client
	timeout time.Duration
}

// NewClaudeService creates a new Claude generator instance
func NewClaudeService(config *common.LLMConfig, logger arbor.ILogger) (*ClaudeService, error) {
	if config.AnthropicAPIKey == "" {
		return nil, fmt.Errorf("Anthropic API key is required (set llm.anthropic_api_key or COLLOQUY_ANTHROPIC_API_KEY)")
	}

	timeout, err := time.ParseDuration(config.Timeout)
	if err != nil {
		return nil, fmt.Errorf("invalid timeout duration '%s': %w", config.Timeout, err)
	}

	client := anthropic.NewClient(
		option.WithAPIKey(config.AnthropicAPIKey),
	)

	logger.Info().
		Str("model", config.ClaudeModelName).
		Dur("timeout", timeout).
		Msg("Claude service initialized")

	return &ClaudeService{
		config:  config,
		logger:  logger,
		client:  client,
		timeout: timeout,
	}, nil
}

// Generate produces an answer grounded in the supplied context chunks
func (s *ClaudeService) Generate(ctx context.Context, question string, contextChunks []string) (string, error) {
	if question == "" {
		return "", fmt.Errorf("question cannot be empty for generation")
	}

	timeoutCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	maxTokens := s.config.MaxTokens
	if maxTokens <= 0 {
		maxTokens = 1024
	}

	params := anthropic.MessageNewParams{
		Model:     anthropic.Model(s.config.ClaudeModelName),
		MaxTokens: int64(maxTokens),
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(question)),
		},
	}

	if s.config.Temperature > 0 {
		params.Temperature = anthropic.Float(float64(s.config.Temperature))
	}

	if systemText := buildGroundedSystemPrompt(contextChunks); systemText != "" {
		params.System = []anthropic.TextBlockParam{
			{Text: systemText},
		}
	}

	// Retry on rate limits with backoff
	var resp *anthropic.Message
	var apiErr error
	retryConfig := NewDefaultRetryConfig()

	for attempt := 0; attempt <= retryConfig.MaxRetries; attempt++ {
		resp, apiErr = s.client.Messages.New(timeoutCtx, params)
		if apiErr == nil {
			break
		}
		if attempt == retryConfig.MaxRetries || !IsRateLimitError(apiErr) {
			break
		}

		backoff := retryConfig.CalculateBackoff(attempt, ExtractRetryDelay(apiErr))
		s.logger.Warn().
			Err(apiErr).
			Int("attempt", attempt+1).
			Dur("backoff", backoff).
			Msg("Claude rate limited, backing off")

		select {
		case <-timeoutCtx.Done():
			return "", fmt.Errorf("generation cancelled during backoff: %w", timeoutCtx.Err())
		case <-time.After(backoff):
		}
	}
	if apiErr != nil {
		return "", fmt.Errorf("chat completion failed: %w", apiErr)
	}

	var response string
	for _, block := range resp.Content {
		if block.Type == "text" {
			response += block.Text
		}
	}
	if response == "" {
		return "", fmt.Errorf("no response generated from chat model")
	}

	s.logger.Debug().
		Int("context_chunks", len(contextChunks)).
		Int("response_length", len(response)).
		Msg("Chat completion generated")

	return response, nil
}

// ModelName returns the generation model identifier
func (s *ClaudeService) ModelName() string {
	return s.config.ClaudeModelName
}
