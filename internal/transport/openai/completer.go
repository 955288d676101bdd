// Package openai implements the primary completion tier against any
// OpenAI-compatible chat API.
package openai

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/failsafe-go/failsafe-go"
	"github.com/failsafe-go/failsafe-go/retrypolicy"
	openai "github.com/sashabaranov/go-openai"
	"go.uber.org/zap"

	"github.com/kailas-cloud/astrorag/internal/domain"
)

const (
	defaultModel      = openai.GPT4oMini
	defaultMaxRetries = 2
)

// Completer is a chat-completion tier using the OpenAI-compatible API.
type Completer struct {
	client  *openai.Client
	model   string
	source  domain.Source
	enabled bool
	retry   retrypolicy.RetryPolicy[openai.ChatCompletionResponse]
	logger  *zap.Logger
}

// Config holds the completion provider settings.
type Config struct {
	APIKey  string
	BaseURL string
	Model   string
	// Source labels the tier. Defaults to domain.SourcePrimaryRemote.
	Source     domain.Source
	MaxRetries int
	// RetryDelay is the first backoff delay; it doubles up to 2s.
	RetryDelay time.Duration
	Logger     *zap.Logger
}

// NewCompleter creates a completion tier. Without an API key the tier reports
// itself unavailable and is skipped by the fallback chain.
func NewCompleter(cfg *Config) *Completer {
	clientCfg := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientCfg.BaseURL = cfg.BaseURL
	}

	model := cfg.Model
	if model == "" {
		model = defaultModel
	}
	source := cfg.Source
	if source == "" {
		source = domain.SourcePrimaryRemote
	}
	maxRetries := cfg.MaxRetries
	if maxRetries < 0 {
		maxRetries = 0
	} else if maxRetries == 0 {
		maxRetries = defaultMaxRetries
	}
	log := cfg.Logger
	if log == nil {
		log = zap.NewNop()
	}
	delay := cfg.RetryDelay
	if delay <= 0 {
		delay = 250 * time.Millisecond
	}

	return &Completer{
		client:  openai.NewClientWithConfig(clientCfg),
		model:   model,
		source:  source,
		enabled: strings.TrimSpace(cfg.APIKey) != "",
		retry: retrypolicy.Builder[openai.ChatCompletionResponse]().
			HandleIf(func(_ openai.ChatCompletionResponse, err error) bool { return retryable(err) }).
			WithBackoff(delay, 2*time.Second).
			WithMaxRetries(maxRetries).
			Build(),
		logger: log,
	}
}

// Source implements domain.Generator.
func (c *Completer) Source() domain.Source { return c.source }

// Available implements domain.Generator.
func (c *Completer) Available() bool { return c.enabled }

// Generate implements domain.Generator. Transient failures (429, 5xx,
// network) are retried with backoff; the caller's deadline bounds the total.
func (c *Completer) Generate(ctx context.Context, req domain.CompletionRequest) (domain.Completion, error) {
	chatReq := openai.ChatCompletionRequest{
		Model: c.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: req.Prompt},
		},
		MaxTokens:   req.MaxTokens,
		Temperature: req.Temperature,
	}

	attempt := 0
	resp, err := failsafe.NewExecutor[openai.ChatCompletionResponse](c.retry).
		WithContext(ctx).
		Get(func() (openai.ChatCompletionResponse, error) {
			attempt++
			if attempt > 1 {
				c.logger.Debug("Retrying chat completion", zap.String("model", c.model), zap.Int("attempt", attempt))
			}
			return c.client.CreateChatCompletion(ctx, chatReq)
		})
	if err != nil {
		return domain.Completion{}, parseAPIError(err)
	}

	if len(resp.Choices) == 0 {
		return domain.Completion{}, fmt.Errorf("empty completion response: %w", domain.ErrUpstreamUnavailable)
	}
	text := strings.TrimSpace(resp.Choices[0].Message.Content)
	if text == "" {
		return domain.Completion{}, fmt.Errorf("blank completion: %w", domain.ErrUpstreamUnavailable)
	}

	return domain.Completion{Text: text, Language: req.Language}, nil
}

// HealthCheck verifies API availability via ListModels (free endpoint).
func (c *Completer) HealthCheck(ctx context.Context) error {
	if _, err := c.client.ListModels(ctx); err != nil {
		return fmt.Errorf("list models: %w", err)
	}
	return nil
}

// retryable reports whether a failed call is worth repeating.
func retryable(err error) bool {
	if err == nil || errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	status := 0
	var reqErr *openai.RequestError
	var apiErr *openai.APIError
	switch {
	case errors.As(err, &apiErr):
		status = apiErr.HTTPStatusCode
	case errors.As(err, &reqErr):
		status = reqErr.HTTPStatusCode
	default:
		return true // transport error
	}
	return status == http.StatusTooManyRequests || status >= http.StatusInternalServerError
}

// parseAPIError extracts a human-readable error from the API response.
// All errors are wrapped with domain.ErrUpstreamUnavailable so the chain falls through.
func parseAPIError(err error) error {
	wrap := domain.ErrUpstreamUnavailable

	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return fmt.Errorf("completion request aborted: %w: %w", wrap, err)
	}

	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		return fmt.Errorf("completion API error %d: %s: %w",
			apiErr.HTTPStatusCode, apiErr.Message, wrap)
	}

	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) {
		if detail := extractDetail(reqErr.Body); detail != "" {
			return fmt.Errorf("completion API error %d: %s: %w",
				reqErr.HTTPStatusCode, detail, wrap)
		}
		return fmt.Errorf("completion API error %d: %w", reqErr.HTTPStatusCode, wrap)
	}

	return fmt.Errorf("completion request failed: %w", wrap)
}

// extractDetail extracts the "detail" field from a JSON error body.
func extractDetail(body []byte) string {
	var parsed struct {
		Detail string `json:"detail"`
	}
	if json.Unmarshal(body, &parsed) == nil && parsed.Detail != "" {
		return parsed.Detail
	}
	return ""
}
