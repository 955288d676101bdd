// Package hf implements the secondary completion tier against the Hugging Face
// text-generation inference API.
package hf

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/hashicorp/go-retryablehttp"
	"go.uber.org/zap"

	"github.com/kailas-cloud/astrorag/internal/domain"
)

const (
	// DefaultBaseURL is the hosted inference endpoint prefix; the model id is appended.
	DefaultBaseURL    = "https://api-inference.huggingface.co/models"
	DefaultModel      = "google/flan-t5-large"
	defaultMaxRetries = 2
	maxErrorBody      = 512
)

// Config holds the inference endpoint settings.
type Config struct {
	APIKey     string
	BaseURL    string
	Model      string
	Source     domain.Source
	MaxRetries int
	RetryWait  time.Duration
	Logger     *zap.Logger
}

// Completer is a text-generation tier over plain HTTP.
type Completer struct {
	client   *http.Client
	endpoint string
	apiKey   string
	source   domain.Source
	logger   *zap.Logger
}

type parameters struct {
	MaxNewTokens   int     `json:"max_new_tokens,omitempty"`
	Temperature    float32 `json:"temperature,omitempty"`
	ReturnFullText bool    `json:"return_full_text"`
}

type request struct {
	Inputs     string     `json:"inputs"`
	Parameters parameters `json:"parameters"`
}

type generated struct {
	GeneratedText string `json:"generated_text"`
}

// NewCompleter builds a Completer with a retrying HTTP client.
func NewCompleter(cfg *Config) *Completer {
	log := cfg.Logger
	if log == nil {
		log = zap.NewNop()
	}
	base := strings.TrimRight(cfg.BaseURL, "/")
	if base == "" {
		base = DefaultBaseURL
	}
	model := cfg.Model
	if model == "" {
		model = DefaultModel
	}
	source := cfg.Source
	if source == "" {
		source = domain.SourceSecondaryRemote
	}

	rc := retryablehttp.NewClient()
	rc.RetryMax = cfg.MaxRetries
	if cfg.MaxRetries == 0 {
		rc.RetryMax = defaultMaxRetries
	} else if cfg.MaxRetries < 0 {
		rc.RetryMax = 0
	}
	if cfg.RetryWait > 0 {
		rc.RetryWaitMin = cfg.RetryWait
		rc.RetryWaitMax = 4 * cfg.RetryWait
	}
	rc.Logger = &leveledLogger{log: log.Sugar()}
	rc.Backoff = retryablehttp.DefaultBackoff
	rc.CheckRetry = retryablehttp.DefaultRetryPolicy
	rc.ErrorHandler = retryablehttp.PassthroughErrorHandler

	return &Completer{
		client:   rc.StandardClient(),
		endpoint: base + "/" + strings.TrimLeft(model, "/"),
		apiKey:   strings.TrimSpace(cfg.APIKey),
		source:   source,
		logger:   log,
	}
}

// Source implements domain.Generator.
func (c *Completer) Source() domain.Source { return c.source }

// Available implements domain.Generator.
func (c *Completer) Available() bool { return c.apiKey != "" }

// Generate implements domain.Generator.
func (c *Completer) Generate(ctx context.Context, req domain.CompletionRequest) (domain.Completion, error) {
	body, err := json.Marshal(request{
		Inputs: req.Prompt,
		Parameters: parameters{
			MaxNewTokens: req.MaxTokens,
			Temperature:  req.Temperature,
		},
	})
	if err != nil {
		return domain.Completion{}, fmt.Errorf("marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return domain.Completion{}, fmt.Errorf("create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.client.Do(httpReq)
	if err != nil {
		return domain.Completion{}, fmt.Errorf("inference request: %w: %w", domain.ErrUpstreamUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return domain.Completion{}, fmt.Errorf("inference API error %d: %s: %w",
			resp.StatusCode, strings.TrimSpace(string(detail)), domain.ErrUpstreamUnavailable)
	}

	text, err := decode(resp.Body)
	if err != nil {
		return domain.Completion{}, err
	}
	return domain.Completion{Text: text, Language: req.Language}, nil
}

// decode accepts both the list form and the single-object form of the response.
func decode(r io.Reader) (string, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return "", fmt.Errorf("read response: %w: %w", domain.ErrUpstreamUnavailable, err)
	}

	var list []generated
	if err := json.Unmarshal(raw, &list); err != nil {
		var single generated
		if err := json.Unmarshal(raw, &single); err != nil {
			return "", fmt.Errorf("decode response: %w: %w", domain.ErrUpstreamUnavailable, err)
		}
		list = []generated{single}
	}
	if len(list) == 0 {
		return "", fmt.Errorf("empty inference response: %w", domain.ErrUpstreamUnavailable)
	}
	text := strings.TrimSpace(list[0].GeneratedText)
	if text == "" {
		return "", fmt.Errorf("blank inference response: %w", domain.ErrUpstreamUnavailable)
	}
	return text, nil
}

// leveledLogger routes retryablehttp logs into zap.
type leveledLogger struct {
	log *zap.SugaredLogger
}

func (l *leveledLogger) Error(msg string, kv ...any) { l.log.Errorw(msg, kv...) }
func (l *leveledLogger) Info(msg string, kv ...any)  { l.log.Debugw(msg, kv...) }
func (l *leveledLogger) Debug(msg string, kv ...any) { l.log.Debugw(msg, kv...) }
func (l *leveledLogger) Warn(msg string, kv ...any)  { l.log.Warnw(msg, kv...) }
