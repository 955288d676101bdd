package astrorag

import (
	"log/slog"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/kailas-cloud/astrorag/internal/config"
	"github.com/kailas-cloud/astrorag/internal/domain/corpus"
)

// Option configures the Client.
type Option interface {
	apply(*clientConfig)
}

// optionFunc adapts a function to the Option interface.
type optionFunc func(*clientConfig)

func (f optionFunc) apply(c *clientConfig) { f(c) }

type clientConfig struct {
	svc config.Config

	logger     *slog.Logger
	metricsReg prometheus.Registerer
}

// WithMemory keeps profiles in a bounded in-process LRU (default).
func WithMemory(maxSize int) Option {
	return optionFunc(func(c *clientConfig) {
		c.svc.Profiles.Driver = config.DriverMemory
		c.svc.Profiles.MaxSize = maxSize
	})
}

// WithValkey stores profiles in a Valkey instance.
func WithValkey(addr, password string) Option {
	return optionFunc(func(c *clientConfig) {
		c.svc.Profiles.Driver = config.DriverValkey
		c.svc.Profiles.Addrs = []string{addr}
		c.svc.Profiles.Password = password
	})
}

// WithRedis stores profiles in a Redis instance.
func WithRedis(addr, password string) Option {
	return optionFunc(func(c *clientConfig) {
		c.svc.Profiles.Driver = config.DriverRedis
		c.svc.Profiles.Addrs = []string{addr}
		c.svc.Profiles.Password = password
	})
}

// WithSQLite stores profiles in a local SQLite file.
func WithSQLite(path string) Option {
	return optionFunc(func(c *clientConfig) {
		c.svc.Profiles.Driver = config.DriverSQLite
		c.svc.Profiles.Path = path
	})
}

// WithProfileTTL expires KV-stored profiles after ttlSec seconds.
// Ignored by the memory store.
func WithProfileTTL(ttlSec int) Option {
	return optionFunc(func(c *clientConfig) {
		c.svc.Profiles.TTLSec = ttlSec
	})
}

// WithOpenAI enables the primary remote tier. Empty baseURL and model
// fall back to the public API and its small chat model.
func WithOpenAI(apiKey, baseURL, model string) Option {
	return optionFunc(func(c *clientConfig) {
		c.svc.Generation.Primary = config.BackendConfig{APIKey: apiKey, BaseURL: baseURL, Model: model}
	})
}

// WithHuggingFace enables the secondary remote tier.
func WithHuggingFace(apiKey, baseURL, model string) Option {
	return optionFunc(func(c *clientConfig) {
		c.svc.Generation.Secondary = config.BackendConfig{APIKey: apiKey, BaseURL: baseURL, Model: model}
	})
}

// WithGenerationTimeout bounds each backend attempt.
func WithGenerationTimeout(sec int) Option {
	return optionFunc(func(c *clientConfig) {
		c.svc.Generation.TimeoutSec = sec
	})
}

// WithCorpus replaces the built-in advice snippets.
func WithCorpus(entries ...CorpusEntry) Option {
	return optionFunc(func(c *clientConfig) {
		c.svc.RAG.Corpus = make([]corpus.Entry, 0, len(entries))
		for _, e := range entries {
			c.svc.RAG.Corpus = append(c.svc.RAG.Corpus, corpus.Entry{ID: e.ID, Topic: e.Topic, Text: e.Text})
		}
	})
}

// WithCorpusFile loads snippets from a YAML file.
func WithCorpusFile(path string) Option {
	return optionFunc(func(c *clientConfig) {
		c.svc.RAG.CorpusFile = path
	})
}

// WithThreshold sets the minimum similarity for a snippet to count as a hint.
// Default: 0.35.
func WithThreshold(t float64) Option {
	return optionFunc(func(c *clientConfig) {
		c.svc.RAG.Threshold = t
	})
}

// WithLogger enables structured logging for SDK operations.
// Pass nil to disable (default). Uses standard library slog.
func WithLogger(l *slog.Logger) Option {
	return optionFunc(func(c *clientConfig) {
		c.logger = l
	})
}

// WithPrometheus registers SDK metrics (operation counts and durations)
// on the given registerer. Pass nil to disable (default).
func WithPrometheus(reg prometheus.Registerer) Option {
	return optionFunc(func(c *clientConfig) {
		c.metricsReg = reg
	})
}
