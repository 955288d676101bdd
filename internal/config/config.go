package config

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"runtime"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/kailas-cloud/astrorag/internal/domain"
	"github.com/kailas-cloud/astrorag/internal/domain/corpus"
)

// Profile store drivers.
const (
	DriverMemory = "memory"
	DriverRedis  = "redis"
	DriverValkey = "valkey"
	DriverSQLite = "sqlite"
)

// Config holds the astrorag service configuration.
type Config struct {
	HTTP       HTTPConfig       `yaml:"http"`
	Auth       AuthConfig       `yaml:"auth"`
	Logging    LoggingConfig    `yaml:"logging"`
	Profiles   ProfilesConfig   `yaml:"profiles"`
	RAG        RAGConfig        `yaml:"rag"`
	Generation GenerationConfig `yaml:"generation"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level string `yaml:"level"` // debug, info, warn, error (default: determined by env)
}

// AuthConfig holds API authentication settings.
type AuthConfig struct {
	APIKeys []string `yaml:"api_keys"`
}

// HTTPConfig holds HTTP server settings.
type HTTPConfig struct {
	Host            string `yaml:"host"`
	Port            int    `yaml:"port"`
	ReadTimeoutSec  int    `yaml:"read_timeout_sec"`
	WriteTimeoutSec int    `yaml:"write_timeout_sec"`
	ShutdownSec     int    `yaml:"shutdown_timeout_sec"`
}

// Addr returns the listen address.
func (h HTTPConfig) Addr() string {
	return fmt.Sprintf("%s:%d", h.Host, h.Port)
}

// ProfilesConfig selects and configures the profile store.
type ProfilesConfig struct {
	Driver           string   `yaml:"driver"` // memory, redis, valkey, sqlite (default: memory)
	Addrs            []string `yaml:"addrs"`
	Username         string   `yaml:"username"`
	Password         string   `yaml:"password"`
	DB               int      `yaml:"db"`
	Path             string   `yaml:"path"`    // sqlite file
	TTLSec           int      `yaml:"ttl_sec"` // 0 = never expire
	MaxSize          int      `yaml:"max_size"`
	ReadinessTimeout int      `yaml:"readiness_timeout_sec"`
}

// RAGConfig holds retrieval tuning and the seed corpus.
type RAGConfig struct {
	K          int     `yaml:"k"`
	Threshold  float64 `yaml:"threshold"`
	MaxHints   int     `yaml:"max_hints"`
	CorpusFile string  `yaml:"corpus_file"`
	// Corpus replaces the built-in snippets when non-empty.
	Corpus []corpus.Entry `yaml:"corpus"`
}

// GenerationConfig holds completion backend settings.
type GenerationConfig struct {
	TimeoutSec  int           `yaml:"timeout_sec"`
	MaxTokens   int           `yaml:"max_tokens"`
	Temperature *float32      `yaml:"temperature"`
	MaxRetries  int           `yaml:"max_retries"`
	Primary     BackendConfig `yaml:"primary"`
	Secondary   BackendConfig `yaml:"secondary"`
}

// BackendConfig holds one remote completion backend.
type BackendConfig struct {
	APIKey  string `yaml:"api_key"`
	BaseURL string `yaml:"base_url"`
	Model   string `yaml:"model"`
	// Disabled turns the tier off even when a key is present.
	Disabled bool `yaml:"disabled"`
}

// Enabled reports whether the backend has credentials and is not switched off.
func (b BackendConfig) Enabled() bool {
	return !b.Disabled && strings.TrimSpace(b.APIKey) != ""
}

// Load reads configuration from a YAML file by environment name (local, dev, prod).
func Load(env string) (Config, error) {
	return LoadFile(findConfigPath(env))
}

// LoadFile reads configuration from an explicit path.
func LoadFile(configPath string) (Config, error) {
	data, err := os.ReadFile(filepath.Clean(configPath))
	if err != nil {
		return Config{}, fmt.Errorf("failed to read config %s: %w", configPath, err)
	}

	// Substitute env variables of the form ${VAR}
	data = expandEnvVars(data)

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("failed to parse config: %w", err)
	}

	cfg.ApplyDefaults()

	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// MustLoad loads configuration or panics.
func MustLoad(env string) Config {
	cfg, err := Load(env)
	if err != nil {
		panic(err)
	}
	return cfg
}

// GetEnv returns the current environment from the ENV variable, defaulting to "local".
func GetEnv() string {
	if env := os.Getenv("ENV"); env != "" {
		return env
	}
	return "local"
}

// ApplyDefaults fills empty fields with default values.
func (c *Config) ApplyDefaults() {
	if c.HTTP.Host == "" {
		c.HTTP.Host = "0.0.0.0"
	}
	if c.HTTP.Port == 0 {
		c.HTTP.Port = 8000
	}
	if c.HTTP.ReadTimeoutSec <= 0 {
		c.HTTP.ReadTimeoutSec = 10
	}
	if c.HTTP.WriteTimeoutSec <= 0 {
		c.HTTP.WriteTimeoutSec = 30
	}
	if c.HTTP.ShutdownSec <= 0 {
		c.HTTP.ShutdownSec = 10
	}

	c.Profiles.Driver = strings.ToLower(strings.TrimSpace(c.Profiles.Driver))
	if c.Profiles.Driver == "" {
		c.Profiles.Driver = DriverMemory
	}
	if c.Profiles.MaxSize <= 0 {
		c.Profiles.MaxSize = 1000
	}
	if c.Profiles.Path == "" {
		c.Profiles.Path = "astrorag.db"
	}
	if c.Profiles.ReadinessTimeout <= 0 {
		c.Profiles.ReadinessTimeout = 10
	}

	def := domain.DefaultRAGConfig()
	if c.RAG.K <= 0 {
		c.RAG.K = def.K
	}
	if c.RAG.Threshold == 0 {
		c.RAG.Threshold = def.Threshold
	}
	if c.RAG.MaxHints <= 0 {
		c.RAG.MaxHints = def.MaxHints
	}

	if c.Generation.TimeoutSec <= 0 {
		c.Generation.TimeoutSec = 12
	}
	if c.Generation.MaxTokens <= 0 {
		c.Generation.MaxTokens = def.MaxTokens
	}
	if c.Generation.Temperature == nil {
		t := def.Temperature
		c.Generation.Temperature = &t
	}
}

// Validate checks the configuration for correctness.
func (c *Config) Validate() error {
	if c.HTTP.Port <= 0 || c.HTTP.Port > 65535 {
		return fmt.Errorf("http.port must be between 1 and 65535, got %d", c.HTTP.Port)
	}
	switch c.Profiles.Driver {
	case DriverMemory, DriverSQLite:
	case DriverRedis, DriverValkey:
		if len(c.Profiles.Addrs) == 0 {
			return fmt.Errorf("profiles.addrs is required for driver %q", c.Profiles.Driver)
		}
	default:
		return fmt.Errorf("profiles.driver must be one of memory, redis, valkey, sqlite, got %q", c.Profiles.Driver)
	}
	if c.Profiles.TTLSec < 0 {
		return fmt.Errorf("profiles.ttl_sec must not be negative, got %d", c.Profiles.TTLSec)
	}
	if c.RAG.Threshold < -1 || c.RAG.Threshold > 1 {
		return fmt.Errorf("rag.threshold must be between -1 and 1, got %v", c.RAG.Threshold)
	}
	if t := *c.Generation.Temperature; t < 0 || t > 2 {
		return fmt.Errorf("generation.temperature must be between 0 and 2, got %v", t)
	}
	for i, e := range c.RAG.Corpus {
		if strings.TrimSpace(e.Text) == "" {
			return fmt.Errorf("rag.corpus[%d].text is required", i)
		}
	}
	return nil
}

// Tuning returns the retrieval and generation knobs for the orchestrator.
func (c *Config) Tuning() domain.RAGConfig {
	return domain.RAGConfig{
		K:           c.RAG.K,
		Threshold:   c.RAG.Threshold,
		MaxHints:    c.RAG.MaxHints,
		MaxTokens:   c.Generation.MaxTokens,
		Temperature: *c.Generation.Temperature,
	}
}

// SeedCorpus returns the configured snippets: inline entries, then the corpus
// file, then the built-in set.
func (c *Config) SeedCorpus() ([]corpus.Entry, error) {
	if len(c.RAG.Corpus) > 0 {
		return corpus.Normalize(c.RAG.Corpus), nil
	}
	if c.RAG.CorpusFile != "" {
		entries, err := corpus.LoadFile(c.RAG.CorpusFile)
		if err != nil {
			return nil, fmt.Errorf("load corpus: %w", err)
		}
		return entries, nil
	}
	return corpus.Default(), nil
}

// findConfigPath locates the config file.
func findConfigPath(env string) string {
	filename := fmt.Sprintf("%s.yaml", env)

	// 1. Check ./config/
	if path := filepath.Join("config", filename); fileExists(path) {
		return path
	}

	// 2. Check relative to the source file
	_, b, _, _ := runtime.Caller(0)
	projectRoot := filepath.Dir(filepath.Dir(filepath.Dir(b))) // internal/config -> project root
	if path := filepath.Join(projectRoot, "config", filename); fileExists(path) {
		return path
	}

	// 3. Fallback to ./config/
	return filepath.Join("config", filename)
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// expandEnvVars replaces ${VAR} and ${VAR:-default} with environment variable values.
var envVarRegex = regexp.MustCompile(`\$\{([^}]+)\}`)

func expandEnvVars(data []byte) []byte {
	return envVarRegex.ReplaceAllFunc(data, func(match []byte) []byte {
		expr := string(match[2 : len(match)-1]) // strip ${ and }
		varName, defaultVal, hasDefault := strings.Cut(expr, ":-")
		val := os.Getenv(varName)
		if val == "" && hasDefault {
			val = defaultVal
		}
		return []byte(val)
	})
}
