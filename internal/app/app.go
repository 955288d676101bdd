// Package app wires configuration into the running service graph. The HTTP
// server and the CLI share it.
package app

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/astrorag/internal/config"
	"github.com/kailas-cloud/astrorag/internal/db/redis"
	"github.com/kailas-cloud/astrorag/internal/db/sqlite"
	"github.com/kailas-cloud/astrorag/internal/domain"
	"github.com/kailas-cloud/astrorag/internal/domain/birth"
	"github.com/kailas-cloud/astrorag/internal/embedding/hash"
	"github.com/kailas-cloud/astrorag/internal/index/memory"
	"github.com/kailas-cloud/astrorag/internal/metrics"
	profilerepo "github.com/kailas-cloud/astrorag/internal/repository/profile"
	chiTransport "github.com/kailas-cloud/astrorag/internal/transport/chi"
	"github.com/kailas-cloud/astrorag/internal/transport/hf"
	"github.com/kailas-cloud/astrorag/internal/transport/openai"
	"github.com/kailas-cloud/astrorag/internal/usecase/generation"
	"github.com/kailas-cloud/astrorag/internal/usecase/health"
	"github.com/kailas-cloud/astrorag/internal/usecase/insight"
	profileuc "github.com/kailas-cloud/astrorag/internal/usecase/profile"
	"github.com/kailas-cloud/astrorag/internal/usecase/retrieval"
	"github.com/kailas-cloud/astrorag/internal/usecase/translation"
)

// App is the assembled service graph.
type App struct {
	Retrieval  *retrieval.Service
	Profiles   *profileuc.Service
	Generation *generation.Service
	Insight    *insight.Service
	Health     *health.Service

	cfg     config.Config
	logger  *zap.Logger
	closers []func()
}

// profileStore is what the profile repository and the health check need.
type profileStore interface {
	profileuc.Repository
	health.StorePinger
}

// pingingRepo pairs a KV-backed repository with its underlying connection.
type pingingRepo struct {
	*profilerepo.Repo
	health.StorePinger
}

// New builds every component from cfg. Call Close when done.
func New(ctx context.Context, cfg config.Config, logger *zap.Logger) (*App, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	a := &App{cfg: cfg, logger: logger}

	seed, err := cfg.SeedCorpus()
	if err != nil {
		return nil, err
	}
	embedder := hash.NewEmbedder()
	a.Retrieval, err = retrieval.New(ctx, embedder, memory.New(embedder), seed)
	if err != nil {
		return nil, fmt.Errorf("build retriever: %w", err)
	}

	store, err := a.openProfiles(ctx)
	if err != nil {
		a.Close()
		return nil, err
	}
	a.Profiles = profileuc.New(store)

	timeout := time.Duration(cfg.Generation.TimeoutSec) * time.Second
	primary := openai.NewCompleter(&openai.Config{
		APIKey:     enabledKey(cfg.Generation.Primary),
		BaseURL:    cfg.Generation.Primary.BaseURL,
		Model:      cfg.Generation.Primary.Model,
		Source:     domain.SourcePrimaryRemote,
		MaxRetries: cfg.Generation.MaxRetries,
		Logger:     logger,
	})
	secondary := hf.NewCompleter(&hf.Config{
		APIKey:     enabledKey(cfg.Generation.Secondary),
		BaseURL:    cfg.Generation.Secondary.BaseURL,
		Model:      cfg.Generation.Secondary.Model,
		Source:     domain.SourceSecondaryRemote,
		MaxRetries: cfg.Generation.MaxRetries,
		Logger:     logger,
	})

	a.Generation = generation.New(
		a.Retrieval, a.Profiles, translation.New(),
		[]domain.Generator{
			generation.NewInstrumentedGenerator(primary, timeout, logger),
			generation.NewInstrumentedGenerator(secondary, timeout, logger),
			generation.NewInstrumentedGenerator(generation.NewDeterministic(), timeout, logger),
		},
		cfg.Tuning(), logger,
	)
	a.Insight = insight.New(birth.NewResolver(nil), a.Profiles, a.Generation)
	a.Health = health.New(store, a.Retrieval, primary, secondary)

	logger.Info("Service assembled",
		zap.Int("corpus_size", a.Retrieval.Size()),
		zap.String("profile_driver", cfg.Profiles.Driver),
		zap.Bool("primary_enabled", primary.Available()),
		zap.Bool("secondary_enabled", secondary.Available()),
	)
	return a, nil
}

// Handler returns the HTTP API with its middleware stack.
func (a *App) Handler() http.Handler {
	server := chiTransport.NewServer(a.Insight, a.Retrieval, a.Profiles, a.Health, a.Generation, a.logger)
	return chiTransport.NewRouter(server, chiTransport.RouterConfig{
		APIKeys: a.cfg.Auth.APIKeys,
		Logger:  a.logger,
	})
}

// Close releases store connections in reverse order of opening.
func (a *App) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		a.closers[i]()
	}
	a.closers = nil
}

func (a *App) openProfiles(ctx context.Context) (profileStore, error) {
	pc := a.cfg.Profiles
	ttl := time.Duration(pc.TTLSec) * time.Second
	ready := time.Duration(pc.ReadinessTimeout) * time.Second

	switch pc.Driver {
	case config.DriverRedis, config.DriverValkey:
		s, err := redis.NewStore(redis.Config{
			Addrs:    pc.Addrs,
			Username: pc.Username,
			Password: pc.Password,
			DB:       pc.DB,
		})
		if err != nil {
			return nil, fmt.Errorf("connect %s: %w", pc.Driver, err)
		}
		a.closers = append(a.closers, s.Close)
		if err := s.WaitForReady(ctx, ready); err != nil {
			return nil, fmt.Errorf("%s not ready: %w", pc.Driver, err)
		}
		return pingingRepo{Repo: profilerepo.New(s, ttl), StorePinger: s}, nil

	case config.DriverSQLite:
		s, err := sqlite.NewStore(ctx, sqlite.Config{Path: pc.Path})
		if err != nil {
			return nil, fmt.Errorf("open sqlite: %w", err)
		}
		a.closers = append(a.closers, s.Close)
		return pingingRepo{Repo: profilerepo.New(s, ttl), StorePinger: s}, nil

	default:
		return profilerepo.NewLRU(pc.MaxSize, metrics.ProfileCacheTotal), nil
	}
}

func enabledKey(b config.BackendConfig) string {
	if !b.Enabled() {
		return ""
	}
	return b.APIKey
}
