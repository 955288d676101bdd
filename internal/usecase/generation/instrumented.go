package generation

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/astrorag/internal/domain"
	"github.com/kailas-cloud/astrorag/internal/metrics"
)

// DefaultBackendTimeout bounds a single remote tier call.
const DefaultBackendTimeout = 12 * time.Second

// InstrumentedGenerator wraps a remote tier with a timeout, metrics and logging.
// Every failure comes back wrapped in domain.ErrUpstreamUnavailable.
type InstrumentedGenerator struct {
	inner   domain.Generator
	timeout time.Duration
	logger  *zap.Logger
}

// NewInstrumentedGenerator wraps inner. timeout <= 0 uses DefaultBackendTimeout.
func NewInstrumentedGenerator(inner domain.Generator, timeout time.Duration, logger *zap.Logger) *InstrumentedGenerator {
	if timeout <= 0 {
		timeout = DefaultBackendTimeout
	}
	return &InstrumentedGenerator{inner: inner, timeout: timeout, logger: logger}
}

// Source implements domain.Generator.
func (g *InstrumentedGenerator) Source() domain.Source { return g.inner.Source() }

// Available implements domain.Generator.
func (g *InstrumentedGenerator) Available() bool { return g.inner.Available() }

// Generate calls the inner tier under a deadline.
func (g *InstrumentedGenerator) Generate(
	ctx context.Context, req domain.CompletionRequest,
) (domain.Completion, error) {
	tier := string(g.inner.Source())

	ctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	start := time.Now()
	out, err := g.inner.Generate(ctx, req)
	duration := time.Since(start)

	metrics.BackendRequestDuration.WithLabelValues(tier).Observe(duration.Seconds())

	if err == nil && out.Text == "" {
		err = errors.New("empty completion")
	}
	if err != nil {
		status, kind := "error", classify(err)
		if kind == "timeout" {
			status = "timeout"
		}
		metrics.BackendRequestsTotal.WithLabelValues(tier, status).Inc()
		metrics.BackendErrorsTotal.WithLabelValues(tier, kind).Inc()
		g.logger.Warn("Generation backend failed",
			zap.String("tier", tier),
			zap.Duration("duration", duration),
			zap.String("error_type", kind),
			zap.Error(err),
		)
		if errors.Is(err, domain.ErrUpstreamUnavailable) {
			return domain.Completion{}, err
		}
		return domain.Completion{}, fmt.Errorf("%s: %w: %w", tier, domain.ErrUpstreamUnavailable, err)
	}

	metrics.BackendRequestsTotal.WithLabelValues(tier, "success").Inc()
	g.logger.Debug("Generation backend completed",
		zap.String("tier", tier),
		zap.Duration("duration", duration),
		zap.Int("chars", len(out.Text)),
	)
	return out, nil
}

func classify(err error) string {
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return "timeout"
	case errors.Is(err, context.Canceled):
		return "canceled"
	default:
		return "api_error"
	}
}
