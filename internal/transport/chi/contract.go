package chi

import (
	"context"

	"github.com/kailas-cloud/astrorag/internal/domain"
	"github.com/kailas-cloud/astrorag/internal/domain/search/result"
	"github.com/kailas-cloud/astrorag/internal/usecase/generation"
	"github.com/kailas-cloud/astrorag/internal/usecase/health"
	"github.com/kailas-cloud/astrorag/internal/usecase/insight"
)

// Predictor runs the predict flow.
type Predictor interface {
	Predict(ctx context.Context, req insight.Request) (insight.Prediction, error)
}

// Searcher ranks corpus snippets.
type Searcher interface {
	Search(ctx context.Context, query string, k int) ([]result.Result, error)
}

// ProfileManager reads and edits profiles.
type ProfileManager interface {
	Get(ctx context.Context, name string) (domain.Profile, error)
	Patch(ctx context.Context, name string, patch domain.ProfilePatch) (domain.Profile, error)
	Delete(ctx context.Context, name string) error
	List(ctx context.Context) ([]string, error)
}

// HealthChecker aggregates component health.
type HealthChecker interface {
	Check(ctx context.Context) health.Report
}

// TierLister exposes the generation fallback chain.
type TierLister interface {
	Tiers() []generation.TierStatus
}
