package insight

import (
	"context"

	"github.com/kailas-cloud/astrorag/internal/domain"
	"github.com/kailas-cloud/astrorag/internal/domain/birth"
	"github.com/kailas-cloud/astrorag/internal/usecase/generation"
)

// BirthResolver parses raw birth details.
type BirthResolver interface {
	Resolve(date, clock, place, tzOverride string) (birth.Context, error)
}

// Profiles creates and updates personalization profiles.
type Profiles interface {
	GetOrCreate(ctx context.Context, name string) (domain.Profile, error)
	Patch(ctx context.Context, name string, patch domain.ProfilePatch) (domain.Profile, error)
}

// Generator produces the insight text.
type Generator interface {
	Generate(ctx context.Context, req generation.Request) (generation.Result, error)
}
