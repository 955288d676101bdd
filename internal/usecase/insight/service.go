// Package insight implements the predict flow: birth details in, a
// personalized daily insight out.
package insight

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/kailas-cloud/astrorag/internal/domain"
	"github.com/kailas-cloud/astrorag/internal/domain/birth"
	"github.com/kailas-cloud/astrorag/internal/domain/zodiac"
	"github.com/kailas-cloud/astrorag/internal/logger"
	"github.com/kailas-cloud/astrorag/internal/usecase/generation"
)

// Request is a raw prediction request.
type Request struct {
	Name       string
	BirthDate  string
	BirthTime  string
	BirthPlace string
	// Timezone is an optional IANA zone that overrides the place lookup.
	Timezone string
	Language string
}

// Prediction is the predict response.
type Prediction struct {
	Zodiac   zodiac.Sign
	Insight  string
	Language string
	Source   domain.Source
	UsedHint bool
	HintIDs  []int
	Birth    birth.Context
}

// Service runs predictions.
type Service struct {
	resolver BirthResolver
	profiles Profiles
	gen      Generator
}

// New creates a Service. profiles may be nil.
func New(resolver BirthResolver, profiles Profiles, gen Generator) *Service {
	return &Service{resolver: resolver, profiles: profiles, gen: gen}
}

// Predict resolves the birth moment, infers the sign, refreshes the profile
// and generates the insight. Profile failures only degrade personalization.
func (s *Service) Predict(ctx context.Context, req Request) (Prediction, error) {
	name := strings.Join(strings.Fields(req.Name), " ")
	if name == "" {
		return Prediction{}, fmt.Errorf("%w: name is required", domain.ErrInvalidInput)
	}

	bc, err := s.resolver.Resolve(req.BirthDate, req.BirthTime, req.BirthPlace, req.Timezone)
	if err != nil {
		return Prediction{}, fmt.Errorf("resolve birth: %w", err)
	}
	sign := zodiac.FromTime(bc.Time)
	if sign == zodiac.Unknown {
		return Prediction{}, fmt.Errorf("%w: cannot infer zodiac for %s", domain.ErrInvalidInput, bc.Date())
	}

	lang := strings.ToLower(strings.TrimSpace(req.Language))
	ctx = logger.With(ctx, zap.String("zodiac", string(sign)), zap.String("language", lang))
	override := s.touch(ctx, name, lang)

	res, err := s.gen.Generate(ctx, generation.Request{
		Name:     name,
		Zodiac:   string(sign),
		Birth:    bc,
		Language: lang,
		Profile:  override,
	})
	if err != nil {
		return Prediction{}, fmt.Errorf("generate insight: %w", err)
	}

	return Prediction{
		Zodiac:   sign,
		Insight:  res.Text,
		Language: res.Language,
		Source:   res.Source,
		UsedHint: res.UsedHint,
		HintIDs:  res.HintIDs,
		Birth:    bc,
	}, nil
}

// touch loads or creates the profile and remembers the requested language.
// Returns nil when the store failed so generation derives a profile itself.
func (s *Service) touch(ctx context.Context, name, lang string) *domain.Profile {
	if s.profiles == nil {
		return nil
	}
	log := logger.FromContext(ctx)

	p, err := s.profiles.GetOrCreate(ctx, name)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidInput) {
			return nil
		}
		log.Warn("Profile store unavailable", zap.Error(err))
		domain.DegradationFromContext(ctx).Record(domain.ErrPersonalizationDegraded)
		return nil
	}

	if lang != "" && lang != p.LastLanguage {
		updated, err := s.profiles.Patch(ctx, name, domain.ProfilePatch{LastLanguage: &lang})
		if err != nil {
			log.Warn("Failed to remember language", zap.Error(err))
		} else {
			p = updated
		}
	}
	return &p
}
