// Package generation orchestrates retrieval, prompting and the tiered
// completion backends into a single personalized insight.
package generation

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/astrorag/internal/domain"
	"github.com/kailas-cloud/astrorag/internal/domain/birth"
	"github.com/kailas-cloud/astrorag/internal/domain/search/result"
	"github.com/kailas-cloud/astrorag/internal/metrics"
	"github.com/kailas-cloud/astrorag/internal/usecase/profile"
	"github.com/kailas-cloud/astrorag/internal/usecase/prompt"
)

// Personalization clauses appended after generation.
const (
	BoldClause = " You may find bold action especially rewarding today."
	RestClause = " Consider prioritizing rest and avoiding big decisions today."

	boldScore = 85
	restScore = 15
)

// Request is one insight generation.
type Request struct {
	Name   string
	Zodiac string
	Birth  birth.Context
	// Language is the requested output language tag. Empty means English.
	Language string
	// Profile overrides the stored profile when set.
	Profile *domain.Profile
}

// Result is a generated insight plus the signals that shaped it.
type Result struct {
	Text     string
	Zodiac   string
	Source   domain.Source
	UsedHint bool
	HintIDs  []int
	Language string
	Score    int
	Prompt   string
}

// Service runs the generation pipeline. Safe for concurrent use.
type Service struct {
	tiers      []domain.Generator
	retriever  Retriever
	profiles   ProfileReader
	translator Translator
	cfg        domain.RAGConfig
	now        func() time.Time
	logger     *zap.Logger
}

// New creates the orchestrator. tiers are tried in order; a deterministic
// tier is appended when none is present. profiles and translator may be nil.
func New(
	retriever Retriever, profiles ProfileReader, translator Translator,
	tiers []domain.Generator, cfg domain.RAGConfig, logger *zap.Logger,
) *Service {
	chain := make([]domain.Generator, 0, len(tiers)+1)
	hasFallback := false
	for _, t := range tiers {
		if t == nil {
			continue
		}
		chain = append(chain, t)
		if t.Source() == domain.SourceDeterministic {
			hasFallback = true
		}
	}
	if !hasFallback {
		chain = append(chain, NewDeterministic())
	}
	return &Service{
		tiers:      chain,
		retriever:  retriever,
		profiles:   profiles,
		translator: translator,
		cfg:        cfg,
		now:        time.Now,
		logger:     logger,
	}
}

// WithClock replaces the clock that stamps prompts.
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

// TierStatus describes one entry of the fallback chain.
type TierStatus struct {
	Source    domain.Source
	Available bool
}

// Tiers returns the chain in priority order.
func (s *Service) Tiers() []TierStatus {
	out := make([]TierStatus, len(s.tiers))
	for i, t := range s.tiers {
		out[i] = TierStatus{Source: t.Source(), Available: t.Available()}
	}
	return out
}

// Generate produces an insight. Only domain.ErrInvalidInput and
// domain.ErrInternal are returned; every other failure degrades.
func (s *Service) Generate(ctx context.Context, req Request) (res Result, err error) {
	defer func() {
		if r := recover(); r != nil {
			s.logger.Error("Generation panicked", zap.Any("panic", r), zap.Stack("stack"))
			res, err = Result{}, fmt.Errorf("generate: %w", domain.ErrInternal)
		}
	}()

	name := strings.Join(strings.Fields(req.Name), " ")
	sign := strings.TrimSpace(req.Zodiac)
	if name == "" || sign == "" {
		return Result{}, fmt.Errorf("%w: name and zodiac are required", domain.ErrInvalidInput)
	}
	if req.Birth.Time.IsZero() {
		return Result{}, fmt.Errorf("%w: birth date is required", domain.ErrInvalidInput)
	}
	lang := normalizeLanguage(req.Language)

	p := s.personalize(ctx, name, req.Profile)
	hits := s.hint(ctx, name+" "+sign)
	hint := strings.Join(result.Texts(hits), " ")

	text := prompt.Build(prompt.Input{
		Name:           name,
		Zodiac:         sign,
		ProfileSummary: prompt.Summary(p),
		Snippets:       result.Texts(hits),
		BirthPlace:     req.Birth.Place,
		BirthDate:      req.Birth.Date(),
		BirthTime:      req.Birth.Clock(),
		TargetLanguage: lang,
		Tone:           prompt.ToneForScore(p.Score),
		Today:          s.now(),
	})

	completion, source, err := s.complete(ctx, domain.CompletionRequest{
		Prompt:      text,
		MaxTokens:   s.cfg.MaxTokens,
		Temperature: s.cfg.Temperature,
		Language:    lang,
		Seed: domain.CompletionSeed{
			Name:      name,
			Zodiac:    sign,
			BirthDate: req.Birth.Date(),
			Hint:      hint,
		},
	})
	if err != nil {
		return Result{}, err
	}

	out := strings.TrimSpace(completion.Text) + personalizationClause(p.Score)
	out, source, outLang := s.localize(ctx, out, completion.Language, lang, source)

	metrics.GenerationsTotal.WithLabelValues(string(source)).Inc()
	s.logger.Info("Generated insight",
		zap.String("zodiac", sign),
		zap.String("source", string(source)),
		zap.Bool("used_hint", len(hits) > 0),
		zap.String("language", outLang),
	)

	return Result{
		Text:     out,
		Zodiac:   sign,
		Source:   source,
		UsedHint: len(hits) > 0,
		HintIDs:  result.IDs(hits),
		Language: outLang,
		Score:    p.Score,
		Prompt:   text,
	}, nil
}

// personalize resolves the profile. Store failures fall back to the
// name-derived score.
func (s *Service) personalize(ctx context.Context, name string, override *domain.Profile) domain.Profile {
	if override != nil {
		p := *override
		if p.Score < 0 || p.Score >= domain.ProfileScoreRange {
			p.Score = profile.DerivedScore(name)
		}
		return p
	}
	if s.profiles == nil {
		return profile.Derived(name)
	}

	p, err := s.profiles.Get(ctx, name)
	switch {
	case err == nil:
		return p
	case errors.Is(err, domain.ErrNotFound):
		return profile.Derived(name)
	default:
		metrics.PersonalizationDegradedTotal.Inc()
		domain.DegradationFromContext(ctx).Record(domain.ErrPersonalizationDegraded)
		s.logger.Warn("Profile lookup failed, using derived score", zap.Error(err))
		return profile.Derived(name)
	}
}

// hint returns the strongest hits above the threshold, at most MaxHints.
func (s *Service) hint(ctx context.Context, query string) []result.Result {
	if s.retriever == nil {
		return nil
	}
	hits, err := s.retriever.Search(ctx, query, s.cfg.K)
	if err != nil {
		metrics.RetrievalHintsTotal.WithLabelValues("error").Inc()
		domain.DegradationFromContext(ctx).Record(domain.ErrRetrievalDegraded)
		s.logger.Warn("Retrieval failed, continuing without hint", zap.Error(err))
		return nil
	}
	if len(hits) == 0 {
		metrics.RetrievalHintsTotal.WithLabelValues("empty").Inc()
		domain.DegradationFromContext(ctx).Record(domain.ErrRetrievalDegraded)
		return nil
	}

	strong := result.AboveThreshold(hits, s.cfg.Threshold)
	if len(strong) == 0 {
		metrics.RetrievalHintsTotal.WithLabelValues("below_threshold").Inc()
		return nil
	}
	if len(strong) > s.cfg.MaxHints {
		strong = strong[:s.cfg.MaxHints]
	}
	metrics.RetrievalHintsTotal.WithLabelValues("used").Inc()
	return strong
}

// complete walks the chain in order. The deterministic tier is last and
// never fails, so an error here means the chain itself is broken.
func (s *Service) complete(
	ctx context.Context, req domain.CompletionRequest,
) (domain.Completion, domain.Source, error) {
	for _, tier := range s.tiers {
		if !tier.Available() {
			continue
		}
		out, err := tier.Generate(ctx, req)
		if err == nil && strings.TrimSpace(out.Text) != "" {
			if out.Language == "" {
				out.Language = req.Language
			}
			return out, tier.Source(), nil
		}
		if err == nil {
			err = errors.New("empty completion")
		}
		domain.DegradationFromContext(ctx).Record(domain.ErrUpstreamUnavailable)
		s.logger.Info("Falling through to next generation tier",
			zap.String("tier", string(tier.Source())),
			zap.Error(err),
		)
	}
	s.logger.Error("Generation chain exhausted")
	return domain.Completion{}, "", fmt.Errorf("generate: no tier produced text: %w", domain.ErrInternal)
}

// localize translates text the backend did not already write in lang.
// Translator failures keep the original text.
func (s *Service) localize(
	ctx context.Context, text, produced, lang string, source domain.Source,
) (string, domain.Source, string) {
	if sameLanguage(produced, lang) || s.translator == nil {
		return text, source, produced
	}
	translated, err := s.translator.Translate(ctx, text, lang)
	if err != nil || translated == "" {
		metrics.TranslationsTotal.WithLabelValues(lang, "error").Inc()
		domain.DegradationFromContext(ctx).Record(domain.ErrUpstreamUnavailable)
		s.logger.Warn("Translation failed, returning untranslated text",
			zap.String("language", lang),
			zap.Error(err),
		)
		return text, source, produced
	}
	return translated, source.WithTranslation(), lang
}

func personalizationClause(score int) string {
	switch {
	case score >= boldScore:
		return BoldClause
	case score <= restScore:
		return RestClause
	default:
		return ""
	}
}

func normalizeLanguage(tag string) string {
	tag = strings.ToLower(strings.TrimSpace(tag))
	if tag == "" {
		return domain.DefaultLanguage
	}
	return tag
}

// sameLanguage compares base language subtags: "en-US" matches "en".
func sameLanguage(a, b string) bool {
	base := func(s string) string {
		s, _, _ = strings.Cut(strings.ReplaceAll(strings.ToLower(s), "_", "-"), "-")
		return s
	}
	return base(a) == base(b)
}
