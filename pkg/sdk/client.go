package astrorag

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/kailas-cloud/astrorag/internal/app"
	"github.com/kailas-cloud/astrorag/internal/domain"
	"github.com/kailas-cloud/astrorag/internal/domain/search/result"
	"github.com/kailas-cloud/astrorag/internal/usecase/insight"
)

const defaultRetrieveK = 3

// Internal interfaces for substitution in tests.
type predictUseCase interface {
	Predict(ctx context.Context, req insight.Request) (insight.Prediction, error)
}

type retrieveUseCase interface {
	Search(ctx context.Context, query string, k int) ([]result.Result, error)
}

type profileUseCase interface {
	GetOrCreate(ctx context.Context, name string) (domain.Profile, error)
	Patch(ctx context.Context, name string, patch domain.ProfilePatch) (domain.Profile, error)
	Delete(ctx context.Context, name string) error
	List(ctx context.Context) ([]string, error)
}

// Client is the astrorag SDK entry point.
type Client struct {
	app        *app.App
	predictSvc predictUseCase
	searchSvc  retrieveUseCase
	profileSvc profileUseCase
	healthSvc  healthUseCase
	obs        *observer
}

// New assembles the pipeline in process. The provided context is used for
// corpus indexing and the store readiness check.
func New(ctx context.Context, opts ...Option) (*Client, error) {
	cfg := &clientConfig{}
	for _, o := range opts {
		o.apply(cfg)
	}
	cfg.svc.ApplyDefaults()
	if err := cfg.svc.Validate(); err != nil {
		return nil, fmt.Errorf("astrorag: %w", err)
	}

	obs, err := newObserver(cfg.logger, cfg.metricsReg)
	if err != nil {
		return nil, err
	}

	a, err := app.New(ctx, cfg.svc, nil)
	if err != nil {
		return nil, fmt.Errorf("astrorag: %w", err)
	}
	return &Client{
		app:        a,
		predictSvc: a.Insight,
		searchSvc:  a.Retrieval,
		profileSvc: a.Profiles,
		healthSvc:  a.Health,
		obs:        obs,
	}, nil
}

// Close releases store connections.
func (c *Client) Close() {
	if c.app != nil {
		c.app.Close()
	}
}

// Predict infers the zodiac sign and generates an insight. Remote tiers that
// fail fall through to the deterministic one, so errors are limited to
// invalid input.
func (c *Client) Predict(ctx context.Context, req PredictRequest) (_ Prediction, err error) {
	start := time.Now()
	defer func() { c.obs.observe("predict", start, err) }()

	ctx, deg := domain.NewContextWithDegradation(ctx)
	p, err := c.predictSvc.Predict(ctx, insight.Request{
		Name:       req.Name,
		BirthDate:  req.BirthDate,
		BirthTime:  req.BirthTime,
		BirthPlace: req.BirthPlace,
		Timezone:   req.Timezone,
		Language:   req.Language,
	})
	if err != nil {
		return Prediction{}, fmt.Errorf("predict: %w", err)
	}
	c.obs.degradedKinds("predict", deg.Kinds())
	return Prediction{
		Zodiac:   string(p.Zodiac),
		Insight:  p.Insight,
		Language: p.Language,
		Source:   string(p.Source),
		UsedHint: p.UsedHint,
		HintIDs:  p.HintIDs,
		Degraded: deg.Kinds(),
	}, nil
}

// Retrieve returns up to k snippets ranked by similarity to query.
// k <= 0 means 3.
func (c *Client) Retrieve(ctx context.Context, query string, k int) (_ []Snippet, err error) {
	start := time.Now()
	defer func() { c.obs.observe("retrieve", start, err) }()

	if k <= 0 {
		k = defaultRetrieveK
	}
	results, err := c.searchSvc.Search(ctx, query, k)
	if err != nil {
		return nil, fmt.Errorf("retrieve: %w", err)
	}
	out := make([]Snippet, len(results))
	for i := range results {
		out[i] = Snippet{ID: results[i].ID(), Text: results[i].Text(), Score: results[i].Score()}
	}
	return out, nil
}

// Profile returns the stored profile for name, creating it on first use.
func (c *Client) Profile(ctx context.Context, name string) (_ Profile, err error) {
	start := time.Now()
	defer func() { c.obs.observe("profile_get", start, err) }()

	p, err := c.profileSvc.GetOrCreate(ctx, name)
	if err != nil {
		return Profile{}, fmt.Errorf("get profile: %w", err)
	}
	return fromDomainProfile(p), nil
}

// UpdateProfile applies an additive change and returns the result.
func (c *Client) UpdateProfile(ctx context.Context, name string, upd ProfileUpdate) (_ Profile, err error) {
	start := time.Now()
	defer func() { c.obs.observe("profile_update", start, err) }()

	p, err := c.profileSvc.Patch(ctx, name, domain.ProfilePatch{
		Score:        upd.Score,
		Tone:         upd.Tone,
		Preference:   upd.Preference,
		LastLanguage: upd.LastLanguage,
	})
	if err != nil {
		return Profile{}, fmt.Errorf("update profile: %w", err)
	}
	return fromDomainProfile(p), nil
}

// DeleteProfile forgets name. Deleting an unknown name is not an error.
func (c *Client) DeleteProfile(ctx context.Context, name string) (err error) {
	start := time.Now()
	defer func() { c.obs.observe("profile_delete", start, err) }()

	if err = c.profileSvc.Delete(ctx, name); err != nil {
		return fmt.Errorf("delete profile: %w", err)
	}
	return nil
}

// Profiles lists the stored profile names.
func (c *Client) Profiles(ctx context.Context) (_ []string, err error) {
	start := time.Now()
	defer func() { c.obs.observe("profile_list", start, err) }()

	names, err := c.profileSvc.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list profiles: %w", err)
	}
	return names, nil
}

// IsInvalidInput reports whether err was caused by bad caller input.
func IsInvalidInput(err error) bool { return errors.Is(err, ErrInvalidInput) }

func fromDomainProfile(p domain.Profile) Profile {
	return Profile{
		Name:         p.Name,
		Score:        p.Score,
		Tone:         p.Tone,
		Preference:   p.Preference,
		LastLanguage: p.LastLanguage,
		UpdatedAt:    p.UpdatedAt,
	}
}
