package astrorag

import (
	"context"

	"github.com/kailas-cloud/astrorag/internal/domain"
	"github.com/kailas-cloud/astrorag/internal/domain/search/result"
	healthuc "github.com/kailas-cloud/astrorag/internal/usecase/health"
	"github.com/kailas-cloud/astrorag/internal/usecase/insight"
)

type mockPredict struct {
	fn      func(ctx context.Context, req insight.Request) (insight.Prediction, error)
	lastReq insight.Request
}

func (m *mockPredict) Predict(ctx context.Context, req insight.Request) (insight.Prediction, error) {
	m.lastReq = req
	return m.fn(ctx, req)
}

type mockSearch struct {
	results []result.Result
	err     error
	lastK   int
}

func (m *mockSearch) Search(_ context.Context, _ string, k int) ([]result.Result, error) {
	m.lastK = k
	return m.results, m.err
}

type mockProfiles struct {
	profile domain.Profile
	err     error
	patch   domain.ProfilePatch
	deleted string
}

func (m *mockProfiles) GetOrCreate(_ context.Context, name string) (domain.Profile, error) {
	if m.err != nil {
		return domain.Profile{}, m.err
	}
	p := m.profile
	p.Name = name
	return p, nil
}

func (m *mockProfiles) Patch(_ context.Context, name string, patch domain.ProfilePatch) (domain.Profile, error) {
	m.patch = patch
	if m.err != nil {
		return domain.Profile{}, m.err
	}
	p := m.profile
	p.Name = name
	if patch.Tone != nil {
		p.Tone = *patch.Tone
	}
	return p, nil
}

func (m *mockProfiles) Delete(_ context.Context, name string) error {
	m.deleted = name
	return m.err
}

func (m *mockProfiles) List(_ context.Context) ([]string, error) {
	if m.err != nil {
		return nil, m.err
	}
	return []string{m.profile.Name}, nil
}

type mockHealth struct {
	report healthuc.Report
}

func (m *mockHealth) Check(_ context.Context) healthuc.Report { return m.report }
