package health

import (
	"context"
	"errors"
	"testing"

	"github.com/kailas-cloud/astrorag/internal/domain"
)

// --- Mocks ---

type mockStorePinger struct {
	err error
}

func (m *mockStorePinger) Ping(_ context.Context) error { return m.err }

type mockCorpus struct {
	size int
}

func (m *mockCorpus) Size() int { return m.size }

type mockBackend struct {
	source    domain.Source
	available bool
	err       error
	probed    bool
}

func (m *mockBackend) Source() domain.Source { return m.source }
func (m *mockBackend) Available() bool       { return m.available }
func (m *mockBackend) HealthCheck(ctx context.Context) error {
	m.probed = true
	if _, ok := ctx.Deadline(); !ok {
		return errors.New("probe without deadline")
	}
	return m.err
}

// --- Tests ---

func TestCheck_AllHealthy(t *testing.T) {
	primary := &mockBackend{source: domain.SourcePrimaryRemote, available: true}
	svc := New(&mockStorePinger{}, &mockCorpus{size: 8}, primary)
	r := svc.Check(context.Background())

	if r.Status != Healthy {
		t.Errorf("expected %q, got %q", Healthy, r.Status)
	}
	if r.Checks[checkStore] != CheckOK {
		t.Errorf("expected store %q, got %q", CheckOK, r.Checks[checkStore])
	}
	if r.Checks[string(domain.SourcePrimaryRemote)] != CheckOK {
		t.Errorf("expected primary %q, got %q", CheckOK, r.Checks[string(domain.SourcePrimaryRemote)])
	}
	if r.CorpusSize != 8 {
		t.Errorf("corpus size = %d", r.CorpusSize)
	}
}

func TestCheck_StoreError(t *testing.T) {
	svc := New(&mockStorePinger{err: errors.New("conn refused")}, &mockCorpus{size: 8})
	r := svc.Check(context.Background())

	if r.Status != Degraded {
		t.Errorf("expected %q, got %q", Degraded, r.Status)
	}
	if r.Checks[checkStore] != CheckError {
		t.Errorf("expected store %q, got %q", CheckError, r.Checks[checkStore])
	}
}

func TestCheck_BackendError(t *testing.T) {
	secondary := &mockBackend{source: domain.SourceSecondaryRemote, available: true, err: errors.New("timeout")}
	svc := New(&mockStorePinger{}, nil, secondary)
	r := svc.Check(context.Background())

	if r.Status != Degraded {
		t.Errorf("expected %q, got %q", Degraded, r.Status)
	}
	if r.Checks[string(domain.SourceSecondaryRemote)] != CheckError {
		t.Error("expected secondary error")
	}
	if _, ok := r.Checks[checkCorpus]; ok {
		t.Error("corpus check should be absent when corpus is nil")
	}
}

func TestCheck_DisabledBackendNotProbed(t *testing.T) {
	primary := &mockBackend{source: domain.SourcePrimaryRemote, err: errors.New("no key")}
	svc := New(&mockStorePinger{}, &mockCorpus{size: 1}, primary)
	r := svc.Check(context.Background())

	if r.Status != Healthy {
		t.Errorf("expected %q, got %q", Healthy, r.Status)
	}
	if r.Checks[string(domain.SourcePrimaryRemote)] != CheckDisabled {
		t.Errorf("expected disabled, got %q", r.Checks[string(domain.SourcePrimaryRemote)])
	}
	if primary.probed {
		t.Error("disabled backend must not be probed")
	}
}

func TestCheck_EmptyCorpus(t *testing.T) {
	svc := New(nil, &mockCorpus{})
	r := svc.Check(context.Background())

	if r.Status != Degraded {
		t.Errorf("expected %q, got %q", Degraded, r.Status)
	}
	if _, ok := r.Checks[checkStore]; ok {
		t.Error("store check should be absent when store is nil")
	}
}
