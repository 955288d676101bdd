package profile

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/brianvoe/gofakeit/v6"

	"github.com/kailas-cloud/astrorag/internal/domain"
)

// --- Mocks ---

type mockRepo struct {
	profiles map[string]domain.Profile
	getErr   error
	putErr   error
	puts     int
}

func newMockRepo() *mockRepo {
	return &mockRepo{profiles: make(map[string]domain.Profile)}
}

func (m *mockRepo) Get(_ context.Context, name string) (domain.Profile, error) {
	if m.getErr != nil {
		return domain.Profile{}, m.getErr
	}
	p, ok := m.profiles[strings.ToLower(name)]
	if !ok {
		return domain.Profile{}, domain.ErrNotFound
	}
	return p, nil
}

func (m *mockRepo) Put(_ context.Context, p domain.Profile) error {
	if m.putErr != nil {
		return m.putErr
	}
	m.puts++
	m.profiles[strings.ToLower(p.Name)] = p
	return nil
}

func (m *mockRepo) Delete(_ context.Context, name string) error {
	delete(m.profiles, strings.ToLower(name))
	return nil
}

func (m *mockRepo) List(_ context.Context) ([]string, error) {
	var out []string
	for k := range m.profiles {
		out = append(out, k)
	}
	return out, nil
}

var fixedNow = time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)

func newTestService(repo Repository) *Service {
	s := New(repo)
	s.now = func() time.Time { return fixedNow }
	return s
}

func ptr[T any](v T) *T { return &v }

// --- Tests ---

func TestDerivedScore_DeterministicAndInRange(t *testing.T) {
	faker := gofakeit.New(7)
	for i := 0; i < 500; i++ {
		name := faker.Name()
		s := DerivedScore(name)
		if s < 0 || s >= domain.ProfileScoreRange {
			t.Fatalf("score %d for %q out of range", s, name)
		}
		if DerivedScore(name) != s {
			t.Fatalf("score for %q not deterministic", name)
		}
	}
}

func TestGetOrCreate_CreatesDerived(t *testing.T) {
	repo := newMockRepo()
	svc := newTestService(repo)

	p, err := svc.GetOrCreate(context.Background(), "  Ritika ")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.Name != "Ritika" || p.Score != DerivedScore("Ritika") {
		t.Errorf("unexpected profile %+v", p)
	}
	if !p.UpdatedAt.Equal(fixedNow) {
		t.Errorf("updated_at = %v", p.UpdatedAt)
	}

	again, _ := svc.GetOrCreate(context.Background(), "ritika")
	if again.Score != p.Score || repo.puts != 1 {
		t.Errorf("expected cached profile, puts=%d", repo.puts)
	}
}

func TestGetOrCreate_StoreError(t *testing.T) {
	repo := newMockRepo()
	repo.getErr = errors.New("conn refused")
	if _, err := newTestService(repo).GetOrCreate(context.Background(), "a"); err == nil {
		t.Fatal("expected error")
	}
}

func TestGet_Validation(t *testing.T) {
	svc := newTestService(newMockRepo())
	if _, err := svc.Get(context.Background(), "   "); !errors.Is(err, domain.ErrInvalidInput) {
		t.Errorf("expected ErrInvalidInput, got %v", err)
	}
	if _, err := svc.Get(context.Background(), "ghost"); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestPatch_Additive(t *testing.T) {
	repo := newMockRepo()
	repo.profiles["ritika"] = domain.Profile{Name: "Ritika", Score: 40, Tone: "short", Preference: "direct"}
	svc := newTestService(repo)

	got, err := svc.Patch(context.Background(), "Ritika", domain.ProfilePatch{LastLanguage: ptr(" HI ")})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Tone != "short" || got.Preference != "direct" || got.Score != 40 {
		t.Errorf("untouched fields changed: %+v", got)
	}
	if got.LastLanguage != "hi" {
		t.Errorf("last_language = %q", got.LastLanguage)
	}
	if repo.profiles["ritika"].LastLanguage != "hi" {
		t.Error("patch not persisted")
	}
}

func TestPatch_ZeroScore(t *testing.T) {
	repo := newMockRepo()
	repo.profiles["a"] = domain.Profile{Name: "a", Score: 50, Tone: "warm"}
	got, err := newTestService(repo).Patch(context.Background(), "a", domain.ProfilePatch{Score: ptr(0), Tone: ptr("blunt")})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Score != 0 || got.Tone != "blunt" {
		t.Errorf("unexpected profile %+v", got)
	}
}

func TestPatch_Invalid(t *testing.T) {
	svc := newTestService(newMockRepo())
	cases := map[string]domain.ProfilePatch{
		"empty":      {},
		"score high": {Score: ptr(100)},
		"score low":  {Score: ptr(-1)},
	}
	for name, patch := range cases {
		t.Run(name, func(t *testing.T) {
			if _, err := svc.Patch(context.Background(), "a", patch); !errors.Is(err, domain.ErrInvalidInput) {
				t.Fatalf("expected ErrInvalidInput, got %v", err)
			}
		})
	}
}

func TestPatch_PutError(t *testing.T) {
	repo := newMockRepo()
	repo.profiles["a"] = domain.Profile{Name: "a"}
	repo.putErr = errors.New("readonly")
	if _, err := newTestService(repo).Patch(context.Background(), "a", domain.ProfilePatch{Tone: ptr("x")}); err == nil {
		t.Fatal("expected error")
	}
}

func TestDeleteAndList(t *testing.T) {
	repo := newMockRepo()
	repo.profiles["a"] = domain.Profile{Name: "a"}
	svc := newTestService(repo)
	if err := svc.Delete(context.Background(), "a"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	names, err := svc.List(context.Background())
	if err != nil || len(names) != 0 {
		t.Errorf("expected empty list, got %v %v", names, err)
	}
	if err := svc.Delete(context.Background(), ""); !errors.Is(err, domain.ErrInvalidInput) {
		t.Errorf("expected ErrInvalidInput, got %v", err)
	}
}
