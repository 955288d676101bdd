package retrieval

import (
	"context"
	"errors"
	"testing"

	"github.com/kailas-cloud/astrorag/internal/domain"
	"github.com/kailas-cloud/astrorag/internal/domain/corpus"
	"github.com/kailas-cloud/astrorag/internal/domain/search/result"
	"github.com/kailas-cloud/astrorag/internal/embedding/hash"
	"github.com/kailas-cloud/astrorag/internal/index/memory"
)

// --- Mocks ---

type mockEmbedder struct {
	vec []float32
	err error
}

func (m *mockEmbedder) Embed(_ context.Context, _ string) (domain.EmbeddingResult, error) {
	return domain.EmbeddingResult{Embedding: m.vec}, m.err
}

type mockIndex struct {
	inserted []int
	hits     []result.Result
	err      error
}

func (m *mockIndex) Insert(_ context.Context, id int, _ string, _ []float32) error {
	m.inserted = append(m.inserted, id)
	return m.err
}

func (m *mockIndex) Query(_ context.Context, _ []float32, _ int) ([]result.Result, error) {
	return m.hits, m.err
}

func (m *mockIndex) Len() int { return len(m.inserted) }

func newDefault(t *testing.T) *Service {
	t.Helper()
	emb := hash.NewEmbedder()
	svc, err := New(context.Background(), emb, memory.New(emb), corpus.Default())
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	return svc
}

// --- Tests ---

func TestNew_SeedsCorpus(t *testing.T) {
	svc := newDefault(t)
	if svc.Size() != len(corpus.Default()) {
		t.Errorf("expected %d entries, got %d", len(corpus.Default()), svc.Size())
	}
}

func TestNew_FallbackEmbedderSeeds(t *testing.T) {
	idx := &mockIndex{}
	_, err := New(context.Background(), &mockEmbedder{vec: make([]float32, domain.EmbeddingDim)}, idx, corpus.Default()[:2])
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(idx.inserted) != 2 || idx.inserted[0] != 0 || idx.inserted[1] != 1 {
		t.Errorf("unexpected inserted ids %v", idx.inserted)
	}
}

func TestNew_EmbedError(t *testing.T) {
	_, err := New(context.Background(), &mockEmbedder{err: domain.ErrInvalidInput}, &mockIndex{}, corpus.Default())
	if !errors.Is(err, domain.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

func TestRetrieve_ExactMatchRanksFirst(t *testing.T) {
	svc := newDefault(t)
	target := corpus.Default()[3].Text
	got := svc.Retrieve(context.Background(), target, 3)
	if len(got) != 3 {
		t.Fatalf("expected 3 snippets, got %d", len(got))
	}
	if got[0] != target {
		t.Errorf("expected %q first, got %q", target, got[0])
	}
}

func TestRetrieve_Deterministic(t *testing.T) {
	a := newDefault(t).Retrieve(context.Background(), "Ritika Leo", 3)
	b := newDefault(t).Retrieve(context.Background(), "Ritika Leo", 3)
	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("rank %d differs: %q vs %q", i, a[i], b[i])
		}
	}
}

func TestRetrieve_BlankOrMalformedQuery(t *testing.T) {
	svc := newDefault(t)
	for _, q := range []string{"", "   ", "\xff\xfe"} {
		got := svc.Retrieve(context.Background(), q, 3)
		if got == nil || len(got) != 0 {
			t.Errorf("query %q: expected empty non-nil slice, got %v", q, got)
		}
	}
}

func TestSearch_IndexError(t *testing.T) {
	svc := &Service{
		embed: &mockEmbedder{vec: make([]float32, domain.EmbeddingDim)},
		index: &mockIndex{err: errors.New("boom")},
	}
	if _, err := svc.Search(context.Background(), "q", 2); err == nil {
		t.Fatal("expected error")
	}
	if got := svc.Retrieve(context.Background(), "q", 2); len(got) != 0 {
		t.Errorf("expected empty result, got %v", got)
	}
}

func TestSearch_NonPositiveK(t *testing.T) {
	svc := newDefault(t)
	hits, err := svc.Search(context.Background(), "anything", 0)
	if err != nil || len(hits) != 0 {
		t.Errorf("expected no hits, got %v %v", hits, err)
	}
}
