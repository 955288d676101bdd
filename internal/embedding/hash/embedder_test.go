package hash

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/brianvoe/gofakeit/v6"

	"github.com/kailas-cloud/astrorag/internal/domain"
)

func norm(v []float32) float64 {
	var sum float64
	for _, x := range v {
		sum += float64(x) * float64(x)
	}
	return math.Sqrt(sum)
}

func TestEmbed_Deterministic(t *testing.T) {
	e := NewEmbedder()
	a, err := e.Embed(context.Background(), "Ritika Leo")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	b, _ := NewEmbedder().Embed(context.Background(), "Ritika Leo")
	if len(a.Embedding) != domain.EmbeddingDim {
		t.Fatalf("expected dim %d, got %d", domain.EmbeddingDim, len(a.Embedding))
	}
	for i := range a.Embedding {
		if a.Embedding[i] != b.Embedding[i] {
			t.Fatalf("component %d differs: %v vs %v", i, a.Embedding[i], b.Embedding[i])
		}
	}
}

func TestEmbed_UnitNorm(t *testing.T) {
	faker := gofakeit.New(42)
	e := NewEmbedder()
	inputs := []string{"", " ", "a", "नमस्ते दुनिया"}
	for i := 0; i < 200; i++ {
		inputs = append(inputs, faker.Sentence(faker.Number(1, 20)))
	}
	for _, s := range inputs {
		res, err := e.Embed(context.Background(), s)
		if err != nil {
			t.Fatalf("embed %q: %v", s, err)
		}
		if n := norm(res.Embedding); math.Abs(n-1) > 1e-6 {
			t.Errorf("norm(%q) = %v, want 1", s, n)
		}
	}
}

func TestEmbed_DistinctInputsDiffer(t *testing.T) {
	e := NewEmbedder()
	a, _ := e.Embed(context.Background(), "leadership")
	b, _ := e.Embed(context.Background(), "health")
	same := true
	for i := range a.Embedding {
		if a.Embedding[i] != b.Embedding[i] {
			same = false
			break
		}
	}
	if same {
		t.Error("distinct inputs produced identical vectors")
	}
}

func TestEmbed_InvalidUTF8(t *testing.T) {
	_, err := NewEmbedder().Embed(context.Background(), string([]byte{0xff, 0xfe}))
	if !errors.Is(err, domain.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

func TestBatchEmbed_MatchesScalar(t *testing.T) {
	e := NewEmbedder()
	texts := []string{"alpha", "beta", "", "alpha"}
	batch, err := e.BatchEmbed(context.Background(), texts)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(batch.Embeddings) != len(texts) {
		t.Fatalf("expected %d vectors, got %d", len(texts), len(batch.Embeddings))
	}
	for i, text := range texts {
		single, _ := e.Embed(context.Background(), text)
		for j := range single.Embedding {
			if batch.Embeddings[i][j] != single.Embedding[j] {
				t.Fatalf("text %d component %d differs", i, j)
			}
		}
	}
}

func TestBatchEmbed_MatchesFallback(t *testing.T) {
	e := NewEmbedder()
	texts := []string{"one", "two"}
	native, _ := e.BatchEmbed(context.Background(), texts)
	fallback, err := domain.BatchFallback(context.Background(), e, texts)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for i := range texts {
		for j := range native.Embeddings[i] {
			if native.Embeddings[i][j] != fallback.Embeddings[i][j] {
				t.Fatalf("text %d component %d differs", i, j)
			}
		}
	}
}

func TestBatchEmbed_InvalidElement(t *testing.T) {
	_, err := NewEmbedder().BatchEmbed(context.Background(), []string{"ok", "\xff"})
	if !errors.Is(err, domain.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}
