// Package memory implements a linear-scan similarity index held in process memory.
package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/viterin/vek/vek32"

	"github.com/kailas-cloud/astrorag/internal/domain"
	"github.com/kailas-cloud/astrorag/internal/domain/search/result"
)

type entry struct {
	id   int
	text string
	vec  []float32
}

// Index stores (id, text, vector) triples and ranks them by dot product.
// Vectors are expected to be unit norm, so the score is cosine similarity.
type Index struct {
	embedder domain.Embedder
	dim      int

	mu      sync.RWMutex
	entries []entry
	pos     map[int]int
}

// New creates an empty index. embedder computes vectors for Insert calls without one.
func New(embedder domain.Embedder) *Index {
	return &Index{
		embedder: embedder,
		dim:      domain.EmbeddingDim,
		pos:      make(map[int]int),
	}
}

// Insert adds or replaces an entry. A replaced entry keeps its original
// insertion rank for tie-breaking. A nil vec is computed from text.
func (ix *Index) Insert(ctx context.Context, id int, text string, vec []float32) error {
	if vec == nil {
		if ix.embedder == nil {
			return fmt.Errorf("insert %d: no vector and no embedder: %w", id, domain.ErrInvalidInput)
		}
		res, err := ix.embedder.Embed(ctx, text)
		if err != nil {
			return fmt.Errorf("insert %d: %w", id, err)
		}
		vec = res.Embedding
	}
	if len(vec) != ix.dim {
		return fmt.Errorf("insert %d: got %d, want %d: %w", id, len(vec), ix.dim, domain.ErrVectorDimMismatch)
	}
	e := entry{id: id, text: text, vec: append([]float32(nil), vec...)}

	ix.mu.Lock()
	defer ix.mu.Unlock()
	if i, ok := ix.pos[id]; ok {
		ix.entries[i] = e
		return nil
	}
	ix.pos[id] = len(ix.entries)
	ix.entries = append(ix.entries, e)
	return nil
}

// Query returns at most k entries ordered by score descending.
// Exact ties keep insertion order.
func (ix *Index) Query(_ context.Context, vec []float32, k int) ([]result.Result, error) {
	if len(vec) != ix.dim {
		return nil, fmt.Errorf("query: got %d, want %d: %w", len(vec), ix.dim, domain.ErrVectorDimMismatch)
	}
	if k <= 0 {
		return []result.Result{}, nil
	}

	ix.mu.RLock()
	hits := make([]result.Result, len(ix.entries))
	for i, e := range ix.entries {
		hits[i] = result.New(e.id, e.text, float64(vek32.Dot(vec, e.vec)))
	}
	ix.mu.RUnlock()

	sort.SliceStable(hits, func(i, j int) bool {
		return hits[i].Score() > hits[j].Score()
	})
	if k < len(hits) {
		hits = hits[:k]
	}
	return hits, nil
}

// Len returns the number of stored entries.
func (ix *Index) Len() int {
	ix.mu.RLock()
	defer ix.mu.RUnlock()
	return len(ix.entries)
}
