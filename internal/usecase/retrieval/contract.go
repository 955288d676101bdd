package retrieval

import (
	"context"

	"github.com/kailas-cloud/astrorag/internal/domain"
	"github.com/kailas-cloud/astrorag/internal/domain/search/result"
)

// Index is the similarity index contract. A linear-scan index serves the
// reference scale; an ANN index can replace it behind the same methods.
type Index interface {
	Insert(ctx context.Context, id int, text string, vec []float32) error
	Query(ctx context.Context, vec []float32, k int) ([]result.Result, error)
	Len() int
}

// Embedder vectorizes text into embeddings.
type Embedder interface {
	Embed(ctx context.Context, text string) (domain.EmbeddingResult, error)
}
