package domain

import (
	"context"
	"fmt"
)

// EmbeddingDim is the fixed length of every embedding vector.
const EmbeddingDim = 64

// Embedder is the shared text vectorization contract between layers.
type Embedder interface {
	Embed(ctx context.Context, text string) (EmbeddingResult, error)
}

// BatchEmbedder vectorizes multiple texts in one call.
// Results must match calling Embed on each text independently.
type BatchEmbedder interface {
	BatchEmbed(ctx context.Context, texts []string) (BatchEmbeddingResult, error)
}

// EmbeddingResult carries a unit-norm embedding vector.
type EmbeddingResult struct {
	Embedding []float32
}

// BatchEmbeddingResult carries multiple embedding vectors in input order.
type BatchEmbeddingResult struct {
	Embeddings [][]float32
}

// BatchFallback calls Embed once per text. Safety net for embedders
// without a native batch path.
func BatchFallback(ctx context.Context, e Embedder, texts []string) (BatchEmbeddingResult, error) {
	embeddings := make([][]float32, len(texts))
	for i, text := range texts {
		res, err := e.Embed(ctx, text)
		if err != nil {
			return BatchEmbeddingResult{}, fmt.Errorf("fallback embed [%d]: %w", i, err)
		}
		embeddings[i] = res.Embedding
	}
	return BatchEmbeddingResult{Embeddings: embeddings}, nil
}
