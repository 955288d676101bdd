// Package retrieval answers semantic queries against a seeded snippet corpus.
package retrieval

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/kailas-cloud/astrorag/internal/domain"
	"github.com/kailas-cloud/astrorag/internal/domain/corpus"
	"github.com/kailas-cloud/astrorag/internal/domain/search/result"
	"github.com/kailas-cloud/astrorag/internal/logger"
)

// Service wraps an index pre-populated with a corpus.
type Service struct {
	embed Embedder
	index Index
}

// New embeds and inserts the seed corpus into index.
func New(ctx context.Context, embed Embedder, index Index, seed []corpus.Entry) (*Service, error) {
	s := &Service{embed: embed, index: index}

	texts := make([]string, len(seed))
	for i, e := range seed {
		texts[i] = e.Text
	}
	vectors, err := s.embedAll(ctx, texts)
	if err != nil {
		return nil, fmt.Errorf("embed corpus: %w", err)
	}
	for i, e := range seed {
		if err := index.Insert(ctx, e.ID, e.Text, vectors[i]); err != nil {
			return nil, fmt.Errorf("seed entry %d: %w", e.ID, err)
		}
	}
	return s, nil
}

// Search returns up to k hits for query. A blank query yields no hits.
func (s *Service) Search(ctx context.Context, query string, k int) ([]result.Result, error) {
	query = strings.TrimSpace(query)
	if query == "" || k <= 0 {
		return []result.Result{}, nil
	}
	emb, err := s.embed.Embed(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("embed query: %w", err)
	}
	hits, err := s.index.Query(ctx, emb.Embedding, k)
	if err != nil {
		return nil, fmt.Errorf("query index: %w", err)
	}
	return hits, nil
}

// Retrieve returns up to k snippet texts ranked by similarity.
// Failures yield an empty slice, never an error.
func (s *Service) Retrieve(ctx context.Context, query string, k int) []string {
	hits, err := s.Search(ctx, query, k)
	if err != nil {
		logger.FromContext(ctx).Warn("Retrieval failed",
			zap.Int("k", k),
			zap.Error(err),
		)
		return []string{}
	}
	return result.Texts(hits)
}

// Size returns the number of indexed snippets.
func (s *Service) Size() int {
	return s.index.Len()
}

func (s *Service) embedAll(ctx context.Context, texts []string) ([][]float32, error) {
	if be, ok := s.embed.(domain.BatchEmbedder); ok {
		res, err := be.BatchEmbed(ctx, texts)
		if err != nil {
			return nil, err
		}
		return res.Embeddings, nil
	}
	res, err := domain.BatchFallback(ctx, s.embed, texts)
	if err != nil {
		return nil, err
	}
	return res.Embeddings, nil
}
