package generation

import (
	"context"

	"github.com/kailas-cloud/astrorag/internal/domain"
	"github.com/kailas-cloud/astrorag/internal/domain/search/result"
)

// ProfileReader reads stored profiles. domain.ErrNotFound means no profile.
type ProfileReader interface {
	Get(ctx context.Context, name string) (domain.Profile, error)
}

// Retriever answers similarity queries against the snippet corpus.
type Retriever interface {
	Search(ctx context.Context, query string, k int) ([]result.Result, error)
}

// Translator localizes finished text.
type Translator interface {
	Translate(ctx context.Context, text, lang string) (string, error)
}
