package astrorag

import "github.com/kailas-cloud/astrorag/internal/domain"

// Sentinel errors re-exported from the domain layer.
// Use errors.Is() to check.
var (
	ErrInvalidInput = domain.ErrInvalidInput
	ErrNotFound     = domain.ErrNotFound
	ErrInternal     = domain.ErrInternal
)
