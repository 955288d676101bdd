package profile

import (
	"context"

	"github.com/kailas-cloud/astrorag/internal/domain"
)

// Repository defines the storage contract for profiles.
type Repository interface {
	Get(ctx context.Context, name string) (domain.Profile, error)
	Put(ctx context.Context, p domain.Profile) error
	Delete(ctx context.Context, name string) error
	List(ctx context.Context) ([]string, error)
}
