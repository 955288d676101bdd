package health

import (
	"context"

	"github.com/kailas-cloud/astrorag/internal/domain"
)

// StorePinger checks profile store availability.
type StorePinger interface {
	Ping(ctx context.Context) error
}

// CorpusSizer reports how many snippets the retriever holds.
type CorpusSizer interface {
	Size() int
}

// Backend is a remote completion tier that can be probed.
type Backend interface {
	Source() domain.Source
	Available() bool
	HealthCheck(ctx context.Context) error
}
