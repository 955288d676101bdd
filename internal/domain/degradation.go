package domain

import (
	"context"
	"sync"
)

type degradationKey struct{}

// Degradation collects best-effort failures recovered during a single request.
// The handler puts a pointer into the context before calling the service;
// services record what degraded; the handler reports it in a response header.
type Degradation struct {
	mu    sync.Mutex
	kinds []string
}

// NewContextWithDegradation returns a context with an embedded degradation collector.
func NewContextWithDegradation(ctx context.Context) (context.Context, *Degradation) {
	d := &Degradation{}
	return context.WithValue(ctx, degradationKey{}, d), d
}

// DegradationFromContext extracts the collector from context. Returns nil if not set.
func DegradationFromContext(ctx context.Context) *Degradation {
	d, _ := ctx.Value(degradationKey{}).(*Degradation)
	return d
}

// Record notes a recovered failure by its sentinel. Duplicates are ignored.
func (d *Degradation) Record(kind error) {
	if d == nil || kind == nil {
		return
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	for _, k := range d.kinds {
		if k == kind.Error() {
			return
		}
	}
	d.kinds = append(d.kinds, kind.Error())
}

// Kinds returns recorded degradations in the order they happened.
func (d *Degradation) Kinds() []string {
	if d == nil {
		return nil
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]string(nil), d.kinds...)
}
