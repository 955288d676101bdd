// Package profile stores personalization profiles keyed by user name.
package profile

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/kailas-cloud/astrorag/internal/db"
	"github.com/kailas-cloud/astrorag/internal/domain"
)

// store is the consumer interface for profiles (ISP).
type store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	SetWithTTL(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Del(ctx context.Context, key string) error
	Scan(ctx context.Context, prefix string) ([]string, error)
}

// Repo keeps profiles as JSON values in a key-value store. Each write is a
// single SET, so concurrent writers for one name resolve last-write-wins.
type Repo struct {
	store store
	ttl   time.Duration
}

// New creates a KV-backed profile repository. ttl <= 0 keeps profiles forever.
func New(s store, ttl time.Duration) *Repo {
	return &Repo{store: s, ttl: ttl}
}

// Get returns the profile for name or domain.ErrNotFound.
func (r *Repo) Get(ctx context.Context, name string) (domain.Profile, error) {
	data, err := r.store.Get(ctx, Key(name))
	if err != nil {
		if errors.Is(err, db.ErrKeyNotFound) {
			return domain.Profile{}, domain.ErrNotFound
		}
		return domain.Profile{}, fmt.Errorf("get profile: %w", err)
	}
	p, err := decode(data)
	if err != nil {
		return domain.Profile{}, err
	}
	return p, nil
}

// Put stores the whole profile, replacing any previous version.
func (r *Repo) Put(ctx context.Context, p domain.Profile) error {
	data, err := encode(p)
	if err != nil {
		return err
	}
	if err := r.store.SetWithTTL(ctx, Key(p.Name), data, r.ttl); err != nil {
		return fmt.Errorf("put profile: %w", err)
	}
	return nil
}

// Delete removes the profile for name. Missing profiles are not an error.
func (r *Repo) Delete(ctx context.Context, name string) error {
	if err := r.store.Del(ctx, Key(name)); err != nil {
		return fmt.Errorf("delete profile: %w", err)
	}
	return nil
}

// List returns stored profile names, sorted.
func (r *Repo) List(ctx context.Context) ([]string, error) {
	keys, err := r.store.Scan(ctx, keyPrefix)
	if err != nil {
		return nil, fmt.Errorf("scan profiles: %w", err)
	}
	names := make([]string, 0, len(keys))
	for _, k := range keys {
		names = append(names, strings.TrimPrefix(k, keyPrefix))
	}
	sort.Strings(names)
	return names, nil
}
