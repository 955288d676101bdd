// Package profile manages per-user personalization profiles.
package profile

import (
	"context"
	"crypto/sha256"
	"encoding/binary"
	"errors"
	"fmt"
	"strings"
	"time"

	"dario.cat/mergo"

	"github.com/kailas-cloud/astrorag/internal/domain"
)

// Service handles profile lookup, creation and partial updates.
type Service struct {
	repo Repository
	now  func() time.Time
}

// New creates a profile service.
func New(repo Repository) *Service {
	return &Service{repo: repo, now: time.Now}
}

// DerivedScore is the deterministic score used when no profile is stored:
// the first four bytes of SHA-256(name), big-endian, modulo 100.
func DerivedScore(name string) int {
	sum := sha256.Sum256([]byte(name))
	return int(binary.BigEndian.Uint32(sum[:4]) % domain.ProfileScoreRange)
}

// Derived returns a profile synthesized from the name alone.
func Derived(name string) domain.Profile {
	return domain.Profile{Name: name, Score: DerivedScore(name)}
}

// Get returns the stored profile or domain.ErrNotFound.
func (s *Service) Get(ctx context.Context, name string) (domain.Profile, error) {
	name, err := validName(name)
	if err != nil {
		return domain.Profile{}, err
	}
	p, err := s.repo.Get(ctx, name)
	if err != nil {
		return domain.Profile{}, fmt.Errorf("get profile: %w", err)
	}
	return p, nil
}

// GetOrCreate returns the stored profile, creating a derived one on first use.
func (s *Service) GetOrCreate(ctx context.Context, name string) (domain.Profile, error) {
	name, err := validName(name)
	if err != nil {
		return domain.Profile{}, err
	}
	p, err := s.repo.Get(ctx, name)
	if err == nil {
		return p, nil
	}
	if !errors.Is(err, domain.ErrNotFound) {
		return domain.Profile{}, fmt.Errorf("get profile: %w", err)
	}

	p = Derived(name)
	p.UpdatedAt = s.now().UTC()
	if err := s.repo.Put(ctx, p); err != nil {
		return domain.Profile{}, fmt.Errorf("create profile: %w", err)
	}
	return p, nil
}

// Patch applies an additive update. Unset fields keep their value; a
// missing profile is created from the derived default first.
func (s *Service) Patch(ctx context.Context, name string, patch domain.ProfilePatch) (domain.Profile, error) {
	if patch.IsEmpty() {
		return domain.Profile{}, fmt.Errorf("%w: empty patch", domain.ErrInvalidInput)
	}
	if patch.Score != nil && (*patch.Score < 0 || *patch.Score >= domain.ProfileScoreRange) {
		return domain.Profile{}, fmt.Errorf("%w: score must be in [0,%d)", domain.ErrInvalidInput, domain.ProfileScoreRange)
	}

	current, err := s.GetOrCreate(ctx, name)
	if err != nil {
		return domain.Profile{}, err
	}

	if err := mergo.Merge(&current, patchToProfile(patch), mergo.WithOverride); err != nil {
		return domain.Profile{}, fmt.Errorf("%w: merge profile: %w", domain.ErrInternal, err)
	}
	// Zero is a valid score, which mergo treats as unset.
	if patch.Score != nil {
		current.Score = *patch.Score
	}
	current.UpdatedAt = s.now().UTC()

	if err := s.repo.Put(ctx, current); err != nil {
		return domain.Profile{}, fmt.Errorf("update profile: %w", err)
	}
	return current, nil
}

// Delete removes a profile.
func (s *Service) Delete(ctx context.Context, name string) error {
	name, err := validName(name)
	if err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, name); err != nil {
		return fmt.Errorf("delete profile: %w", err)
	}
	return nil
}

// List returns stored profile names.
func (s *Service) List(ctx context.Context) ([]string, error) {
	names, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list profiles: %w", err)
	}
	return names, nil
}

func patchToProfile(p domain.ProfilePatch) domain.Profile {
	var out domain.Profile
	if p.Tone != nil {
		out.Tone = strings.TrimSpace(*p.Tone)
	}
	if p.Preference != nil {
		out.Preference = strings.TrimSpace(*p.Preference)
	}
	if p.LastLanguage != nil {
		out.LastLanguage = strings.ToLower(strings.TrimSpace(*p.LastLanguage))
	}
	return out
}

func validName(name string) (string, error) {
	name = strings.Join(strings.Fields(name), " ")
	if name == "" {
		return "", fmt.Errorf("%w: name is required", domain.ErrInvalidInput)
	}
	return name, nil
}
