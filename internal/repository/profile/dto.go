package profile

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/kailas-cloud/astrorag/internal/domain"
)

const keyPrefix = "astrorag:profile:"

// row is the stored JSON form. Fields are additive only.
type row struct {
	Name         string `json:"name"`
	Score        int    `json:"score"`
	Tone         string `json:"tone,omitempty"`
	Preference   string `json:"preference,omitempty"`
	LastLanguage string `json:"last_language,omitempty"`
	UpdatedAt    int64  `json:"updated_at"`
}

// Key returns the storage key for a user name. Names compare case-insensitively.
func Key(name string) string {
	return keyPrefix + normalize(name)
}

func normalize(name string) string {
	return strings.ToLower(strings.Join(strings.Fields(name), " "))
}

func encode(p domain.Profile) ([]byte, error) {
	data, err := json.Marshal(row{
		Name:         p.Name,
		Score:        p.Score,
		Tone:         p.Tone,
		Preference:   p.Preference,
		LastLanguage: p.LastLanguage,
		UpdatedAt:    p.UpdatedAt.UnixMilli(),
	})
	if err != nil {
		return nil, fmt.Errorf("marshal profile: %w", err)
	}
	return data, nil
}

func decode(data []byte) (domain.Profile, error) {
	var r row
	if err := json.Unmarshal(data, &r); err != nil {
		return domain.Profile{}, fmt.Errorf("unmarshal profile: %w", err)
	}
	p := domain.Profile{
		Name:         r.Name,
		Score:        r.Score,
		Tone:         r.Tone,
		Preference:   r.Preference,
		LastLanguage: r.LastLanguage,
	}
	if r.UpdatedAt > 0 {
		p.UpdatedAt = time.UnixMilli(r.UpdatedAt).UTC()
	}
	return p, nil
}
