package domain

import "time"

// ProfileScoreRange is the exclusive upper bound of Profile.Score.
const ProfileScoreRange = 100

// Profile holds per-user personalization signals.
type Profile struct {
	Name         string    `json:"name"`
	Score        int       `json:"score"`
	Tone         string    `json:"tone,omitempty"`
	Preference   string    `json:"preference,omitempty"`
	LastLanguage string    `json:"last_language,omitempty"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// ProfilePatch is an additive partial update. Nil fields are left untouched.
type ProfilePatch struct {
	Score        *int    `json:"score,omitempty"`
	Tone         *string `json:"tone,omitempty"`
	Preference   *string `json:"preference,omitempty"`
	LastLanguage *string `json:"last_language,omitempty"`
}

// IsEmpty reports whether the patch carries no changes.
func (p ProfilePatch) IsEmpty() bool {
	return p.Score == nil && p.Tone == nil && p.Preference == nil && p.LastLanguage == nil
}
