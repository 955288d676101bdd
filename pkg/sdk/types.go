package astrorag

import "time"

// PredictRequest carries raw birth details.
type PredictRequest struct {
	Name       string
	BirthDate  string // YYYY-MM-DD
	BirthTime  string // HH:MM, optional
	BirthPlace string
	Timezone   string // IANA zone overriding the place lookup, optional
	Language   string // e.g. "hi"; empty means English
}

// Prediction is a generated insight.
type Prediction struct {
	Zodiac   string
	Insight  string
	Language string
	// Source names the backend tier, e.g. "primary-remote" or
	// "deterministic-fallback+translation-adapter".
	Source   string
	UsedHint bool
	HintIDs  []int
	// Degraded lists best-effort steps that failed and were recovered.
	Degraded []string
}

// Snippet is a ranked corpus entry.
type Snippet struct {
	ID    int
	Text  string
	Score float64
}

// Profile is a stored personalization profile.
type Profile struct {
	Name         string
	Score        int
	Tone         string
	Preference   string
	LastLanguage string
	UpdatedAt    time.Time
}

// ProfileUpdate is an additive change. Nil fields are left untouched.
type ProfileUpdate struct {
	Score        *int
	Tone         *string
	Preference   *string
	LastLanguage *string
}

// CorpusEntry is one seed snippet supplied via WithCorpus.
type CorpusEntry struct {
	ID    int
	Topic string
	Text  string
}

// HealthStatus represents the aggregated system health.
type HealthStatus struct {
	Status string            // "ok", "degraded"
	Checks map[string]string // component → "ok"/"error"/"disabled"
}
