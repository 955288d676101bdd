package chi

import "time"

// ErrorCode is a stable machine-readable error identifier.
type ErrorCode string

// Error codes returned in ErrorResponse.
const (
	ErrorCodeBadRequest       ErrorCode = "bad_request"
	ErrorCodeValidationFailed ErrorCode = "validation_failed"
	ErrorCodeUnauthorized     ErrorCode = "unauthorized"
	ErrorCodeNotFound         ErrorCode = "not_found"
	ErrorCodeInternalError    ErrorCode = "internal_error"
)

// ErrorResponse is the body of every non-2xx response.
type ErrorResponse struct {
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
}

// PredictRequest is the body of POST /predict.
type PredictRequest struct {
	Name       string `json:"name" validate:"required,max=120"`
	BirthDate  string `json:"birth_date" validate:"required,datetime=2006-01-02"`
	BirthTime  string `json:"birth_time,omitempty" validate:"omitempty,max=8"`
	BirthPlace string `json:"birth_place,omitempty" validate:"max=200"`
	Timezone   string `json:"timezone,omitempty" validate:"omitempty,max=64"`
	Language   string `json:"language,omitempty" validate:"omitempty,max=16"`
}

// PredictResponse is the body of a successful POST /predict.
type PredictResponse struct {
	Zodiac   string `json:"zodiac"`
	Insight  string `json:"insight"`
	Language string `json:"language"`
	Source   string `json:"source"`
	UsedHint bool   `json:"used_hint"`
	HintIDs  []int  `json:"hint_ids"`
	// BirthZone is the IANA zone the birth moment was resolved in. Empty when unresolved.
	BirthZone string `json:"birth_zone,omitempty"`
}

// RetrieveRequest is the body of POST /retrieve.
type RetrieveRequest struct {
	Query string `json:"query" validate:"required,max=1000"`
	K     int    `json:"k,omitempty" validate:"omitempty,min=1,max=20"`
}

// RetrieveItem is one ranked corpus snippet.
type RetrieveItem struct {
	ID    int     `json:"id"`
	Text  string  `json:"text"`
	Score float64 `json:"score"`
}

// RetrieveResponse lists snippets in descending score order.
type RetrieveResponse struct {
	Items []RetrieveItem `json:"items"`
	Total int            `json:"total"`
}

// ProfileResponse is a stored personalization profile.
type ProfileResponse struct {
	Name         string    `json:"name"`
	Score        int       `json:"score"`
	Tone         string    `json:"tone,omitempty"`
	Preference   string    `json:"preference,omitempty"`
	LastLanguage string    `json:"last_language,omitempty"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// ProfileListResponse lists stored profile names.
type ProfileListResponse struct {
	Names []string `json:"names"`
	Total int      `json:"total"`
}

// ProfilePatchRequest is the body of PATCH /profiles/{name}. Absent fields are kept.
type ProfilePatchRequest struct {
	Score        *int    `json:"score,omitempty" validate:"omitempty,min=0,max=99"`
	Tone         *string `json:"tone,omitempty" validate:"omitempty,max=32"`
	Preference   *string `json:"preference,omitempty" validate:"omitempty,max=64"`
	LastLanguage *string `json:"last_language,omitempty" validate:"omitempty,max=16"`
}

// TierResponse describes one backend of the fallback chain.
type TierResponse struct {
	Source    string `json:"source"`
	Available bool   `json:"available"`
}

// HealthResponse is the body of GET /health.
type HealthResponse struct {
	Status     string            `json:"status"`
	Checks     map[string]string `json:"checks"`
	CorpusSize int               `json:"corpus_size"`
	Tiers      []TierResponse    `json:"tiers,omitempty"`
}
