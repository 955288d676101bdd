package chi

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"reflect"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/kailas-cloud/astrorag/internal/domain"
	"github.com/kailas-cloud/astrorag/internal/usecase/insight"
)

const (
	defaultRetrieveK = 3
	maxBodyBytes     = 1 << 20
	degradedHeader   = "X-Degraded"
)

// errorHandler tries to handle a domain error. Returns true if handled.
type errorHandler func(w http.ResponseWriter, err error, msg string) bool

// Server serves the HTTP API.
type Server struct {
	predictor     Predictor
	searcher      Searcher
	profiles      ProfileManager
	health        HealthChecker
	tiers         TierLister
	validate      *validator.Validate
	logger        *zap.Logger
	errorHandlers []errorHandler
}

// NewServer creates an HTTP API server. profiles and tiers may be nil.
func NewServer(
	predictor Predictor,
	searcher Searcher,
	profiles ProfileManager,
	health HealthChecker,
	tiers TierLister,
	logger *zap.Logger,
) *Server {
	s := &Server{
		predictor: predictor,
		searcher:  searcher,
		profiles:  profiles,
		health:    health,
		tiers:     tiers,
		validate:  newValidator(),
		logger:    logger,
	}
	s.errorHandlers = []errorHandler{
		sentinelHandler(domain.ErrInvalidInput, http.StatusBadRequest, ErrorCodeValidationFailed),
		sentinelHandler(domain.ErrNotFound, http.StatusNotFound, ErrorCodeNotFound),
	}
	return s
}

// Register mounts the API routes on r.
func (s *Server) Register(r chi.Router) {
	r.Post("/predict", s.Predict)
	r.Post("/retrieve", s.Retrieve)
	r.Route("/profiles", func(r chi.Router) {
		r.Get("/", s.ListProfiles)
		r.Get("/{name}", s.GetProfile)
		r.Patch("/{name}", s.PatchProfile)
		r.Delete("/{name}", s.DeleteProfile)
	})
	r.Get("/health", s.HealthCheck)
	r.Get("/metrics", s.Metrics)
}

// Predict handles POST /predict.
func (s *Server) Predict(w http.ResponseWriter, r *http.Request) {
	var req PredictRequest
	if !s.decode(w, r, &req) {
		return
	}

	ctx, deg := domain.NewContextWithDegradation(r.Context())
	p, err := s.predictor.Predict(ctx, insight.Request{
		Name:       req.Name,
		BirthDate:  req.BirthDate,
		BirthTime:  req.BirthTime,
		BirthPlace: req.BirthPlace,
		Timezone:   req.Timezone,
		Language:   req.Language,
	})
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	setDegradedHeader(w, deg)
	hintIDs := p.HintIDs
	if hintIDs == nil {
		hintIDs = []int{}
	}
	writeJSON(w, http.StatusOK, PredictResponse{
		Zodiac:    string(p.Zodiac),
		Insight:   p.Insight,
		Language:  p.Language,
		Source:    string(p.Source),
		UsedHint:  p.UsedHint,
		HintIDs:   hintIDs,
		BirthZone: p.Birth.Zone,
	})
}

// Retrieve handles POST /retrieve.
func (s *Server) Retrieve(w http.ResponseWriter, r *http.Request) {
	var req RetrieveRequest
	if !s.decode(w, r, &req) {
		return
	}
	k := req.K
	if k == 0 {
		k = defaultRetrieveK
	}

	hits, err := s.searcher.Search(r.Context(), req.Query, k)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	items := make([]RetrieveItem, len(hits))
	for i := range hits {
		items[i] = RetrieveItem{ID: hits[i].ID(), Text: hits[i].Text(), Score: hits[i].Score()}
	}
	writeJSON(w, http.StatusOK, RetrieveResponse{Items: items, Total: len(items)})
}

// ListProfiles handles GET /profiles.
func (s *Server) ListProfiles(w http.ResponseWriter, r *http.Request) {
	if !s.profilesEnabled(w) {
		return
	}
	names, err := s.profiles.List(r.Context())
	if err != nil {
		s.handleDomainError(w, err)
		return
	}
	if names == nil {
		names = []string{}
	}
	writeJSON(w, http.StatusOK, ProfileListResponse{Names: names, Total: len(names)})
}

// GetProfile handles GET /profiles/{name}.
func (s *Server) GetProfile(w http.ResponseWriter, r *http.Request) {
	if !s.profilesEnabled(w) {
		return
	}
	p, err := s.profiles.Get(r.Context(), chi.URLParam(r, "name"))
	if err != nil {
		s.handleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, profileToResponse(p))
}

// PatchProfile handles PATCH /profiles/{name}.
func (s *Server) PatchProfile(w http.ResponseWriter, r *http.Request) {
	if !s.profilesEnabled(w) {
		return
	}
	var req ProfilePatchRequest
	if !s.decode(w, r, &req) {
		return
	}

	p, err := s.profiles.Patch(r.Context(), chi.URLParam(r, "name"), domain.ProfilePatch{
		Score:        req.Score,
		Tone:         req.Tone,
		Preference:   req.Preference,
		LastLanguage: req.LastLanguage,
	})
	if err != nil {
		s.handleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, profileToResponse(p))
}

// DeleteProfile handles DELETE /profiles/{name}.
func (s *Server) DeleteProfile(w http.ResponseWriter, r *http.Request) {
	if !s.profilesEnabled(w) {
		return
	}
	if err := s.profiles.Delete(r.Context(), chi.URLParam(r, "name")); err != nil {
		s.handleDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// HealthCheck handles GET /health. Degraded components still answer 200:
// the deterministic tier keeps predictions available.
func (s *Server) HealthCheck(w http.ResponseWriter, r *http.Request) {
	report := s.health.Check(r.Context())

	checks := make(map[string]string, len(report.Checks))
	for k, v := range report.Checks {
		checks[k] = string(v)
	}

	resp := HealthResponse{
		Status:     string(report.Status),
		Checks:     checks,
		CorpusSize: report.CorpusSize,
	}
	if s.tiers != nil {
		for _, t := range s.tiers.Tiers() {
			resp.Tiers = append(resp.Tiers, TierResponse{Source: string(t.Source), Available: t.Available})
		}
	}
	writeJSON(w, http.StatusOK, resp)
}

// Metrics handles GET /metrics.
func (s *Server) Metrics(w http.ResponseWriter, r *http.Request) {
	promhttp.Handler().ServeHTTP(w, r)
}

func (s *Server) profilesEnabled(w http.ResponseWriter) bool {
	if s.profiles == nil {
		writeError(w, http.StatusNotFound, ErrorCodeNotFound, "profile store disabled")
		return false
	}
	return true
}

// decode reads and validates a JSON body. Writes the error response and
// returns false on failure.
func (s *Server) decode(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(v); err != nil {
		writeError(w, http.StatusBadRequest, ErrorCodeBadRequest, "Invalid request body: "+err.Error())
		return false
	}
	if err := s.validate.Struct(v); err != nil {
		writeError(w, http.StatusBadRequest, ErrorCodeValidationFailed, validationMessage(err))
		return false
	}
	return true
}

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// validationMessage renders validator errors as "field: rule" pairs.
func validationMessage(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return "invalid request"
	}
	parts := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		rule := fe.Tag()
		if fe.Param() != "" {
			rule += "=" + fe.Param()
		}
		parts = append(parts, fmt.Sprintf("%s: %s", fe.Field(), rule))
	}
	return strings.Join(parts, "; ")
}

func setDegradedHeader(w http.ResponseWriter, deg *domain.Degradation) {
	if kinds := deg.Kinds(); len(kinds) > 0 {
		w.Header().Set(degradedHeader, strings.Join(kinds, ","))
	}
}

func profileToResponse(p domain.Profile) ProfileResponse {
	return ProfileResponse{
		Name:         p.Name,
		Score:        p.Score,
		Tone:         p.Tone,
		Preference:   p.Preference,
		LastLanguage: p.LastLanguage,
		UpdatedAt:    p.UpdatedAt,
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code ErrorCode, message string) {
	writeJSON(w, status, ErrorResponse{
		Code:    code,
		Message: message,
	})
}

// safeDomainMessage returns a client-safe message. Invalid-input errors carry
// only request-derived text; everything else collapses to its sentinel.
func safeDomainMessage(err error) string {
	if errors.Is(err, domain.ErrInvalidInput) {
		return err.Error()
	}
	if errors.Is(err, domain.ErrNotFound) {
		return domain.ErrNotFound.Error()
	}
	return domain.ErrInternal.Error()
}

// sentinelHandler returns an errorHandler that matches a single sentinel error.
func sentinelHandler(sentinel error, status int, code ErrorCode) errorHandler {
	return func(w http.ResponseWriter, err error, msg string) bool {
		if !errors.Is(err, sentinel) {
			return false
		}
		writeError(w, status, code, msg)
		return true
	}
}

func (s *Server) handleDomainError(w http.ResponseWriter, err error) {
	msg := safeDomainMessage(err)
	for _, h := range s.errorHandlers {
		if h(w, err, msg) {
			s.logger.Warn("domain error", zap.Error(err))
			return
		}
	}
	s.logger.Error("internal error", zap.Error(err))
	writeError(w, http.StatusInternalServerError, ErrorCodeInternalError, domain.ErrInternal.Error())
}
