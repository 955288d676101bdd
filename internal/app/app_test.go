package app

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/kailas-cloud/astrorag/internal/config"
	"github.com/kailas-cloud/astrorag/internal/domain"
	chiTransport "github.com/kailas-cloud/astrorag/internal/transport/chi"
)

func testConfig(t *testing.T, driver string) config.Config {
	t.Helper()
	cfg := config.Config{Profiles: config.ProfilesConfig{Driver: driver}}
	if driver == config.DriverSQLite {
		cfg.Profiles.Path = filepath.Join(t.TempDir(), "profiles.db")
	}
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("invalid test config: %v", err)
	}
	return cfg
}

func newApp(t *testing.T, driver string) *App {
	t.Helper()
	a, err := New(context.Background(), testConfig(t, driver), nil)
	if err != nil {
		t.Fatalf("build app: %v", err)
	}
	t.Cleanup(a.Close)
	return a
}

func predict(t *testing.T, h http.Handler, body string) chiTransport.PredictResponse {
	t.Helper()
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest("POST", "/predict", strings.NewReader(body)))
	if rr.Code != http.StatusOK {
		t.Fatalf("predict status = %d, body = %s", rr.Code, rr.Body.String())
	}
	var resp chiTransport.PredictResponse
	if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	return resp
}

func TestPredict_EnglishEndToEnd(t *testing.T) {
	for _, driver := range []string{config.DriverMemory, config.DriverSQLite} {
		t.Run(driver, func(t *testing.T) {
			h := newApp(t, driver).Handler()
			body := `{"name":"Ritika","birth_date":"1995-08-20","birth_time":"14:30","birth_place":"Jaipur, India","language":"en"}`

			first := predict(t, h, body)
			if first.Zodiac != "Leo" {
				t.Errorf("zodiac = %q, want Leo", first.Zodiac)
			}
			if first.Insight == "" {
				t.Error("empty insight")
			}
			if first.Language != "en" {
				t.Errorf("language = %q, want en", first.Language)
			}
			if first.Source != string(domain.SourceDeterministic) {
				t.Errorf("source = %q, want %q", first.Source, domain.SourceDeterministic)
			}
			if first.BirthZone != "Asia/Kolkata" {
				t.Errorf("birth zone = %q", first.BirthZone)
			}

			second := predict(t, h, body)
			if second.Insight != first.Insight {
				t.Errorf("insight not deterministic:\n%q\n%q", first.Insight, second.Insight)
			}
		})
	}
}

func TestPredict_HindiEndToEnd(t *testing.T) {
	h := newApp(t, config.DriverMemory).Handler()
	resp := predict(t, h, `{"name":"Aarav","birth_date":"1990-01-10","birth_place":"Mumbai","language":"hi"}`)

	if resp.Zodiac != "Capricorn" {
		t.Errorf("zodiac = %q, want Capricorn", resp.Zodiac)
	}
	if !strings.HasPrefix(resp.Insight, "[HI] ") {
		t.Errorf("insight missing marker: %q", resp.Insight)
	}
	if resp.Language != "hi" {
		t.Errorf("language = %q, want hi", resp.Language)
	}
	if resp.Source != string(domain.SourceDeterministic.WithTranslation()) {
		t.Errorf("source = %q", resp.Source)
	}
}

func TestPredict_CreatesProfile(t *testing.T) {
	a := newApp(t, config.DriverSQLite)
	h := a.Handler()
	predict(t, h, `{"name":"Ritika","birth_date":"1995-08-20","language":"hi"}`)

	p, err := a.Profiles.Get(context.Background(), "Ritika")
	if err != nil {
		t.Fatalf("profile not stored: %v", err)
	}
	if p.LastLanguage != "hi" {
		t.Errorf("last language = %q, want hi", p.LastLanguage)
	}

	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest("GET", "/profiles/ritika", http.NoBody))
	if rr.Code != http.StatusOK {
		t.Errorf("GET profile status = %d", rr.Code)
	}
}

func TestHealth_EndToEnd(t *testing.T) {
	h := newApp(t, config.DriverMemory).Handler()

	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest("GET", "/health", http.NoBody))
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d", rr.Code)
	}
	var resp chiTransport.HealthResponse
	if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Status != "ok" {
		t.Errorf("status = %q, checks = %v", resp.Status, resp.Checks)
	}
	if resp.Checks[string(domain.SourcePrimaryRemote)] != "disabled" {
		t.Errorf("primary check = %q", resp.Checks[string(domain.SourcePrimaryRemote)])
	}
	if len(resp.Tiers) != 3 {
		t.Errorf("tiers = %+v", resp.Tiers)
	}
}

func TestRetrieve_EndToEnd(t *testing.T) {
	h := newApp(t, config.DriverMemory).Handler()

	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest("POST", "/retrieve", strings.NewReader(`{"query":"Advice on leading teams gracefully.","k":2}`)))
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d", rr.Code)
	}
	var resp chiTransport.RetrieveResponse
	if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Total != 2 {
		t.Fatalf("total = %d, want 2", resp.Total)
	}
	if resp.Items[0].ID != 0 {
		t.Errorf("exact text should rank first, got id %d", resp.Items[0].ID)
	}
	if resp.Items[0].Score < 0.999 {
		t.Errorf("self similarity = %v", resp.Items[0].Score)
	}
}

func TestNew_RedisUnreachable(t *testing.T) {
	cfg := testConfig(t, config.DriverMemory)
	cfg.Profiles.Driver = config.DriverRedis
	cfg.Profiles.Addrs = []string{"127.0.0.1:1"}
	cfg.Profiles.ReadinessTimeout = 1

	if _, err := New(context.Background(), cfg, nil); err == nil {
		t.Fatal("expected error for unreachable redis")
	}
}
