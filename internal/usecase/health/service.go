package health

import (
	"context"
	"time"
)

// Status represents the aggregated health status.
type Status string

const (
	// Healthy indicates all components are operational.
	Healthy Status = "ok"
	// Degraded indicates partial failure. Insights are still served.
	Degraded Status = "degraded"
)

// CheckResult represents an individual component health check outcome.
type CheckResult string

const (
	// CheckOK indicates a passing health check.
	CheckOK CheckResult = "ok"
	// CheckError indicates a failing health check.
	CheckError CheckResult = "error"
	// CheckDisabled marks a backend without credentials.
	CheckDisabled CheckResult = "disabled"
)

const (
	checkStore  = "profile_store"
	checkCorpus = "corpus"

	defaultProbeTimeout = 3 * time.Second
)

// Report aggregates health check results.
type Report struct {
	Status     Status
	Checks     map[string]CheckResult
	CorpusSize int
}

// Service coordinates health checks.
type Service struct {
	store    StorePinger
	corpus   CorpusSizer
	backends []Backend
	timeout  time.Duration
}

// New creates a Service. store and corpus can be nil.
func New(store StorePinger, corpus CorpusSizer, backends ...Backend) *Service {
	return &Service{store: store, corpus: corpus, backends: backends, timeout: defaultProbeTimeout}
}

// Check runs health checks against all components. The deterministic tier
// is always present, so failures only ever degrade.
func (s *Service) Check(ctx context.Context) Report {
	checks := make(map[string]CheckResult)

	if s.store != nil {
		checks[checkStore] = result(s.store.Ping(ctx))
	}

	size := 0
	if s.corpus != nil {
		size = s.corpus.Size()
		checks[checkCorpus] = CheckOK
		if size == 0 {
			checks[checkCorpus] = CheckError
		}
	}

	for _, b := range s.backends {
		name := string(b.Source())
		if !b.Available() {
			checks[name] = CheckDisabled
			continue
		}
		probeCtx, cancel := context.WithTimeout(ctx, s.timeout)
		checks[name] = result(b.HealthCheck(probeCtx))
		cancel()
	}

	status := Healthy
	for _, v := range checks {
		if v == CheckError {
			status = Degraded
			break
		}
	}

	return Report{Status: status, Checks: checks, CorpusSize: size}
}

func result(err error) CheckResult {
	if err != nil {
		return CheckError
	}
	return CheckOK
}
