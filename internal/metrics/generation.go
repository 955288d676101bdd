package metrics

import "github.com/prometheus/client_golang/prometheus"

const namespace = "astrorag"

// Generation pipeline Prometheus metrics.
var (
	BackendRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "backend_requests_total",
			Help:      "Total number of generation backend calls",
		},
		[]string{"tier", "status"}, // status: "success" / "error" / "timeout"
	)

	BackendRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "backend_request_duration_seconds",
			Help:      "Generation backend call duration in seconds",
			Buckets:   []float64{0.001, 0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 15},
		},
		[]string{"tier"},
	)

	BackendErrorsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "backend_errors_total",
			Help:      "Total generation backend errors by kind",
		},
		[]string{"tier", "error_type"},
	)

	GenerationsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "generations_total",
			Help:      "Completed generations by the tier that produced the text",
		},
		[]string{"source"},
	)

	RetrievalHintsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "retrieval_hints_total",
			Help:      "Retrieval outcomes per generation",
		},
		[]string{"result"}, // "used" / "below_threshold" / "empty" / "error"
	)

	PersonalizationDegradedTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "personalization_degraded_total",
			Help:      "Generations that fell back to a name-derived profile score",
		},
	)

	TranslationsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "translations_total",
			Help:      "Translation adapter calls",
		},
		[]string{"language", "status"},
	)

	ProfileCacheTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "profile_cache_total",
			Help:      "In-memory profile cache hits, misses and evictions",
		},
		[]string{"result"},
	)
)

var genMetricsRegistered bool

// RegisterGenerationMetrics registers generation pipeline metrics. Must be called once from main.
func RegisterGenerationMetrics() {
	if genMetricsRegistered {
		return
	}
	prometheus.MustRegister(
		BackendRequestsTotal,
		BackendRequestDuration,
		BackendErrorsTotal,
		GenerationsTotal,
		RetrievalHintsTotal,
		PersonalizationDegradedTotal,
		TranslationsTotal,
		ProfileCacheTotal,
	)
	genMetricsRegistered = true
}
