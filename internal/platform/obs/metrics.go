package obs

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Geocode lookup outcomes.
const (
	OutcomeMatch   = "match"
	OutcomeNoMatch = "no_match"
	OutcomeError   = "error"
)

var (
	operationDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "pkgtrack",
		Subsystem: "ops",
		Name:      "duration_seconds",
		Help:      "Duration of store and geocoding operations",
		Buckets:   []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 5, 30, 120},
	}, []string{"op", "outcome"})

	geocodeLookups = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "pkgtrack",
		Subsystem: "geocode",
		Name:      "lookups_total",
		Help:      "Geocoding provider lookups by outcome",
	}, []string{"outcome"})

	batchUpdated = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "pkgtrack",
		Subsystem: "geocode",
		Name:      "batch_updated_total",
		Help:      "Packages that received coordinates from batch geocoding",
	})
)

// CountLookup records one geocoding lookup outcome.
func CountLookup(outcome string) {
	geocodeLookups.WithLabelValues(outcome).Inc()
}

// CountBatchUpdated records packages enriched by a batch run.
func CountBatchUpdated(n int) {
	if n > 0 {
		batchUpdated.Add(float64(n))
	}
}

// Handler exposes the default registry.
func Handler() http.Handler {
	return promhttp.Handler()
}
