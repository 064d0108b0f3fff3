// Package metrics exposes Prometheus instrumentation for the analysis
// pipeline at /metrics.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// AnalysesTotal counts finished analyses by template and outcome
	// (ok, bad_request, invocation_error, malformed_response).
	AnalysesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bookmatch_analyses_total",
			Help: "Total number of book analyses by template and outcome",
		},
		[]string{"template", "outcome"},
	)

	// EnrichmentTotal counts which description path was taken.
	EnrichmentTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bookmatch_enrichment_total",
			Help: "Description resolution outcomes (supplied, enriched, unavailable, model)",
		},
		[]string{"path"},
	)

	// GenerationDuration tracks generative backend latency.
	GenerationDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "bookmatch_generation_duration_seconds",
			Help:    "Latency of generative backend calls",
			Buckets: []float64{.25, .5, 1, 2.5, 5, 10, 20, 40, 80},
		},
		[]string{"provider", "status"},
	)
)

// RecordAnalysis increments the analysis counter.
func RecordAnalysis(template, outcome string) {
	AnalysesTotal.WithLabelValues(template, outcome).Inc()
}

// RecordEnrichment increments the enrichment counter for path.
func RecordEnrichment(path string) {
	EnrichmentTotal.WithLabelValues(path).Inc()
}

// ObserveGeneration records the duration of one backend call.
func ObserveGeneration(provider string, d time.Duration, err error) {
	status := "success"
	if err != nil {
		status = "error"
	}
	GenerationDuration.WithLabelValues(provider, status).Observe(d.Seconds())
}
