// Package metrics exposes Prometheus instruments for the lesson import pipeline.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Import outcomes
const (
	OutcomeSuccess = "success"
	OutcomePartial = "partial"
	OutcomeFailed  = "failed"
	OutcomeInvalid = "invalid"
)

var (
	importsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "lessonbook",
		Subsystem: "import",
		Name:      "runs_total",
		Help:      "Total number of lesson imports broken down by format and outcome.",
	}, []string{"format", "outcome"})

	importDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "lessonbook",
		Subsystem: "import",
		Name:      "duration_seconds",
		Help:      "Duration of lesson imports.",
		Buckets:   []float64{0.01, 0.05, 0.1, 0.5, 1, 2, 5, 10, 30},
	}, []string{"format"})

	termsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "lessonbook",
		Subsystem: "import",
		Name:      "terms_total",
		Help:      "Terms processed by imports, split into newly created and reused.",
	}, []string{"kind"})

	recordErrors = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "lessonbook",
		Subsystem: "import",
		Name:      "record_errors_total",
		Help:      "Records that failed at the store layer during import.",
	})
)

// ObserveImport records one finished import
func ObserveImport(format, outcome string, elapsed time.Duration) {
	if format == "" {
		format = "unknown"
	}
	importsTotal.WithLabelValues(format, outcome).Inc()
	importDuration.WithLabelValues(format).Observe(elapsed.Seconds())
}

// AddTerms counts new and reused terms of an import
func AddTerms(created, reused int) {
	termsTotal.WithLabelValues("new").Add(float64(created))
	termsTotal.WithLabelValues("reused").Add(float64(reused))
}

// AddRecordErrors counts records that failed during import
func AddRecordErrors(n int) {
	recordErrors.Add(float64(n))
}

// Handler serves the default registry
func Handler() http.Handler {
	return promhttp.Handler()
}
