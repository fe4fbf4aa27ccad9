// internal/common/metrics/metrics.go
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	FormSubmissions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "career_form_submissions_total",
			Help: "Total number of form submissions by outcome",
		},
		[]string{"outcome"},
	)

	ValidationFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "career_validation_failures_total",
			Help: "Total number of rejected form fields",
		},
		[]string{"field"},
	)

	SubmissionErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "career_submission_errors_total",
			Help: "Total number of failed submissions by error code",
		},
		[]string{"error_code"},
	)

	PredictionRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "career_prediction_request_duration_seconds",
			Help:    "Duration of calls to the prediction service in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"status"},
	)

	SubmissionsInFlight = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "career_submissions_in_flight",
			Help: "Number of submissions currently waiting on the prediction service",
		},
	)
)
