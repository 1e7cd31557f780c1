// Package metrics holds Prometheus instruments that are used across the
// service.  All collectors are registered with the global registry, so
// importing this package in main.go is enough to expose them on /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Submission outcomes.
const (
	OutcomeInvalid     = "invalid"
	OutcomeUnavailable = "unavailable"
	OutcomeOK          = "ok"
	OutcomeStale       = "stale"
)

var (
	Submissions = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "loanform_submissions_total",
			Help: "Form submissions by outcome.",
		}, []string{"outcome"})

	ValidationFailures = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "loanform_validation_failures_total",
			Help: "Failed validation rules by rule name.",
		}, []string{"rule"})

	SummaryRequestSeconds = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "loanform_summary_request_seconds",
			Help:    "Latency of calls to the summary service.",
			Buckets: prometheus.DefBuckets,
		})

	SummaryCache = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "loanform_summary_cache_total",
			Help: "Summary cache lookups by result (hit, miss, error).",
		}, []string{"result"})

	ActiveSessions = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "loanform_active_sessions",
			Help: "Number of form sessions currently held in memory.",
		})

	StaleResponses = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "loanform_stale_responses_total",
			Help: "Summary responses discarded because a newer submission started.",
		})

	RateLimited = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "loanform_rate_limited_total",
			Help: "Submissions rejected by the per-IP limiter.",
		})

	HTTPRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "loanform_http_requests_total",
			Help: "HTTP requests by route pattern and status code.",
		}, []string{"route", "code"})
)

func init() {
	prometheus.MustRegister(
		Submissions,
		ValidationFailures,
		SummaryRequestSeconds,
		SummaryCache,
		ActiveSessions,
		StaleResponses,
		RateLimited,
		HTTPRequests,
	)
}
