package observability

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	registerOnce         sync.Once
	httpRequestsTotal    *prometheus.CounterVec
	httpLatencySeconds   *prometheus.HistogramVec
	httpErrorsTotal      *prometheus.CounterVec
	questionsServedTotal *prometheus.CounterVec
	submissionsTotal     *prometheus.CounterVec
	loginAttemptsTotal   *prometheus.CounterVec
)

// RegisterMetrics initialises the Prometheus collectors exposed on /metrics.
func RegisterMetrics() {
	registerOnce.Do(func() {
		httpRequestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of API requests served.",
		}, []string{"method", "route", "status"})

		httpLatencySeconds = prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Latency distribution for API requests.",
			Buckets: []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1.0, 2.0},
		}, []string{"method", "route"})

		httpErrorsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "http_errors_total",
			Help: "Total number of error responses returned by the API.",
		}, []string{"method", "route", "status"})

		questionsServedTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "daily_questions_served_total",
			Help: "Questions of the day served, split by whether the fallback was used.",
		}, []string{"source"})

		submissionsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "daily_submissions_total",
			Help: "Answers recorded, by initial status.",
		}, []string{"status"})

		loginAttemptsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "daily_login_attempts_total",
			Help: "Login attempts by outcome.",
		}, []string{"outcome"})

		prometheus.MustRegister(
			httpRequestsTotal,
			httpLatencySeconds,
			httpErrorsTotal,
			questionsServedTotal,
			submissionsTotal,
			loginAttemptsTotal,
		)
	})
}

// HTTPRequests exposes the request counter.
func HTTPRequests() *prometheus.CounterVec {
	RegisterMetrics()
	return httpRequestsTotal
}

// HTTPLatency exposes the request latency histogram.
func HTTPLatency() *prometheus.HistogramVec {
	RegisterMetrics()
	return httpLatencySeconds
}

// HTTPErrors exposes the error response counter.
func HTTPErrors() *prometheus.CounterVec {
	RegisterMetrics()
	return httpErrorsTotal
}

// RecordQuestionServed counts a resolved question of the day.
func RecordQuestionServed(fallback bool) {
	RegisterMetrics()
	source := "today"
	if fallback {
		source = "fallback"
	}
	questionsServedTotal.WithLabelValues(source).Inc()
}

// RecordSubmission counts a stored answer.
func RecordSubmission(status string) {
	RegisterMetrics()
	submissionsTotal.WithLabelValues(status).Inc()
}

// RecordLogin counts a login attempt. outcome is one of success, failure or throttled.
func RecordLogin(outcome string) {
	RegisterMetrics()
	loginAttemptsTotal.WithLabelValues(outcome).Inc()
}
