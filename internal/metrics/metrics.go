package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// Tracks the number of outbound API calls to the Flip platform.
	FlipRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "flip_api_requests_total",
			Help: "Total number of Flip API requests made (by endpoint and method).",
		},
		[]string{"endpoint", "method", "status"},
	)

	// Measures duration of API requests to Flip.
	FlipRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "flip_api_request_duration_seconds",
			Help:    "Duration of Flip API requests in seconds.",
			Buckets: prometheus.ExponentialBuckets(0.001, 2, 15), // 1ms → ~16s
		},
		[]string{"endpoint", "method"},
	)

	// Counts processed CSV rows by outcome.
	RowsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "onboarding_rows_total",
			Help: "Total number of CSV rows processed, by outcome.",
		},
		[]string{"outcome"},
	)

	// Counts access token refresh attempts.
	TokenRefreshTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "token_refresh_total",
			Help: "Total number of access token refresh attempts, by result.",
		},
		[]string{"result"},
	)

	NATSPublishErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "nats_publish_errors_total",
			Help: "Number of NATS publish failures",
		},
		[]string{"subject"},
	)
)

// ObserveDuration records the time taken for a function and updates the given histogram.
func ObserveDuration(v any, start time.Time, labels ...string) {
	duration := time.Since(start).Seconds()

	switch metric := v.(type) {
	case *prometheus.HistogramVec:
		metric.WithLabelValues(labels...).Observe(duration)
	case *prometheus.SummaryVec:
		metric.WithLabelValues(labels...).Observe(duration)
	default:
		// silently ignore counters; they're not meant for duration tracking
	}
}

func IncFlipRequest(endpoint, method, status string) {
	FlipRequestsTotal.WithLabelValues(endpoint, method, status).Inc()
}

func IncRow(outcome string) {
	RowsTotal.WithLabelValues(outcome).Inc()
}

func IncTokenRefresh(result string) {
	TokenRefreshTotal.WithLabelValues(result).Inc()
}

func StartServer(addr string) {
	go func() {
		http.Handle("/metrics", promhttp.Handler())
		http.ListenAndServe(addr, nil) //nolint:errcheck
	}()
}
