// Package metrics exposes Prometheus collectors for the tracker service.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	scrapesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tracker_scrapes_total",
			Help: "Total number of extraction runs, labeled by outcome (real or placeholder).",
		},
		[]string{"outcome"},
	)

	fetchAttemptsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tracker_fetch_attempts_total",
			Help: "Total number of locator fetch attempts, labeled by result.",
		},
		[]string{"result"},
	)

	httpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests, labeled by method and code.",
		},
		[]string{"method", "code"},
	)

	httpRequestDurationSeconds = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Histogram of HTTP request latencies, labeled by method and route.",
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2, 5, 10},
		},
		[]string{"method", "route"},
	)
)

// Handler returns an http.Handler for exposing Prometheus metrics.
func Handler() http.Handler {
	return promhttp.Handler()
}

// ObserveScrape records the outcome of one extraction run.
func ObserveScrape(placeholder bool) {
	outcome := "real"
	if placeholder {
		outcome = "placeholder"
	}
	scrapesTotal.WithLabelValues(outcome).Inc()
}

// ObserveFetchAttempt records the result of a single locator fetch.
func ObserveFetchAttempt(result string) {
	fetchAttemptsTotal.WithLabelValues(result).Inc()
}

// ObserveHTTPRequest increments the HTTP request metrics.
func ObserveHTTPRequest(method, route string, code int, duration time.Duration) {
	httpRequestsTotal.WithLabelValues(method, strconv.Itoa(code)).Inc()
	httpRequestDurationSeconds.WithLabelValues(method, route).Observe(duration.Seconds())
}
