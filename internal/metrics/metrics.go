// Package metrics holds the Prometheus collectors for conversions,
// detections and the HTTP API. Collectors register with the default
// registry, which the API serves on /metrics.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Conversions counts ingredient conversions by outcome and target system.
	Conversions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ottomeasure_conversions_total",
			Help: "Total number of ingredient conversions by outcome",
		},
		[]string{"outcome", "target"}, // "converted", "count", "unknown", "same_system", "missing_entry"
	)

	// Detections counts recipe system detections by result.
	Detections = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ottomeasure_detections_total",
			Help: "Total number of measurement system detections",
		},
		[]string{"system"},
	)

	// ModeChanges counts display mode switches in view sessions.
	ModeChanges = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ottomeasure_mode_changes_total",
			Help: "Total number of display mode changes",
		},
		[]string{"mode"},
	)

	// OpenViews tracks view sessions that have not been closed.
	OpenViews = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "ottomeasure_open_views",
			Help: "Current number of open recipe view sessions",
		},
	)

	APIRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ottomeasure_api_requests_total",
			Help: "Total number of API requests",
		},
		[]string{"method", "endpoint", "status"},
	)

	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "ottomeasure_api_request_duration_seconds",
			Help:    "Duration of API requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "endpoint"},
	)
)

// RecordConversion records one conversion outcome.
func RecordConversion(outcome, target string) {
	Conversions.WithLabelValues(outcome, target).Inc()
}

// RecordDetection records one system detection.
func RecordDetection(system string) {
	Detections.WithLabelValues(system).Inc()
}

// RecordModeChange records a switch to mode.
func RecordModeChange(mode string) {
	ModeChanges.WithLabelValues(mode).Inc()
}

// RecordAPIRequest records an API request metric
func RecordAPIRequest(method, endpoint, status string, duration time.Duration) {
	APIRequestsTotal.WithLabelValues(method, endpoint, status).Inc()
	APIRequestDuration.WithLabelValues(method, endpoint).Observe(duration.Seconds())
}
