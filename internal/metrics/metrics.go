package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	PaymentsProcessedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "payments_processed_total",
			Help: "Total number of payments processed, by mode",
		},
		[]string{"mode"},
	)

	ExportsGeneratedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "exports_generated_total",
			Help: "Total number of report exports generated, by format",
		},
		[]string{"format"},
	)

	ChangeEventsPublished = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "change_events_published_total",
			Help: "Total number of change events published to the feed",
		},
	)
)
