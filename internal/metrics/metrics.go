// Package metrics registers the prometheus collectors of the movie review service.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Review mutations
	ReviewsCreated = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "moviereview_reviews_created_total",
			Help: "Total number of reviews stored",
		},
	)

	ReviewsDeleted = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "moviereview_reviews_deleted_total",
			Help: "Total number of reviews removed",
		},
	)

	// Bulk import, labelled by outcome: loaded or skipped
	ImportRecords = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "moviereview_import_records_total",
			Help: "Source records processed by the bulk loader",
		},
		[]string{"outcome"},
	)

	// HTTP
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "moviereview_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "route", "status_code"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "moviereview_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
		},
		[]string{"method", "route"},
	)

	EventsPublished = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "moviereview_events_published_total",
			Help: "Review events sent to the broker, by type and result",
		},
		[]string{"type", "result"},
	)
)

// RecordHTTPRequest records one served request under its route template.
func RecordHTTPRequest(method, route, statusCode string, duration time.Duration) {
	HTTPRequestsTotal.WithLabelValues(method, route, statusCode).Inc()
	HTTPRequestDuration.WithLabelValues(method, route).Observe(duration.Seconds())
}
