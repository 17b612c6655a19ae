// internal/common/metrics/metrics.go
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HTTPRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "engine_http_requests_total",
			Help: "Total number of HTTP requests by route and status",
		},
		[]string{"route", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: "engine_http_request_duration_seconds",
			Help: "Duration of HTTP request handling in seconds",
		},
		[]string{"route"},
	)

	MatchRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "engine_match_requests_total",
			Help: "Match computations by outcome (ok, not_found, payment_required, error)",
		},
		[]string{"outcome"},
	)

	MatchComputeDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name: "engine_match_compute_duration_seconds",
			Help: "Duration of a full match computation in seconds",
		},
	)

	MatchResultSize = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "engine_match_result_size",
			Help:    "Number of matches returned per request",
			Buckets: prometheus.LinearBuckets(0, 1, 11),
		},
	)

	PoolCacheHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "engine_pool_cache_requests_total",
			Help: "Opportunity pool snapshot cache requests by result (hit, miss, error)",
		},
		[]string{"result"},
	)

	IngestRecords = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "engine_ingest_records_total",
			Help: "Ingested feed records by disposition (inserted, duplicate, skipped)",
		},
		[]string{"disposition"},
	)
)
