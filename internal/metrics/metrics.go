package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "kamaru",
			Name:      "http_requests_total",
			Help:      "Total number of HTTP requests.",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "kamaru",
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	EmailsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "kamaru",
			Name:      "emails_total",
			Help:      "Outgoing emails by template and result.",
		},
		[]string{"template", "result"},
	)

	MediaOperationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "kamaru",
			Name:      "media_operations_total",
			Help:      "Media storage calls by operation and result.",
		},
		[]string{"operation", "result"},
	)

	StatsCacheTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "kamaru",
			Name:      "stats_cache_total",
			Help:      "Stats cache lookups by result.",
		},
		[]string{"result"},
	)
)

const (
	ResultOK    = "ok"
	ResultError = "error"
	ResultHit   = "hit"
	ResultMiss  = "miss"
)

func Result(err error) string {
	if err != nil {
		return ResultError
	}

	return ResultOK
}
