package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	QueryOutcomes = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gateway_query_outcomes_total",
			Help: "Total number of /query outcomes by kind and detail",
		},
		[]string{"kind", "detail"},
	)

	UpstreamDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "gateway_upstream_request_duration_seconds",
			Help:    "Duration of generateContent calls in seconds",
			Buckets: []float64{0.1, 0.25, 0.5, 1, 2, 5, 10, 20, 30},
		},
		[]string{"result"},
	)

	DocumentUploads = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gateway_document_uploads_total",
			Help: "Total number of document uploads by result",
		},
		[]string{"result"},
	)

	HTTPRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gateway_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "route", "status"},
	)

	HTTPDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "gateway_http_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)
)

// ObserveQueryOutcome cuenta un resultado de /query.
func ObserveQueryOutcome(kind, detail string) {
	QueryOutcomes.WithLabelValues(kind, detail).Inc()
}

// ObserveUpstream registra la latencia de una llamada al LLM.
func ObserveUpstream(result string, d time.Duration) {
	UpstreamDuration.WithLabelValues(result).Observe(d.Seconds())
}

func ObserveUpload(result string) {
	DocumentUploads.WithLabelValues(result).Inc()
}

func ObserveHTTP(method, route string, status int, d time.Duration) {
	if route == "" {
		route = "unmatched"
	}
	HTTPRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	HTTPDuration.WithLabelValues(method, route).Observe(d.Seconds())
}
