package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// Registry holds the application-specific Prometheus collectors.
	Registry = prometheus.NewRegistry()

	httpRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "goldquote",
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total number of HTTP requests handled.",
		},
		[]string{"method", "path", "status"},
	)

	httpDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "goldquote",
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "Duration of HTTP requests.",
			Buckets:   prometheus.ExponentialBuckets(0.005, 2, 10),
		},
		[]string{"method", "path"},
	)

	QuotesComputed = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "goldquote",
			Subsystem: "engine",
			Name:      "quotes_total",
			Help:      "Total number of quotes computed.",
		},
		[]string{"side"},
	)

	FeesCollected = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "goldquote",
			Subsystem: "engine",
			Name:      "fees_collected_total",
			Help:      "Total number of swap fee records written.",
		},
	)

	RefreshJobs = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "goldquote",
			Subsystem: "worker",
			Name:      "refresh_jobs_total",
			Help:      "Total number of price refresh jobs processed.",
		},
		[]string{"status"},
	)
)

func init() {
	Registry.MustRegister(httpRequests, httpDuration, QuotesComputed, FeesCollected, RefreshJobs)
}

// Handler serves the registry for scraping.
func Handler() http.Handler {
	return promhttp.HandlerFor(Registry, promhttp.HandlerOpts{})
}

// ObserveRequest records one handled HTTP request.
func ObserveRequest(method, path string, status int, elapsed time.Duration) {
	httpRequests.WithLabelValues(method, path, strconv.Itoa(status)).Inc()
	httpDuration.WithLabelValues(method, path).Observe(elapsed.Seconds())
}
