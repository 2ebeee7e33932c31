// Package metrics exposes the Prometheus collectors of the service.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// Registry holds the application-specific Prometheus collectors.
	Registry = prometheus.NewRegistry()

	httpRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "fueldepot",
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total number of HTTP requests handled.",
		},
		[]string{"method", "route", "status"},
	)

	httpDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "fueldepot",
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "Duration of HTTP requests.",
			Buckets:   prometheus.ExponentialBuckets(0.005, 2, 10),
		},
		[]string{"method", "route"},
	)

	anomalies = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "fueldepot",
			Subsystem: "calc",
			Name:      "anomalies_total",
			Help:      "Data-integrity anomalies surfaced while recomputing derived figures.",
		},
		[]string{"kind"},
	)

	reportRuns = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "fueldepot",
			Subsystem: "reporting",
			Name:      "runs_total",
			Help:      "Scheduled report runs by outcome.",
		},
		[]string{"success"},
	)
)

func init() {
	Registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		httpRequests,
		httpDuration,
		anomalies,
		reportRuns,
	)
}

// Handler serves the registry in the Prometheus exposition format.
func Handler() http.Handler {
	return promhttp.HandlerFor(Registry, promhttp.HandlerOpts{})
}

// ObserveRequest records one handled HTTP request.
func ObserveRequest(method, route string, status int, elapsed time.Duration) {
	if route == "" {
		route = "unmatched"
	}
	httpRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	httpDuration.WithLabelValues(method, route).Observe(elapsed.Seconds())
}

// RecordAnomaly counts one surfaced data-integrity anomaly.
func RecordAnomaly(kind string) {
	anomalies.WithLabelValues(kind).Inc()
}

// RecordReportRun counts a scheduled report run.
func RecordReportRun(success bool) {
	reportRuns.WithLabelValues(strconv.FormatBool(success)).Inc()
}
