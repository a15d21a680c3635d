// Package metrics provides Prometheus metrics for the clipboard bridge.
package metrics

import (
	"strings"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

// Latency buckets for HTTP handling. Clipboard writes of large images can
// take seconds, hence the long tail.
var requestBuckets = []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10}

// Buckets for image normalization, which is CPU bound and scales with pixels.
var normalizeBuckets = []float64{.001, .005, .01, .05, .1, .25, .5, 1, 2.5, 5}

// Metrics holds all Prometheus collectors exported by the bridge.
type Metrics struct {
	Registry *prometheus.Registry

	RequestsTotal    *prometheus.CounterVec
	RequestDuration  *prometheus.HistogramVec
	RequestsInFlight prometheus.Gauge

	ClipsTotal         *prometheus.CounterVec
	NormalizeDuration  prometheus.Histogram
	NotificationsTotal *prometheus.CounterVec
}

// New creates a Metrics instance backed by its own registry.
func New() *Metrics {
	reg := prometheus.NewRegistry()

	reg.MustRegister(collectors.NewGoCollector())
	reg.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	m := &Metrics{
		Registry: reg,

		RequestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "clipbridge_http_requests_total",
			Help: "Total inbound HTTP requests.",
		}, []string{"method", "status_code", "path_prefix"}),

		RequestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "clipbridge_http_request_duration_seconds",
			Help:    "Inbound HTTP request latency in seconds.",
			Buckets: requestBuckets,
		}, []string{"method", "status_code", "path_prefix"}),

		RequestsInFlight: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "clipbridge_http_requests_in_flight",
			Help: "Number of HTTP requests currently being processed.",
		}),

		ClipsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "clipbridge_clips_total",
			Help: "Clip requests by payload kind and result.",
		}, []string{"kind", "result"}),

		NormalizeDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "clipbridge_normalize_duration_seconds",
			Help:    "Time spent decoding and re-encoding images.",
			Buckets: normalizeBuckets,
		}),

		NotificationsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "clipbridge_notifications_total",
			Help: "Desktop notifications by result.",
		}, []string{"result"}),
	}

	reg.MustRegister(
		m.RequestsTotal,
		m.RequestDuration,
		m.RequestsInFlight,
		m.ClipsTotal,
		m.NormalizeDuration,
		m.NotificationsTotal,
	)

	return m
}

// Label values for ClipsTotal and NotificationsTotal.
const (
	ResultOK    = "ok"
	ResultError = "error"

	KindUnknown = "unknown"
)

// knownMethods lists the allowed HTTP method label values (bounded cardinality).
var knownMethods = map[string]bool{
	"GET": true, "POST": true, "PUT": true, "DELETE": true,
	"PATCH": true, "HEAD": true, "OPTIONS": true,
}

// NormalizeMethod returns a bounded HTTP method label.
func NormalizeMethod(method string) string {
	if knownMethods[method] {
		return method
	}
	return "other"
}

var knownPrefixes = []string{"/clip", "/healthz", "/status", "/metrics"}

// NormalizePath returns a bounded path label. Only exact matches and
// sub-paths count, so "/clipboard" is "other".
func NormalizePath(path string) string {
	for _, prefix := range knownPrefixes {
		if path == prefix || strings.HasPrefix(path, prefix+"/") || strings.HasPrefix(path, prefix+"?") {
			return prefix
		}
	}
	return "other"
}
