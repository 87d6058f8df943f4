// Package observability records Prometheus metrics for the HTTP surface and
// the session scheduler.
package observability

import (
	"strconv"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	registerOnce sync.Once

	httpRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "monocle",
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total HTTP requests.",
		},
		[]string{"method", "route", "status"},
	)
	httpDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "monocle",
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request duration in seconds.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"method", "route", "status"},
	)
	renders = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "monocle",
			Subsystem: "renderer",
			Name:      "renders_total",
			Help:      "Prototype renderings by outcome.",
		},
		[]string{"site", "success"},
	)
	messages = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "monocle",
			Subsystem: "session",
			Name:      "messages_total",
			Help:      "Messages delivered by session schedulers.",
		},
		[]string{"kind"},
	)
)

func RegisterMetrics() {
	registerOnce.Do(func() {
		prometheus.MustRegister(httpRequests, httpDuration, renders, messages)
	})
}

func RecordHTTPRequest(method, route string, status int, duration time.Duration) {
	RegisterMetrics()
	statusLabel := strconv.Itoa(status)
	httpRequests.WithLabelValues(method, route, statusLabel).Inc()
	httpDuration.WithLabelValues(method, route, statusLabel).Observe(duration.Seconds())
}

func RecordRender(site string, success bool) {
	RegisterMetrics()
	renders.WithLabelValues(site, strconv.FormatBool(success)).Inc()
}

func RecordMessage(kind string) {
	RegisterMetrics()
	messages.WithLabelValues(kind).Inc()
}
