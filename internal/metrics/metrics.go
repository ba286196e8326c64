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
			Namespace: "numisma",
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total number of HTTP requests handled.",
		},
		[]string{"method", "route", "status"},
	)

	httpDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "numisma",
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "Duration of HTTP requests.",
			Buckets:   prometheus.ExponentialBuckets(0.005, 2, 10), // 5ms to ~5s
		},
		[]string{"method", "route"},
	)

	exchangeTransitions = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "numisma",
			Subsystem: "exchanges",
			Name:      "transitions_total",
			Help:      "Exchange request state transitions by action and resulting status.",
		},
		[]string{"action", "status"},
	)

	exchangeRejectedTransitions = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "numisma",
			Subsystem: "exchanges",
			Name:      "rejected_transitions_total",
			Help:      "Exchange transitions refused because of state or version conflicts.",
		},
		[]string{"action"},
	)

	websocketClients = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "numisma",
			Subsystem: "websocket",
			Name:      "clients",
			Help:      "Currently connected websocket clients.",
		},
	)
)

func init() {
	Registry.MustRegister(
		httpRequests,
		httpDuration,
		exchangeTransitions,
		exchangeRejectedTransitions,
		websocketClients,
		prometheus.NewGoCollector(),
		prometheus.NewProcessCollector(prometheus.ProcessCollectorOpts{}),
	)
}

// Handler returns an HTTP handler exposing the registry.
func Handler() http.Handler {
	return promhttp.HandlerFor(Registry, promhttp.HandlerOpts{})
}

// RecordHTTPRequest stores metrics for a handled request.
func RecordHTTPRequest(method, route string, status int, duration time.Duration) {
	httpRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	httpDuration.WithLabelValues(method, route).Observe(duration.Seconds())
}

// RecordTransition counts an applied exchange transition.
func RecordTransition(action, status string) {
	exchangeTransitions.WithLabelValues(action, status).Inc()
}

// RecordRejectedTransition counts a refused exchange transition.
func RecordRejectedTransition(action string) {
	exchangeRejectedTransitions.WithLabelValues(action).Inc()
}

// WebsocketConnected adjusts the connected clients gauge.
func WebsocketConnected(delta int) {
	websocketClients.Add(float64(delta))
}
