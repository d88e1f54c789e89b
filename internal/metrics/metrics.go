package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "flytire"

// ServerMetrics holds the HTTP and order pipeline collectors. Each instance
// owns its registry so tests can build as many as they like.
type ServerMetrics struct {
	Requests      *prometheus.CounterVec
	LatencyMS     *prometheus.HistogramVec
	Orders        *prometheus.CounterVec
	Notifications *prometheus.HistogramVec

	registry *prometheus.Registry
}

func NewServerMetrics() *ServerMetrics {
	requests := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "http_requests_total",
		Help:      "Total number of HTTP requests.",
	}, []string{"handler", "status"})
	latency := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "http_request_duration_ms",
		Help:      "HTTP request latency in milliseconds.",
		Buckets:   []float64{5, 10, 25, 50, 100, 250, 500, 1000, 2500, 5000},
	}, []string{"handler"})
	orders := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "orders_total",
		Help:      "Orders received, by outcome.",
	}, []string{"outcome"})
	notifications := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "notification_duration_ms",
		Help:      "Messaging API call latency in milliseconds.",
		Buckets:   []float64{50, 100, 250, 500, 1000, 2500, 5000, 10000},
	}, []string{"outcome"})

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		requests, latency, orders, notifications,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	return &ServerMetrics{
		Requests:      requests,
		LatencyMS:     latency,
		Orders:        orders,
		Notifications: notifications,
		registry:      reg,
	}
}

// OrderSubmitted counts one order attempt.
func (m *ServerMetrics) OrderSubmitted(outcome string) {
	m.Orders.WithLabelValues(outcome).Inc()
}

// NotificationSent records how long the messaging API call took.
func (m *ServerMetrics) NotificationSent(outcome string, d time.Duration) {
	m.Notifications.WithLabelValues(outcome).Observe(float64(d.Milliseconds()))
}

// ObserveRequest records a finished HTTP request.
func (m *ServerMetrics) ObserveRequest(handler string, status int, d time.Duration) {
	m.Requests.WithLabelValues(handler, strconv.Itoa(status)).Inc()
	m.LatencyMS.WithLabelValues(handler).Observe(float64(d.Milliseconds()))
}

// Handler serves the registry in the Prometheus exposition format.
func (m *ServerMetrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// Registry exposes the underlying registry.
func (m *ServerMetrics) Registry() *prometheus.Registry {
	return m.registry
}
