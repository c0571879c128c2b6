package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Command outcomes
const (
	OutcomeOK          = "ok"          // node replied with status true
	OutcomeFailed      = "failed"      // node replied with status false
	OutcomeUnreachable = "unreachable" // no usable reply
)

// Metrics holds the collectors for node commands and HTTP traffic
type Metrics struct {
	registry        *prometheus.Registry
	commands        *prometheus.CounterVec
	commandDuration *prometheus.HistogramVec
	requests        *prometheus.CounterVec
}

// New creates the collectors on a dedicated registry
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		commands: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "wallet_api",
			Name:      "node_commands_total",
			Help:      "Node commands issued, by command verb and outcome.",
		}, []string{"command", "outcome"}),
		commandDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "wallet_api",
			Name:      "node_command_duration_seconds",
			Help:      "Latency of node commands, by command verb.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"command"}),
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "wallet_api",
			Name:      "http_requests_total",
			Help:      "HTTP requests served, by method, route and status.",
		}, []string{"method", "route", "status"}),
	}

	m.registry.MustRegister(
		m.commands,
		m.commandDuration,
		m.requests,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

// ObserveCommand records one node command
func (m *Metrics) ObserveCommand(verb, outcome string, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.commands.WithLabelValues(verb, outcome).Inc()
	m.commandDuration.WithLabelValues(verb).Observe(elapsed.Seconds())
}

// ObserveRequest records one served HTTP request
func (m *Metrics) ObserveRequest(method, route string, status int) {
	if m == nil {
		return
	}
	m.requests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
}

// Handler exposes the registry in the Prometheus text format
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Registry returns the underlying registry
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}
