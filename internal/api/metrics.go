package api

import (
	"net/http"
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/nerrad567/storefront-core/internal/auth"
)

// metrics holds the Prometheus collectors exposed at /metrics.
// Each server owns its registry so tests can build servers independently.
type metrics struct {
	registry       *prometheus.Registry
	requests       *prometheus.CounterVec
	authOutcomes   *prometheus.CounterVec
	gateRejections *prometheus.CounterVec
	maintenance    prometheus.Gauge
}

func newMetrics() *metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	factory := promauto.With(reg)

	return &metrics{
		registry: reg,
		requests: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "storefront_http_requests_total",
				Help: "Total number of HTTP requests by method, route and status",
			},
			[]string{"method", "route", "status"},
		),
		authOutcomes: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "storefront_auth_outcomes_total",
				Help: "Session authentication attempts by outcome",
			},
			[]string{"outcome"},
		),
		gateRejections: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "storefront_gate_rejections_total",
				Help: "Requests refused by a role or maintenance gate",
			},
			[]string{"gate"},
		),
		maintenance: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "storefront_maintenance_enabled",
				Help: "1 while maintenance mode is on",
			},
		),
	}
}

func (m *metrics) handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

func (m *metrics) observeRequest(method, route string, status int) {
	if route == "" {
		route = "unmatched"
	}
	m.requests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
}

func (m *metrics) setMaintenance(enabled bool) {
	if enabled {
		m.maintenance.Set(1)
		return
	}
	m.maintenance.Set(0)
}

// recordAuthOutcome counts an authentication attempt in every configured sink.
func (s *Server) recordAuthOutcome(outcome auth.Outcome) {
	s.metrics.authOutcomes.WithLabelValues(string(outcome)).Inc()
	if s.telemetry != nil {
		s.telemetry.WriteAuthOutcome(string(outcome))
	}
}

// recordGateRejection counts a refused request in every configured sink.
func (s *Server) recordGateRejection(gate string, user *auth.User) {
	s.metrics.gateRejections.WithLabelValues(gate).Inc()
	if s.telemetry != nil {
		role := ""
		if user != nil {
			role = string(user.Role)
		}
		s.telemetry.WriteGateRejection(gate, role)
	}
}
