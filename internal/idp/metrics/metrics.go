// Package metrics exposes Prometheus counters for token issuance and
// authentication denials.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "devssoidp"

// Metrics owns a private registry so that several instances (one per test)
// never collide on the global default registry.
type Metrics struct {
	registry *prometheus.Registry

	codesIssued  prometheus.Counter
	tokensIssued *prometheus.CounterVec
	denials      *prometheus.CounterVec
	invalid      prometheus.Counter
}

// New builds the collectors and registers them together with the Go
// runtime and process collectors.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		codesIssued: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "codes_issued_total",
			Help:      "Authorization codes minted by the code endpoint.",
		}),
		tokensIssued: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "tokens_issued_total",
			Help:      "Successful token responses by grant type.",
		}, []string{"grant"}),
		denials: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "access_denied_total",
			Help:      "Requests refused with access denied, by endpoint and reason.",
		}, []string{"endpoint", "reason"}),
		invalid: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "invalid_token_requests_total",
			Help:      "Token requests rejected as structurally invalid.",
		}),
	}

	m.registry.MustRegister(
		m.codesIssued,
		m.tokensIssued,
		m.denials,
		m.invalid,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

func (m *Metrics) CodeIssued() {
	if m == nil {
		return
	}
	m.codesIssued.Inc()
}

func (m *Metrics) TokenIssued(grant string) {
	if m == nil {
		return
	}
	m.tokensIssued.WithLabelValues(grant).Inc()
}

// Denied counts one refusal. An empty reason is recorded as "unknown".
func (m *Metrics) Denied(endpoint, reason string) {
	if m == nil {
		return
	}
	if reason == "" {
		reason = "unknown"
	}
	m.denials.WithLabelValues(endpoint, reason).Inc()
}

func (m *Metrics) InvalidRequest() {
	if m == nil {
		return
	}
	m.invalid.Inc()
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// Registry is exposed for tests and for callers adding their own collectors.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}
