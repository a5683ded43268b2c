// Package metrics exposes the portal's prometheus collectors.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the collectors registered on a private registry.
// A nil *Metrics is valid and records nothing.
type Metrics struct {
	registry *prometheus.Registry

	accountsProvisioned *prometheus.CounterVec
	signIns             *prometheus.CounterVec
	visibilityDecisions *prometheus.CounterVec
	httpRequests        *prometheus.CounterVec
	httpDuration        *prometheus.HistogramVec
}

// New creates the collectors on a fresh registry.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Metrics{
		registry: reg,
		accountsProvisioned: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "portal_accounts_provisioned_total",
			Help: "Account creation attempts by result",
		}, []string{"result"}),
		signIns: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "portal_sign_ins_total",
			Help: "Sign-in attempts by method and result",
		}, []string{"method", "result"}),
		visibilityDecisions: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "portal_visibility_decisions_total",
			Help: "Content visibility decisions by source and outcome",
		}, []string{"source", "visible"}),
		httpRequests: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "portal_http_requests_total",
			Help: "HTTP requests by method and status code",
		}, []string{"method", "code"}),
		httpDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "portal_http_request_duration_seconds",
			Help:    "HTTP request latency",
			Buckets: prometheus.DefBuckets,
		}, []string{"method"}),
	}
}

// Registry returns the underlying registry.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the registry in the prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// AccountProvisioned records a provisioning attempt ("created", "invalid", "denied", "rejected", "error").
func (m *Metrics) AccountProvisioned(result string) {
	if m == nil {
		return
	}
	m.accountsProvisioned.WithLabelValues(result).Inc()
}

// SignIn records a sign-in attempt.
func (m *Metrics) SignIn(method string, ok bool) {
	if m == nil {
		return
	}
	result := "success"
	if !ok {
		result = "failure"
	}
	m.signIns.WithLabelValues(method, result).Inc()
}

// VisibilityDecisions records the outcome of a filter pass over a listing.
func (m *Metrics) VisibilityDecisions(source string, visible, hidden int) {
	if m == nil {
		return
	}
	m.visibilityDecisions.WithLabelValues(source, "true").Add(float64(visible))
	m.visibilityDecisions.WithLabelValues(source, "false").Add(float64(hidden))
}

// ObserveHTTP records one served request.
func (m *Metrics) ObserveHTTP(method string, status int, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.httpRequests.WithLabelValues(method, strconv.Itoa(status)).Inc()
	m.httpDuration.WithLabelValues(method).Observe(elapsed.Seconds())
}
