// Package metrics exposes Prometheus metrics of the service.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/dtroode/gophspace-server/internal/model"
)

const unmatchedRoute = "unmatched"

// Metrics holds all Prometheus metrics
type Metrics struct {
	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec

	AccessDecisionsTotal *prometheus.CounterVec
	RateLimitedTotal     prometheus.Counter
	AuditFailuresTotal   *prometheus.CounterVec
	ArchivedEntriesTotal prometheus.Counter

	registry *prometheus.Registry
}

// NewMetrics creates and registers all metrics in registry.
func NewMetrics(registry *prometheus.Registry) *Metrics {
	m := &Metrics{
		HTTPRequestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "gophspace_http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "route", "status"},
		),
		HTTPRequestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "gophspace_http_request_duration_seconds",
				Help:    "HTTP request duration in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "route"},
		),
		AccessDecisionsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "gophspace_access_decisions_total",
				Help: "Total number of access control decisions",
			},
			[]string{"capability", "allowed", "reason"},
		),
		RateLimitedTotal: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "gophspace_rate_limited_requests_total",
				Help: "Total number of requests rejected by the rate limiter",
			},
		),
		AuditFailuresTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "gophspace_audit_write_failures_total",
				Help: "Total number of failed audit log writes",
			},
			[]string{"phase"},
		),
		ArchivedEntriesTotal: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "gophspace_audit_archived_entries_total",
				Help: "Total number of audit entries copied to object storage",
			},
		),
		registry: registry,
	}

	registry.MustRegister(
		m.HTTPRequestsTotal,
		m.HTTPRequestDuration,
		m.AccessDecisionsTotal,
		m.RateLimitedTotal,
		m.AuditFailuresTotal,
		m.ArchivedEntriesTotal,
	)

	return m
}

// ObserveDecision counts an access control decision.
func (m *Metrics) ObserveDecision(capability model.Capability, decision model.Decision) {
	m.AccessDecisionsTotal.WithLabelValues(
		capability.String(),
		strconv.FormatBool(decision.Allowed),
		decision.Reason.String(),
	).Inc()
}

// ObserveRateLimited counts a request rejected by the rate limiter.
func (m *Metrics) ObserveRateLimited() {
	m.RateLimitedTotal.Inc()
}

// ObserveAuditFailure counts a failed audit write of the given phase.
func (m *Metrics) ObserveAuditFailure(phase string) {
	m.AuditFailuresTotal.WithLabelValues(phase).Inc()
}

// ObserveArchived counts entries copied by the audit archiver.
func (m *Metrics) ObserveArchived(n int) {
	m.ArchivedEntriesTotal.Add(float64(n))
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

// Middleware instruments requests. Routes are labelled by their chi pattern,
// so path parameters do not create new series.
func (m *Metrics) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rw := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}

		next.ServeHTTP(rw, r)

		route := unmatchedRoute
		if rctx := chi.RouteContext(r.Context()); rctx != nil && rctx.RoutePattern() != "" {
			route = rctx.RoutePattern()
		}

		m.HTTPRequestsTotal.WithLabelValues(r.Method, route, strconv.Itoa(rw.statusCode)).Inc()
		m.HTTPRequestDuration.WithLabelValues(r.Method, route).Observe(time.Since(start).Seconds())
	})
}
