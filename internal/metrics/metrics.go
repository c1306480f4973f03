// Package metrics owns the prometheus collectors of the back-office service.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
)

type Metrics struct {
	requests      *prometheus.CounterVec
	duration      *prometheus.HistogramVec
	actions       *prometheus.CounterVec
	auditFailures prometheus.Counter
	revalidations *prometheus.CounterVec
}

// New registers the collectors on reg.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "backoffice_http_requests_total",
			Help: "HTTP requests by method, route pattern and status code.",
		}, []string{"method", "route", "code"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "backoffice_http_request_duration_seconds",
			Help:    "HTTP request latency by method and route pattern.",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "route"}),
		actions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "backoffice_admin_actions_total",
			Help: "Admin mutations by action and outcome.",
		}, []string{"action", "outcome"}),
		auditFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "backoffice_audit_write_failures_total",
			Help: "Audit log rows that could not be written.",
		}),
		revalidations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "backoffice_revalidations_total",
			Help: "Revalidation batches by outcome (published, failed, dropped).",
		}, []string{"outcome"}),
	}
	reg.MustRegister(m.requests, m.duration, m.actions, m.auditFailures, m.revalidations)
	return m
}

// Action counts one admin mutation. A nil receiver is a no-op so tests can skip metrics.
func (m *Metrics) Action(action string, err error) {
	if m == nil {
		return
	}
	outcome := "success"
	if err != nil {
		outcome = "error"
	}
	m.actions.WithLabelValues(action, outcome).Inc()
}

func (m *Metrics) AuditFailure() {
	if m == nil {
		return
	}
	m.auditFailures.Inc()
}

func (m *Metrics) Revalidation(outcome string, n int) {
	if m == nil {
		return
	}
	m.revalidations.WithLabelValues(outcome).Add(float64(n))
}

// Middleware records request counts and latency labelled by chi route pattern.
func (m *Metrics) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		route := "unmatched"
		if rc := chi.RouteContext(r.Context()); rc != nil {
			if p := rc.RoutePattern(); p != "" {
				route = p
			}
		}
		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		m.requests.WithLabelValues(r.Method, route, strconv.Itoa(status)).Inc()
		m.duration.WithLabelValues(r.Method, route).Observe(time.Since(start).Seconds())
	})
}
