package metrics

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestActionCounters(t *testing.T) {
	m := New(prometheus.NewRegistry())
	m.Action("ban_user", nil)
	m.Action("ban_user", errors.New("boom"))
	m.Action("ban_user", nil)
	m.AuditFailure()
	m.Revalidation("published", 3)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.actions.WithLabelValues("ban_user", "success")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.actions.WithLabelValues("ban_user", "error")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.auditFailures))
	assert.Equal(t, 3.0, testutil.ToFloat64(m.revalidations.WithLabelValues("published")))
}

func TestNilMetricsIsNoop(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.Action("x", nil)
		m.AuditFailure()
		m.Revalidation("dropped", 1)
	})
}

func TestMiddlewareUsesRoutePattern(t *testing.T) {
	m := New(prometheus.NewRegistry())
	r := chi.NewRouter()
	r.Use(m.Middleware)
	r.Get("/admin/users/{id}", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	})

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/admin/users/42", nil))

	assert.Equal(t, 1.0, testutil.ToFloat64(m.requests.WithLabelValues("GET", "/admin/users/{id}", "418")))
}
