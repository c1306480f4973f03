package httpadapter

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"backoffice/internal/apperr"
	"backoffice/internal/auth"
	"backoffice/internal/domain"
	"backoffice/internal/metrics"
	"backoffice/internal/ports"
	fixtures "backoffice/internal/testutil"
)

type moderationStub struct {
	ports.Moderation
	filter  ports.ReviewFilter
	flagged [2]string
	err     error
}

func (m *moderationStub) ListReviews(_ context.Context, p *auth.Principal, f ports.ReviewFilter) ([]domain.Review, error) {
	m.filter = f
	if err := auth.RequireAnyRole(p, auth.ModerationRoles...); err != nil {
		return nil, err
	}
	return []domain.Review{{ID: fixtures.TargetID, Rating: 2}}, m.err
}

func (m *moderationStub) Stats(_ context.Context, p *auth.Principal) (domain.ModerationStats, error) {
	if err := auth.RequireAnyRole(p, auth.ModerationRoles...); err != nil {
		return domain.ModerationStats{}, err
	}
	return domain.ModerationStats{FlagRate: 0.5}, m.err
}

func (m *moderationStub) FlagReview(_ context.Context, _ *auth.Principal, id, reason string) error {
	m.flagged = [2]string{id, reason}
	return m.err
}

type usersStub struct {
	ports.Users
	role  string
	grant bool
}

func (u *usersStub) SetUserRole(_ context.Context, _ *auth.Principal, _ string, role string, grant bool) error {
	u.role, u.grant = role, grant
	return nil
}

type salonsStub struct {
	ports.Salons
	filter   ports.SalonFilter
	verified []bool
}

func (s *salonsStub) SetSalonVerified(_ context.Context, _ *auth.Principal, _ string, verified bool) error {
	s.verified = append(s.verified, verified)
	return nil
}

func (s *salonsStub) List(_ context.Context, _ *auth.Principal, f ports.SalonFilter) ([]domain.Salon, error) {
	s.filter = f
	return []domain.Salon{}, nil
}

type pinger struct{ err error }

func (p pinger) Ping(context.Context) error { return p.err }

const secret = "test-secret"

type env struct {
	srv        http.Handler
	moderation *moderationStub
	users      *usersStub
	salons     *salonsStub
	reg        *prometheus.Registry
}

func newEnv(t *testing.T, db Pinger) *env {
	t.Helper()
	reg := prometheus.NewRegistry()
	e := &env{moderation: &moderationStub{}, users: &usersStub{}, salons: &salonsStub{}, reg: reg}
	e.srv = New(Services{Moderation: e.moderation, Users: e.users, Salons: e.salons}, Options{
		Verifier: auth.NewVerifier(secret),
		DB:       db,
		Metrics:  metrics.New(reg),
		Gatherer: reg,
	}).Routes()
	return e
}

func token(t *testing.T, p *auth.Principal) string {
	t.Helper()
	tok, err := auth.NewVerifier(secret).Sign(*p, time.Hour)
	require.NoError(t, err)
	return "Bearer " + tok
}

func do(t *testing.T, h http.Handler, method, target, authz, contentType, body string) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if authz != "" {
		req.Header.Set("Authorization", authz)
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	var out map[string]any
	if rec.Body.Len() > 0 && strings.HasPrefix(rec.Header().Get("Content-Type"), "application/json") {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	}
	return rec, out
}

func TestHealthz(t *testing.T) {
	rec, body := do(t, newEnv(t, pinger{}).srv, http.MethodGet, "/healthz", "", "", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", body["status"])

	rec, _ = do(t, newEnv(t, pinger{err: errors.New("dial tcp: refused")}).srv, http.MethodGet, "/healthz", "", "", "")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestAdminRequiresToken(t *testing.T) {
	e := newEnv(t, nil)

	rec, body := do(t, e.srv, http.MethodGet, "/admin/moderation/stats", "", "", "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "authentication required", body["error"])

	rec, body = do(t, e.srv, http.MethodPost, "/admin/moderation/reviews/"+fixtures.TargetID+"/flag", "Bearer garbage", "", "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "invalid token", body["error"])
}

func TestQueryResponses(t *testing.T) {
	e := newEnv(t, nil)

	rec, body := do(t, e.srv, http.MethodGet, "/admin/moderation/stats", token(t, fixtures.Moderator()), "", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 0.5, body["data"].(map[string]any)["flag_rate"])

	rec, body = do(t, e.srv, http.MethodGet, "/admin/moderation/stats", token(t, fixtures.Customer()), "", "")
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Equal(t, "insufficient permissions", body["error"])

	e.moderation.err = apperr.Internal("list reviews", errors.New("pq: connection reset"))
	rec, body = do(t, e.srv, http.MethodGet, "/admin/moderation/reviews", token(t, fixtures.Moderator()), "", "")
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "list reviews failed", body["error"])
}

func TestQueryParameterBinding(t *testing.T) {
	e := newEnv(t, nil)

	rec, _ := do(t, e.srv, http.MethodGet, "/admin/moderation/reviews?status=all&limit=25", token(t, fixtures.Moderator()), "", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, ports.ReviewFilter{Status: domain.ReviewsAll, Limit: 25}, e.moderation.filter)

	rec, body := do(t, e.srv, http.MethodGet, "/admin/moderation/reviews?limit=lots", token(t, fixtures.Moderator()), "", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "invalid limit parameter", body["error"])

	do(t, e.srv, http.MethodGet, "/admin/salons?verified=false", token(t, fixtures.SuperAdmin()), "", "")
	require.NotNil(t, e.salons.filter.Verified)
	assert.False(t, *e.salons.filter.Verified)

	do(t, e.srv, http.MethodGet, "/admin/salons", token(t, fixtures.SuperAdmin()), "", "")
	assert.Nil(t, e.salons.filter.Verified)
}

func TestMutationJSON(t *testing.T) {
	e := newEnv(t, nil)

	rec, body := do(t, e.srv, http.MethodPost, "/admin/moderation/reviews/"+fixtures.TargetID+"/flag",
		token(t, fixtures.Moderator()), "application/json", `{"reason":" spam link "}`)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, true, body["success"])
	assert.Equal(t, [2]string{fixtures.TargetID, "spam link"}, e.moderation.flagged)
}

func TestMutationFormEncoded(t *testing.T) {
	e := newEnv(t, nil)

	_, body := do(t, e.srv, http.MethodPost, "/admin/users/"+fixtures.TargetID+"/roles",
		token(t, fixtures.SuperAdmin()), "application/x-www-form-urlencoded", "role=moderator&grant=off")
	assert.Equal(t, true, body["success"])
	assert.Equal(t, "moderator", e.users.role)
	assert.False(t, e.users.grant)

	do(t, e.srv, http.MethodPost, "/admin/users/"+fixtures.TargetID+"/roles",
		token(t, fixtures.SuperAdmin()), "application/json", `{"role":"staff"}`)
	assert.True(t, e.users.grant)
}

func TestMutationErrorsStay200(t *testing.T) {
	e := newEnv(t, nil)
	e.moderation.err = apperr.NotFound("review")

	rec, body := do(t, e.srv, http.MethodPost, "/admin/moderation/reviews/"+fixtures.TargetID+"/flag",
		token(t, fixtures.Moderator()), "application/json", `{"reason":"spam"}`)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, false, body["success"])
	assert.Equal(t, "review not found", body["error"])

	rec, body = do(t, e.srv, http.MethodPost, "/admin/moderation/reviews/"+fixtures.TargetID+"/flag",
		token(t, fixtures.Moderator()), "text/csv", "a,b")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "invalid request body", body["error"])
}

func TestMetricsEndpoint(t *testing.T) {
	e := newEnv(t, nil)
	do(t, e.srv, http.MethodGet, "/admin/moderation/stats", token(t, fixtures.Moderator()), "", "")

	rec := httptest.NewRecorder()
	e.srv.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "backoffice_http_requests_total")
	assert.GreaterOrEqual(t, testutil.CollectAndCount(e.reg, "backoffice_http_requests_total"), 1)
}

func TestSetSalonVerifiedRequiresValue(t *testing.T) {
	e := newEnv(t, nil)
	target := "/admin/salons/" + fixtures.TargetID + "/verify"

	rec, body := do(t, e.srv, http.MethodPost, target, token(t, fixtures.PlatformAdmin()), "", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, false, body["success"])
	assert.Equal(t, "verified is required", body["error"])
	assert.Empty(t, e.salons.verified)

	_, body = do(t, e.srv, http.MethodPost, target, token(t, fixtures.PlatformAdmin()), "application/x-www-form-urlencoded", "verified=false")
	assert.Equal(t, true, body["success"])
	_, body = do(t, e.srv, http.MethodPost, target, token(t, fixtures.PlatformAdmin()), "application/json", `{"verified":true}`)
	assert.Equal(t, true, body["success"])
	assert.Equal(t, []bool{false, true}, e.salons.verified)
}
