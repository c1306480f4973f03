package httpadapter

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"backoffice/internal/apperr"
	"backoffice/internal/domain"
	"backoffice/internal/form"
	"backoffice/internal/ports"
)

// Queries

func (s *Server) dbHealth(w http.ResponseWriter, r *http.Request) {
	report, err := s.svc.Health.Snapshot(r.Context(), principal(r))
	query(w, r, report, err)
}

func (s *Server) listReviews(w http.ResponseWriter, r *http.Request) {
	var (
		status string
		limit  int
	)
	if err := bindQuery(r).param("status", &status).param("limit", &limit).err; err != nil {
		query(w, r, nil, err)
		return
	}
	reviews, err := s.svc.Moderation.ListReviews(r.Context(), principal(r), ports.ReviewFilter{Status: domain.ReviewStatus(status), Limit: limit})
	query(w, r, reviews, err)
}

func (s *Server) moderationStats(w http.ResponseWriter, r *http.Request) {
	stats, err := s.svc.Moderation.Stats(r.Context(), principal(r))
	query(w, r, stats, err)
}

func (s *Server) listUsers(w http.ResponseWriter, r *http.Request) {
	var f ports.UserFilter
	b := bindQuery(r).param("search", &f.Search).param("role", &f.Role).param("status", &f.Status).param("limit", &f.Limit)
	if b.err != nil {
		query(w, r, nil, b.err)
		return
	}
	users, err := s.svc.Users.List(r.Context(), principal(r), f)
	query(w, r, users, err)
}

func (s *Server) userStats(w http.ResponseWriter, r *http.Request) {
	stats, err := s.svc.Users.Stats(r.Context(), principal(r))
	query(w, r, stats, err)
}

func (s *Server) staffOversight(w http.ResponseWriter, r *http.Request) {
	var (
		status string
		limit  int
	)
	if err := bindQuery(r).param("status", &status).param("limit", &limit).err; err != nil {
		query(w, r, nil, err)
		return
	}
	out, err := s.svc.Staff.Oversight(r.Context(), principal(r), status, limit)
	query(w, r, out, err)
}

func (s *Server) listSalons(w http.ResponseWriter, r *http.Request) {
	var (
		f        ports.SalonFilter
		verified bool
	)
	b := bindQuery(r).param("search", &f.Search).param("verified", &verified).param("limit", &f.Limit)
	if b.err != nil {
		query(w, r, nil, b.err)
		return
	}
	if b.has("verified") {
		f.Verified = &verified
	}
	salons, err := s.svc.Salons.List(r.Context(), principal(r), f)
	query(w, r, salons, err)
}

func (s *Server) analytics(w http.ResponseWriter, r *http.Request) {
	var days int
	if err := bindQuery(r).param("days", &days).err; err != nil {
		query(w, r, nil, err)
		return
	}
	out, err := s.svc.Analytics.Overview(r.Context(), principal(r), days)
	query(w, r, out, err)
}

func (s *Server) auditLogs(w http.ResponseWriter, r *http.Request) {
	var f ports.AuditFilter
	b := bindQuery(r).param("category", &f.Category).param("severity", &f.Severity).param("user_id", &f.UserID).param("limit", &f.Limit)
	if b.err != nil {
		query(w, r, nil, b.err)
		return
	}
	logs, err := s.svc.AuditLog.List(r.Context(), principal(r), f)
	query(w, r, logs, err)
}

// Mutations. Each reads its payload as a JSON object or url-encoded form with
// the target id taken from the path.

func payload(r *http.Request) (form.Values, error) {
	v, err := form.Parse(r)
	if err != nil {
		return nil, apperr.Validation("invalid request body")
	}
	return v.With("id", chi.URLParam(r, "id")), nil
}

func (s *Server) mutate(w http.ResponseWriter, r *http.Request, do func(v form.Values) error) {
	v, err := payload(r)
	if err != nil {
		result(w, r, err)
		return
	}
	result(w, r, do(v))
}

func (s *Server) flagReview(w http.ResponseWriter, r *http.Request) {
	s.mutate(w, r, func(v form.Values) error {
		return s.svc.Moderation.FlagReview(r.Context(), principal(r), v.String("id"), v.String("reason"))
	})
}

func (s *Server) clearReviewFlag(w http.ResponseWriter, r *http.Request) {
	s.mutate(w, r, func(v form.Values) error {
		return s.svc.Moderation.ClearReviewFlag(r.Context(), principal(r), v.String("id"))
	})
}

func (s *Server) deleteReview(w http.ResponseWriter, r *http.Request) {
	s.mutate(w, r, func(v form.Values) error {
		return s.svc.Moderation.DeleteReview(r.Context(), principal(r), v.String("id"), v.String("reason"))
	})
}

func (s *Server) banUser(w http.ResponseWriter, r *http.Request) {
	s.mutate(w, r, func(v form.Values) error {
		return s.svc.Users.BanUser(r.Context(), principal(r), v.String("id"), v.String("reason"))
	})
}

func (s *Server) unbanUser(w http.ResponseWriter, r *http.Request) {
	s.mutate(w, r, func(v form.Values) error {
		return s.svc.Users.UnbanUser(r.Context(), principal(r), v.String("id"))
	})
}

// setUserRole grants unless the payload carries grant=false.
func (s *Server) setUserRole(w http.ResponseWriter, r *http.Request) {
	s.mutate(w, r, func(v form.Values) error {
		grant := !v.Has("grant") || v.Bool("grant")
		return s.svc.Users.SetUserRole(r.Context(), principal(r), v.String("id"), v.String("role"), grant)
	})
}

func (s *Server) deleteUser(w http.ResponseWriter, r *http.Request) {
	s.mutate(w, r, func(v form.Values) error {
		return s.svc.Users.DeleteUser(r.Context(), principal(r), v.String("id"))
	})
}

func (s *Server) suspendStaff(w http.ResponseWriter, r *http.Request) {
	s.mutate(w, r, func(v form.Values) error {
		return s.svc.Staff.SuspendStaff(r.Context(), principal(r), v.String("id"), v.String("reason"))
	})
}

func (s *Server) reinstateStaff(w http.ResponseWriter, r *http.Request) {
	s.mutate(w, r, func(v form.Values) error {
		return s.svc.Staff.ReinstateStaff(r.Context(), principal(r), v.String("id"))
	})
}

func (s *Server) updateSalon(w http.ResponseWriter, r *http.Request) {
	s.mutate(w, r, func(v form.Values) error {
		return s.svc.Salons.UpdateSalon(r.Context(), principal(r), v.String("id"), v.String("name"), v.String("website"))
	})
}

// setSalonVerified requires an explicit verified value.
func (s *Server) setSalonVerified(w http.ResponseWriter, r *http.Request) {
	s.mutate(w, r, func(v form.Values) error {
		if !v.Has("verified") {
			return apperr.Validation("verified is required")
		}
		return s.svc.Salons.SetSalonVerified(r.Context(), principal(r), v.String("id"), v.Bool("verified"))
	})
}

func (s *Server) deleteSalon(w http.ResponseWriter, r *http.Request) {
	s.mutate(w, r, func(v form.Values) error {
		return s.svc.Salons.DeleteSalon(r.Context(), principal(r), v.String("id"))
	})
}
