// Package users manages marketplace accounts: listing, bans, roles and
// deletion.
package users

import (
	"context"
	"time"

	"golang.org/x/sync/errgroup"

	"backoffice/internal/apperr"
	"backoffice/internal/audit"
	"backoffice/internal/auth"
	"backoffice/internal/domain"
	"backoffice/internal/ports"
	"backoffice/internal/services/mutation"
	"backoffice/internal/validate"
)

const (
	defaultLimit = 100
	maxLimit     = 500
	newUserDays  = 30
)

const usersPath = "/admin/users"

type Service struct {
	repo   ports.UserRepository
	runner *mutation.Runner
	now    func() time.Time
}

func New(repo ports.UserRepository, runner *mutation.Runner) *Service {
	return &Service{repo: repo, runner: runner, now: time.Now}
}

func (s *Service) List(ctx context.Context, p *auth.Principal, f ports.UserFilter) ([]domain.UserProfile, error) {
	if err := auth.RequireAnyRole(p, auth.AdminRoles...); err != nil {
		return nil, err
	}
	switch f.Status {
	case "":
		f.Status = "all"
	case "active", "banned", "deleted", "all":
	default:
		return nil, apperr.Validation("unknown user status %q", f.Status)
	}
	if f.Role != "" {
		if _, ok := auth.ParseRole(f.Role); !ok {
			return nil, apperr.Validation("unknown role %q", f.Role)
		}
	}
	f.Limit = validate.Limit(f.Limit, defaultLimit, maxLimit)

	users, err := s.repo.ListUsers(ctx, f)
	if err != nil {
		return nil, apperr.Internal("list users", err)
	}
	return users, nil
}

func (s *Service) Stats(ctx context.Context, p *auth.Principal) (domain.UserStats, error) {
	if err := auth.RequireAnyRole(p, auth.AdminRoles...); err != nil {
		return domain.UserStats{}, err
	}
	since := s.now().AddDate(0, 0, -newUserDays)

	var out domain.UserStats
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) { out.Counts, err = s.repo.CountUsers(gctx, since); return })
	g.Go(func() (err error) { out.Roles, err = s.repo.RoleDistribution(gctx); return })
	if err := g.Wait(); err != nil {
		return domain.UserStats{}, apperr.Internal("load user stats", err)
	}
	if out.Roles == nil {
		out.Roles = []domain.RoleCount{}
	}
	return out, nil
}

// BanUser deactivates the account, all of its roles and its sessions in one
// transaction.
func (s *Service) BanUser(ctx context.Context, p *auth.Principal, userID, reason string) error {
	if err := validate.First(validate.UUID("user_id", userID), validate.Reason(reason)); err != nil {
		return err
	}
	if err := auth.RequireAnyRole(p, auth.AdminRoles...); err != nil {
		return err
	}
	if userID == p.UserID {
		return apperr.Validation("you cannot ban your own account")
	}

	meta := map[string]any{"reason": reason}
	e := userEntry("user_banned", "ban", audit.SeverityCritical, userID, meta)
	return s.runner.Do(ctx, p, e, func(ctx context.Context) error {
		n, err := s.repo.BanUser(ctx, userID)
		if err != nil {
			return err
		}
		meta["revoked_sessions"] = n
		return nil
	}, usersPath)
}

func (s *Service) UnbanUser(ctx context.Context, p *auth.Principal, userID string) error {
	if err := validate.UUID("user_id", userID); err != nil {
		return err
	}
	if err := auth.RequireAnyRole(p, auth.AdminRoles...); err != nil {
		return err
	}
	return s.runner.Do(ctx, p, userEntry("user_unbanned", "unban", audit.SeverityWarning, userID, nil),
		func(ctx context.Context) error { return s.repo.UnbanUser(ctx, userID) },
		usersPath)
}

func (s *Service) SetUserRole(ctx context.Context, p *auth.Principal, userID, role string, grant bool) error {
	if err := validate.UUID("user_id", userID); err != nil {
		return err
	}
	r, ok := auth.ParseRole(role)
	if !ok {
		return apperr.Validation("unknown role %q", role)
	}
	if err := auth.RequireAnyRole(p, auth.SuperAdminOnly...); err != nil {
		return err
	}
	if !grant && userID == p.UserID {
		return apperr.Validation("you cannot revoke your own roles")
	}

	event, action := "role_revoked", "revoke_role"
	if grant {
		event, action = "role_granted", "grant_role"
	}
	e := userEntry(event, action, audit.SeverityWarning, userID, map[string]any{"role": string(r)})
	e.TargetTable = "user_roles"
	return s.runner.Do(ctx, p, e,
		func(ctx context.Context) error { return s.repo.SetUserRole(ctx, userID, string(r), grant) },
		usersPath)
}

func (s *Service) DeleteUser(ctx context.Context, p *auth.Principal, userID string) error {
	if err := validate.UUID("user_id", userID); err != nil {
		return err
	}
	if err := auth.RequireAnyRole(p, auth.SuperAdminOnly...); err != nil {
		return err
	}
	if userID == p.UserID {
		return apperr.Validation("you cannot delete your own account")
	}
	return s.runner.Do(ctx, p, userEntry("user_deleted", "soft_delete", audit.SeverityCritical, userID, nil),
		func(ctx context.Context) error { return s.repo.SoftDeleteUser(ctx, userID, p.UserID) },
		usersPath)
}

func userEntry(event, action string, sev audit.Severity, userID string, meta map[string]any) audit.Entry {
	return audit.Entry{
		EventType:     event,
		EventCategory: "user_management",
		Severity:      sev,
		Action:        action,
		EntityType:    "user",
		EntityID:      userID,
		TargetSchema:  "identity",
		TargetTable:   "profiles",
		TargetID:      userID,
		Metadata:      meta,
	}
}
