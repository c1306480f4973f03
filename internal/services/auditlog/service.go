// Package auditlog lists the admin audit trail.
package auditlog

import (
	"context"

	"backoffice/internal/apperr"
	"backoffice/internal/audit"
	"backoffice/internal/auth"
	"backoffice/internal/domain"
	"backoffice/internal/ports"
	"backoffice/internal/validate"
)

const (
	defaultLimit = 100
	maxLimit     = 500
)

type Service struct {
	repo ports.AuditRepository
}

func New(repo ports.AuditRepository) *Service { return &Service{repo: repo} }

// List returns audit rows newest first.
func (s *Service) List(ctx context.Context, p *auth.Principal, f ports.AuditFilter) ([]domain.AuditLog, error) {
	if err := auth.RequireAnyRole(p, auth.SuperAdminOnly...); err != nil {
		return nil, err
	}
	switch audit.Severity(f.Severity) {
	case "", audit.SeverityInfo, audit.SeverityWarning, audit.SeverityCritical:
	default:
		return nil, apperr.Validation("unknown severity %q", f.Severity)
	}
	if f.UserID != "" {
		if err := validate.UUID("user_id", f.UserID); err != nil {
			return nil, err
		}
	}
	f.Limit = validate.Limit(f.Limit, defaultLimit, maxLimit)

	logs, err := s.repo.ListAuditLogs(ctx, f)
	if err != nil {
		return nil, apperr.Internal("list audit logs", err)
	}
	return logs, nil
}
