package ports

import (
	"context"

	"backoffice/internal/auth"
	"backoffice/internal/domain"
)

// Every operation takes the authenticated principal explicitly.

type DatabaseHealth interface {
	Snapshot(ctx context.Context, p *auth.Principal) (domain.DatabaseHealthReport, error)
}

type Moderation interface {
	ListReviews(ctx context.Context, p *auth.Principal, f ReviewFilter) ([]domain.Review, error)
	Stats(ctx context.Context, p *auth.Principal) (domain.ModerationStats, error)
	FlagReview(ctx context.Context, p *auth.Principal, reviewID, reason string) error
	ClearReviewFlag(ctx context.Context, p *auth.Principal, reviewID string) error
	DeleteReview(ctx context.Context, p *auth.Principal, reviewID, reason string) error
}

type Users interface {
	List(ctx context.Context, p *auth.Principal, f UserFilter) ([]domain.UserProfile, error)
	Stats(ctx context.Context, p *auth.Principal) (domain.UserStats, error)
	BanUser(ctx context.Context, p *auth.Principal, userID, reason string) error
	UnbanUser(ctx context.Context, p *auth.Principal, userID string) error
	SetUserRole(ctx context.Context, p *auth.Principal, userID, role string, grant bool) error
	DeleteUser(ctx context.Context, p *auth.Principal, userID string) error
}

type Staff interface {
	Oversight(ctx context.Context, p *auth.Principal, status string, limit int) (domain.StaffOversight, error)
	SuspendStaff(ctx context.Context, p *auth.Principal, staffID, reason string) error
	ReinstateStaff(ctx context.Context, p *auth.Principal, staffID string) error
}

type Salons interface {
	List(ctx context.Context, p *auth.Principal, f SalonFilter) ([]domain.Salon, error)
	UpdateSalon(ctx context.Context, p *auth.Principal, salonID, name, website string) error
	SetSalonVerified(ctx context.Context, p *auth.Principal, salonID string, verified bool) error
	DeleteSalon(ctx context.Context, p *auth.Principal, salonID string) error
}

type Analytics interface {
	Overview(ctx context.Context, p *auth.Principal, days int) (domain.AnalyticsOverview, error)
}

type AuditLog interface {
	List(ctx context.Context, p *auth.Principal, f AuditFilter) ([]domain.AuditLog, error)
}
