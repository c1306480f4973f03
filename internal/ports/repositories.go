package ports

import (
	"context"
	"time"

	"backoffice/internal/domain"
)

// ErrNotFound is returned by repositories when a mutation targets no live row.
var ErrNotFound = errString("not found")

type errString string

func (e errString) Error() string { return string(e) }

type UserFilter struct {
	Search string
	Role   string
	Status string // active|banned|deleted|all
	Limit  int
}

// UserRepository reads identity.profiles and writes the ban/role lifecycle.
type UserRepository interface {
	ListUsers(ctx context.Context, f UserFilter) ([]domain.UserProfile, error)
	CountUsers(ctx context.Context, since time.Time) (domain.UserCounts, error)
	RoleDistribution(ctx context.Context) ([]domain.RoleCount, error)
	// BanUser deactivates the profile, its roles and its sessions atomically
	// and reports how many sessions were revoked.
	BanUser(ctx context.Context, userID string) (revokedSessions int, err error)
	UnbanUser(ctx context.Context, userID string) error
	SetUserRole(ctx context.Context, userID, role string, grant bool) error
	SoftDeleteUser(ctx context.Context, userID, deletedBy string) error
}

// StaffFilter narrows ListStaff. A zero Limit returns every row.
type StaffFilter struct {
	SalonID string
	Limit   int
}

type StaffRepository interface {
	ListStaff(ctx context.Context, f StaffFilter) ([]domain.StaffMember, error)
	AppointmentActivity(ctx context.Context, since time.Time) ([]domain.StaffActivity, error)
	ReviewActivity(ctx context.Context, since time.Time) ([]domain.StaffActivity, error)
	SuspendStaff(ctx context.Context, staffID, reason string) error
	ReinstateStaff(ctx context.Context, staffID string) error
}

type ReviewFilter struct {
	Status domain.ReviewStatus
	Limit  int
}

type ModerationRepository interface {
	ListReviews(ctx context.Context, f ReviewFilter) ([]domain.Review, error)
	ReviewCounts(ctx context.Context) (domain.ReviewCounts, error)
	FlaggedBySalon(ctx context.Context, limit int) ([]domain.SalonFlagCount, error)
	FlagReview(ctx context.Context, reviewID, reason, flaggedBy string) error
	ClearReviewFlag(ctx context.Context, reviewID string) error
	SoftDeleteReview(ctx context.Context, reviewID, deletedBy string) error
}

type SalonFilter struct {
	Search   string
	Verified *bool
	Limit    int
}

type SalonUpdate struct {
	ID            string
	Name          string
	WebsiteURL    *string
	WebsiteDomain *string
}

type SalonRepository interface {
	ListSalons(ctx context.Context, f SalonFilter) ([]domain.Salon, error)
	UpdateSalon(ctx context.Context, u SalonUpdate) error
	SetSalonVerified(ctx context.Context, salonID string, verified bool) error
	SoftDeleteSalon(ctx context.Context, salonID, deletedBy string) error
}

type AnalyticsRepository interface {
	AppointmentsByStatus(ctx context.Context, since time.Time) ([]domain.StatusCount, error)
	// RevenueBySalon sums completed appointment amounts per salon.
	RevenueBySalon(ctx context.Context, since time.Time) ([]domain.SalonRevenue, error)
	NewUsersByDay(ctx context.Context, since time.Time) ([]domain.DailyCount, error)
	RatingDistribution(ctx context.Context, since time.Time) ([]domain.RatingBucket, error)
}

// DatabaseHealthRepository reads storage statistics from pg_catalog for the
// given application schemas.
type DatabaseHealthRepository interface {
	TableStats(ctx context.Context, schemas []string) ([]domain.TableStat, error)
	RLSStatus(ctx context.Context, schemas []string) ([]domain.RLSStatus, error)
	IndexStats(ctx context.Context, schemas []string) ([]domain.IndexStat, error)
	Connections(ctx context.Context) ([]domain.ConnectionStat, error)
	DatabaseSize(ctx context.Context) (domain.DatabaseSize, error)
}

type AuditFilter struct {
	Category string
	Severity string
	UserID   string
	Limit    int
}

type AuditRepository interface {
	InsertAuditLog(ctx context.Context, entry domain.AuditLog) error
	ListAuditLogs(ctx context.Context, f AuditFilter) ([]domain.AuditLog, error)
}
