package postgres

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"

	"backoffice/internal/domain"
	"backoffice/internal/ports"
)

func (db *DB) ListStaff(ctx context.Context, f ports.StaffFilter) ([]domain.StaffMember, error) {
	rows, err := db.Pool.Query(ctx, `
		SELECT sp.id, sp.salon_id, s.name, sp.user_id, sp.display_name, sp.title, sp.is_active,
		       sp.background_check_status, sp.tags, sp.suspended_at, sp.suspension_reason
		FROM organization.staff_profiles sp
		JOIN organization.salons s ON s.id = sp.salon_id AND s.deleted_at IS NULL
		WHERE ($1::text = '' OR sp.salon_id::text = $1)
		ORDER BY sp.display_name
		LIMIT NULLIF($2::int, 0)
	`, f.SalonID, f.Limit)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (domain.StaffMember, error) {
		var m domain.StaffMember
		err := row.Scan(&m.ID, &m.SalonID, &m.SalonName, &m.UserID, &m.DisplayName, &m.Title, &m.IsActive,
			&m.BackgroundCheckStatus, &m.Tags, &m.SuspendedAt, &m.SuspensionReason)
		return m, err
	})
}

func (db *DB) AppointmentActivity(ctx context.Context, since time.Time) ([]domain.StaffActivity, error) {
	rows, err := db.Pool.Query(ctx, `
		SELECT staff_id,
		       count(*),
		       count(*) FILTER (WHERE status = 'completed'),
		       count(*) FILTER (WHERE status = 'cancelled'),
		       count(*) FILTER (WHERE status = 'no_show')
		FROM scheduling.appointments
		WHERE staff_id IS NOT NULL AND start_time >= $1
		GROUP BY staff_id
	`, since)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (domain.StaffActivity, error) {
		var a domain.StaffActivity
		err := row.Scan(&a.StaffID, &a.Total, &a.Completed, &a.Cancelled, &a.NoShow)
		return a, err
	})
}

func (db *DB) ReviewActivity(ctx context.Context, since time.Time) ([]domain.StaffActivity, error) {
	rows, err := db.Pool.Query(ctx, `
		SELECT staff_id,
		       count(*),
		       count(*) FILTER (WHERE is_flagged),
		       avg(rating)::float8
		FROM engagement.reviews
		WHERE staff_id IS NOT NULL AND deleted_at IS NULL AND created_at >= $1
		GROUP BY staff_id
	`, since)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (domain.StaffActivity, error) {
		var a domain.StaffActivity
		err := row.Scan(&a.StaffID, &a.ReviewCount, &a.FlaggedReviews, &a.AverageRating)
		return a, err
	})
}

func (db *DB) SuspendStaff(ctx context.Context, staffID, reason string) error {
	return affected(db.Pool.Exec(ctx, `
		UPDATE organization.staff_profiles
		SET suspended_at = now(), suspension_reason = $2, is_active = false
		WHERE id = $1
	`, staffID, reason))
}

func (db *DB) ReinstateStaff(ctx context.Context, staffID string) error {
	return affected(db.Pool.Exec(ctx, `
		UPDATE organization.staff_profiles
		SET suspended_at = NULL, suspension_reason = NULL, is_active = true
		WHERE id = $1
	`, staffID))
}
