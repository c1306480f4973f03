package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"backoffice/internal/domain"
)

func (db *DB) AppointmentsByStatus(ctx context.Context, since time.Time) ([]domain.StatusCount, error) {
	rows, err := db.Pool.Query(ctx, `
		SELECT status, count(*)
		FROM scheduling.appointments
		WHERE start_time >= $1
		GROUP BY status
	`, since)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, pgx.RowToStructByPos[domain.StatusCount])
}

// RevenueBySalon reads amounts as text so no precision is lost on the way
// into decimal.Decimal.
func (db *DB) RevenueBySalon(ctx context.Context, since time.Time) ([]domain.SalonRevenue, error) {
	rows, err := db.Pool.Query(ctx, `
		SELECT s.id, s.name, sum(a.total_amount)::text, count(*)
		FROM scheduling.appointments a
		JOIN organization.salons s ON s.id = a.salon_id
		WHERE a.status = 'completed' AND a.start_time >= $1
		GROUP BY s.id, s.name
	`, since)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (domain.SalonRevenue, error) {
		var (
			r   domain.SalonRevenue
			raw string
		)
		if err := row.Scan(&r.SalonID, &r.SalonName, &raw, &r.Appointments); err != nil {
			return r, err
		}
		amount, err := decimal.NewFromString(raw)
		if err != nil {
			return r, fmt.Errorf("revenue for salon %s: %w", r.SalonID, err)
		}
		r.Revenue = amount
		return r, nil
	})
}

func (db *DB) NewUsersByDay(ctx context.Context, since time.Time) ([]domain.DailyCount, error) {
	rows, err := db.Pool.Query(ctx, `
		SELECT (date_trunc('day', created_at AT TIME ZONE 'UTC') AT TIME ZONE 'UTC') AS day, count(*)
		FROM identity.profiles
		WHERE created_at >= $1
		GROUP BY day
		ORDER BY day
	`, since)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, pgx.RowToStructByPos[domain.DailyCount])
}

func (db *DB) RatingDistribution(ctx context.Context, since time.Time) ([]domain.RatingBucket, error) {
	rows, err := db.Pool.Query(ctx, `
		SELECT rating::int, count(*)
		FROM engagement.reviews
		WHERE deleted_at IS NULL AND created_at >= $1
		GROUP BY rating
		ORDER BY rating
	`, since)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, pgx.RowToStructByPos[domain.RatingBucket])
}
