package postgres

import (
	"context"

	"github.com/jackc/pgx/v5"

	"backoffice/internal/domain"
	"backoffice/internal/ports"
)

func (db *DB) ListReviews(ctx context.Context, f ports.ReviewFilter) ([]domain.Review, error) {
	rows, err := db.Pool.Query(ctx, `
		SELECT r.id, r.salon_id, s.name, r.staff_id, r.customer_id, COALESCE(c.full_name, ''),
		       r.rating, r.comment, r.is_flagged, r.flagged_reason, r.flagged_at, r.created_at, r.deleted_at
		FROM engagement.reviews r
		JOIN organization.salons s ON s.id = r.salon_id
		LEFT JOIN identity.profiles c ON c.id = r.customer_id
		WHERE CASE $1::text
		        WHEN 'flagged' THEN r.is_flagged AND r.deleted_at IS NULL
		        WHEN 'deleted' THEN r.deleted_at IS NOT NULL
		        ELSE r.deleted_at IS NULL
		      END
		ORDER BY COALESCE(r.flagged_at, r.created_at) DESC
		LIMIT $2
	`, string(f.Status), f.Limit)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (domain.Review, error) {
		var r domain.Review
		err := row.Scan(&r.ID, &r.SalonID, &r.SalonName, &r.StaffID, &r.CustomerID, &r.CustomerName,
			&r.Rating, &r.Comment, &r.IsFlagged, &r.FlaggedReason, &r.FlaggedAt, &r.CreatedAt, &r.DeletedAt)
		return r, err
	})
}

func (db *DB) ReviewCounts(ctx context.Context) (domain.ReviewCounts, error) {
	var c domain.ReviewCounts
	err := db.Pool.QueryRow(ctx, `
		SELECT count(*),
		       count(*) FILTER (WHERE is_flagged AND deleted_at IS NULL),
		       count(*) FILTER (WHERE deleted_at IS NOT NULL),
		       count(*) FILTER (WHERE rating <= 2 AND deleted_at IS NULL)
		FROM engagement.reviews
	`).Scan(&c.Total, &c.Flagged, &c.Deleted, &c.LowRating)
	return c, err
}

func (db *DB) FlaggedBySalon(ctx context.Context, limit int) ([]domain.SalonFlagCount, error) {
	rows, err := db.Pool.Query(ctx, `
		SELECT s.id, s.name, count(*)
		FROM engagement.reviews r
		JOIN organization.salons s ON s.id = r.salon_id
		WHERE r.is_flagged AND r.deleted_at IS NULL
		GROUP BY s.id, s.name
		ORDER BY count(*) DESC, s.name
		LIMIT $1
	`, limit)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, pgx.RowToStructByPos[domain.SalonFlagCount])
}

func (db *DB) FlagReview(ctx context.Context, reviewID, reason, flaggedBy string) error {
	return affected(db.Pool.Exec(ctx, `
		UPDATE engagement.reviews
		SET is_flagged = true, flagged_reason = $2, flagged_at = now(), flagged_by_id = $3
		WHERE id = $1 AND deleted_at IS NULL
	`, reviewID, reason, flaggedBy))
}

func (db *DB) ClearReviewFlag(ctx context.Context, reviewID string) error {
	return affected(db.Pool.Exec(ctx, `
		UPDATE engagement.reviews
		SET is_flagged = false, flagged_reason = NULL, flagged_at = NULL, flagged_by_id = NULL
		WHERE id = $1 AND deleted_at IS NULL
	`, reviewID))
}

func (db *DB) SoftDeleteReview(ctx context.Context, reviewID, deletedBy string) error {
	return affected(db.Pool.Exec(ctx, `
		UPDATE engagement.reviews SET deleted_at = now(), deleted_by_id = $2
		WHERE id = $1 AND deleted_at IS NULL
	`, reviewID, deletedBy))
}
