package postgres

import (
	"context"

	"github.com/jackc/pgx/v5"

	"backoffice/internal/domain"
	"backoffice/internal/ports"
)

func (db *DB) ListSalons(ctx context.Context, f ports.SalonFilter) ([]domain.Salon, error) {
	rows, err := db.Pool.Query(ctx, `
		SELECT s.id, s.name, s.slug, s.owner_id, COALESCE(o.full_name, ''),
		       s.website_url, s.website_domain, s.is_verified, s.is_active,
		       rv.avg_rating, COALESCE(rv.n, 0), COALESCE(ap.n, 0),
		       s.created_at, s.deleted_at
		FROM organization.salons s
		LEFT JOIN identity.profiles o ON o.id = s.owner_id
		LEFT JOIN LATERAL (
		    SELECT avg(rating)::float8 AS avg_rating, count(*) AS n
		    FROM engagement.reviews WHERE salon_id = s.id AND deleted_at IS NULL
		) rv ON true
		LEFT JOIN LATERAL (
		    SELECT count(*) AS n
		    FROM scheduling.appointments
		    WHERE salon_id = s.id AND start_time >= now() - interval '30 days'
		) ap ON true
		WHERE s.deleted_at IS NULL
		  AND ($1::text = '' OR s.name ILIKE $1 OR s.slug ILIKE $1 OR s.website_domain ILIKE $1)
		  AND ($2::boolean IS NULL OR s.is_verified = $2)
		ORDER BY s.created_at DESC
		LIMIT $3
	`, likePattern(f.Search), f.Verified, f.Limit)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (domain.Salon, error) {
		var s domain.Salon
		err := row.Scan(&s.ID, &s.Name, &s.Slug, &s.OwnerID, &s.OwnerName,
			&s.WebsiteURL, &s.WebsiteDomain, &s.IsVerified, &s.IsActive,
			&s.AverageRating, &s.ReviewCount, &s.AppointmentsLast30,
			&s.CreatedAt, &s.DeletedAt)
		return s, err
	})
}

func (db *DB) UpdateSalon(ctx context.Context, u ports.SalonUpdate) error {
	return affected(db.Pool.Exec(ctx, `
		UPDATE organization.salons
		SET name = $2, website_url = $3, website_domain = $4, updated_at = now()
		WHERE id = $1 AND deleted_at IS NULL
	`, u.ID, u.Name, u.WebsiteURL, u.WebsiteDomain))
}

func (db *DB) SetSalonVerified(ctx context.Context, salonID string, verified bool) error {
	return affected(db.Pool.Exec(ctx, `
		UPDATE organization.salons SET is_verified = $2, updated_at = now()
		WHERE id = $1 AND deleted_at IS NULL
	`, salonID, verified))
}

func (db *DB) SoftDeleteSalon(ctx context.Context, salonID, deletedBy string) error {
	return affected(db.Pool.Exec(ctx, `
		UPDATE organization.salons
		SET deleted_at = now(), deleted_by_id = $2, is_active = false, updated_at = now()
		WHERE id = $1 AND deleted_at IS NULL
	`, salonID, deletedBy))
}
