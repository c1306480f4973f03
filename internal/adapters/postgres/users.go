package postgres

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"

	"backoffice/internal/domain"
	"backoffice/internal/ports"
)

func (db *DB) ListUsers(ctx context.Context, f ports.UserFilter) ([]domain.UserProfile, error) {
	rows, err := db.Pool.Query(ctx, `
		SELECT p.id, p.email, p.full_name, p.username, p.is_active, p.created_at, p.deleted_at,
		       COALESCE(array_agg(r.role ORDER BY r.role) FILTER (WHERE r.role IS NOT NULL), '{}') AS roles
		FROM identity.profiles p
		LEFT JOIN identity.user_roles r ON r.user_id = p.id AND r.is_active
		WHERE ($1::text = '' OR p.email ILIKE $1 OR p.full_name ILIKE $1 OR p.username ILIKE $1)
		  AND ($2::text = '' OR EXISTS (
		        SELECT 1 FROM identity.user_roles ur
		        WHERE ur.user_id = p.id AND ur.role = $2 AND ur.is_active))
		  AND CASE $3::text
		        WHEN 'active'  THEN p.is_active AND p.deleted_at IS NULL
		        WHEN 'banned'  THEN NOT p.is_active AND p.deleted_at IS NULL
		        WHEN 'deleted' THEN p.deleted_at IS NOT NULL
		        ELSE true
		      END
		GROUP BY p.id
		ORDER BY p.created_at DESC
		LIMIT $4
	`, likePattern(f.Search), f.Role, f.Status, f.Limit)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (domain.UserProfile, error) {
		var u domain.UserProfile
		err := row.Scan(&u.ID, &u.Email, &u.FullName, &u.Username, &u.IsActive, &u.CreatedAt, &u.DeletedAt, &u.Roles)
		return u, err
	})
}

func (db *DB) CountUsers(ctx context.Context, since time.Time) (domain.UserCounts, error) {
	var c domain.UserCounts
	err := db.Pool.QueryRow(ctx, `
		SELECT count(*),
		       count(*) FILTER (WHERE is_active AND deleted_at IS NULL),
		       count(*) FILTER (WHERE NOT is_active AND deleted_at IS NULL),
		       count(*) FILTER (WHERE deleted_at IS NOT NULL),
		       count(*) FILTER (WHERE created_at >= $1)
		FROM identity.profiles
	`, since).Scan(&c.Total, &c.Active, &c.Banned, &c.Deleted, &c.NewLast30)
	return c, err
}

func (db *DB) RoleDistribution(ctx context.Context) ([]domain.RoleCount, error) {
	rows, err := db.Pool.Query(ctx, `
		SELECT r.role, count(DISTINCT r.user_id)
		FROM identity.user_roles r
		JOIN identity.profiles p ON p.id = r.user_id AND p.deleted_at IS NULL
		WHERE r.is_active
		GROUP BY r.role
		ORDER BY count(DISTINCT r.user_id) DESC, r.role
	`)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, pgx.RowToStructByPos[domain.RoleCount])
}

// BanUser deactivates the profile, every active role and every open session.
func (db *DB) BanUser(ctx context.Context, userID string) (revoked int, err error) {
	err = db.inTx(ctx, func(tx pgx.Tx) error {
		if err := affected(tx.Exec(ctx, `
			UPDATE identity.profiles SET is_active = false, updated_at = now()
			WHERE id = $1 AND deleted_at IS NULL
		`, userID)); err != nil {
			return err
		}
		if _, err := tx.Exec(ctx, `UPDATE identity.user_roles SET is_active = false WHERE user_id = $1 AND is_active`, userID); err != nil {
			return err
		}
		tag, err := tx.Exec(ctx, `UPDATE identity.sessions SET revoked_at = now() WHERE user_id = $1 AND revoked_at IS NULL`, userID)
		if err != nil {
			return err
		}
		revoked = int(tag.RowsAffected())
		return nil
	})
	return revoked, err
}

// UnbanUser reactivates the profile only. Roles revoked by the ban stay
// revoked and must be granted again.
func (db *DB) UnbanUser(ctx context.Context, userID string) error {
	return affected(db.Pool.Exec(ctx, `
		UPDATE identity.profiles SET is_active = true, updated_at = now()
		WHERE id = $1 AND deleted_at IS NULL
	`, userID))
}

func (db *DB) SetUserRole(ctx context.Context, userID, role string, grant bool) error {
	return db.inTx(ctx, func(tx pgx.Tx) error {
		var exists bool
		if err := tx.QueryRow(ctx, `
			SELECT EXISTS (SELECT 1 FROM identity.profiles WHERE id = $1 AND deleted_at IS NULL)
		`, userID).Scan(&exists); err != nil {
			return err
		}
		if !exists {
			return ports.ErrNotFound
		}
		if grant {
			_, err := tx.Exec(ctx, `
				INSERT INTO identity.user_roles (user_id, role, is_active)
				VALUES ($1, $2, true)
				ON CONFLICT (user_id, role) WHERE salon_id IS NULL DO UPDATE SET is_active = true
			`, userID, role)
			return err
		}
		_, err := tx.Exec(ctx, `
			UPDATE identity.user_roles SET is_active = false
			WHERE user_id = $1 AND role = $2 AND is_active
		`, userID, role)
		return err
	})
}

// SoftDeleteUser marks the profile deleted and revokes its roles and sessions.
func (db *DB) SoftDeleteUser(ctx context.Context, userID, deletedBy string) error {
	return db.inTx(ctx, func(tx pgx.Tx) error {
		if err := affected(tx.Exec(ctx, `
			UPDATE identity.profiles
			SET deleted_at = now(), deleted_by_id = $2, is_active = false, updated_at = now()
			WHERE id = $1 AND deleted_at IS NULL
		`, userID, deletedBy)); err != nil {
			return err
		}
		if _, err := tx.Exec(ctx, `UPDATE identity.user_roles SET is_active = false WHERE user_id = $1`, userID); err != nil {
			return err
		}
		_, err := tx.Exec(ctx, `UPDATE identity.sessions SET revoked_at = now() WHERE user_id = $1 AND revoked_at IS NULL`, userID)
		return err
	})
}
