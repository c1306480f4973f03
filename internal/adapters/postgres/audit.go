package postgres

import (
	"context"

	"github.com/jackc/pgx/v5"

	"backoffice/internal/domain"
	"backoffice/internal/ports"
)

func (db *DB) InsertAuditLog(ctx context.Context, e domain.AuditLog) error {
	_, err := db.Pool.Exec(ctx, `
		INSERT INTO audit.audit_logs
		    (event_type, event_category, severity, user_id, action, entity_type, entity_id,
		     target_schema, target_table, target_id, metadata, is_success)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	`, e.EventType, e.EventCategory, e.Severity, e.UserID, e.Action, e.EntityType, e.EntityID,
		e.TargetSchema, e.TargetTable, e.TargetID, e.Metadata, e.IsSuccess)
	return err
}

func (db *DB) ListAuditLogs(ctx context.Context, f ports.AuditFilter) ([]domain.AuditLog, error) {
	rows, err := db.Pool.Query(ctx, `
		SELECT id, event_type, event_category, severity, user_id, action, entity_type, entity_id,
		       target_schema, target_table, target_id, metadata, is_success, created_at
		FROM audit.audit_logs
		WHERE ($1::text = '' OR event_category = $1)
		  AND ($2::text = '' OR severity = $2)
		  AND ($3::text = '' OR user_id::text = $3)
		ORDER BY created_at DESC
		LIMIT $4
	`, f.Category, f.Severity, f.UserID, f.Limit)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (domain.AuditLog, error) {
		var l domain.AuditLog
		err := row.Scan(&l.ID, &l.EventType, &l.EventCategory, &l.Severity, &l.UserID, &l.Action, &l.EntityType, &l.EntityID,
			&l.TargetSchema, &l.TargetTable, &l.TargetID, &l.Metadata, &l.IsSuccess, &l.CreatedAt)
		return l, err
	})
}
