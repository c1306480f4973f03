package postgres

import (
	"context"

	"github.com/jackc/pgx/v5"

	"backoffice/internal/domain"
)

// Statistics are read from the cumulative stats views, so values reset with
// pg_stat_reset and are approximate.

func (db *DB) TableStats(ctx context.Context, schemas []string) ([]domain.TableStat, error) {
	rows, err := db.Pool.Query(ctx, `
		SELECT t.schemaname, t.relname,
		       t.n_live_tup, t.n_dead_tup, t.n_tup_upd, t.n_tup_hot_upd,
		       t.seq_scan, COALESCE(t.idx_scan, 0),
		       t.last_analyze, t.last_autoanalyze, t.last_vacuum, t.last_autovacuum,
		       pg_total_relation_size(t.relid),
		       COALESCE(pg_total_relation_size(NULLIF(c.reltoastrelid, 0)), 0)
		FROM pg_stat_user_tables t
		JOIN pg_class c ON c.oid = t.relid
		WHERE t.schemaname = ANY($1)
		ORDER BY t.schemaname, t.relname
	`, schemas)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (domain.TableStat, error) {
		var t domain.TableStat
		err := row.Scan(&t.Schema, &t.Table,
			&t.LiveTuples, &t.DeadTuples, &t.Updates, &t.HotUpdates,
			&t.SeqScans, &t.IdxScans,
			&t.LastAnalyze, &t.LastAutoAnalyze, &t.LastVacuum, &t.LastAutoVacuum,
			&t.TotalBytes, &t.ToastBytes)
		return t, err
	})
}

func (db *DB) RLSStatus(ctx context.Context, schemas []string) ([]domain.RLSStatus, error) {
	rows, err := db.Pool.Query(ctx, `
		SELECT n.nspname, c.relname, c.relrowsecurity, c.relforcerowsecurity,
		       (SELECT count(*) FROM pg_policies p WHERE p.schemaname = n.nspname AND p.tablename = c.relname)::int
		FROM pg_class c
		JOIN pg_namespace n ON n.oid = c.relnamespace
		WHERE c.relkind IN ('r', 'p') AND n.nspname = ANY($1)
		ORDER BY n.nspname, c.relname
	`, schemas)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, pgx.RowToStructByPos[domain.RLSStatus])
}

func (db *DB) IndexStats(ctx context.Context, schemas []string) ([]domain.IndexStat, error) {
	rows, err := db.Pool.Query(ctx, `
		SELECT s.schemaname, s.relname, s.indexrelname, s.idx_scan,
		       pg_relation_size(s.indexrelid), i.indisunique, i.indisprimary
		FROM pg_stat_user_indexes s
		JOIN pg_index i ON i.indexrelid = s.indexrelid
		WHERE s.schemaname = ANY($1)
		ORDER BY s.schemaname, s.relname, s.indexrelname
	`, schemas)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, pgx.RowToStructByPos[domain.IndexStat])
}

func (db *DB) Connections(ctx context.Context) ([]domain.ConnectionStat, error) {
	rows, err := db.Pool.Query(ctx, `
		SELECT COALESCE(state, 'unknown'), count(*)::int
		FROM pg_stat_activity
		WHERE datname = current_database()
		GROUP BY 1
		ORDER BY 2 DESC
	`)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, pgx.RowToStructByPos[domain.ConnectionStat])
}

func (db *DB) DatabaseSize(ctx context.Context) (domain.DatabaseSize, error) {
	var s domain.DatabaseSize
	err := db.Pool.QueryRow(ctx, `
		SELECT current_database(), pg_database_size(current_database()),
		       current_setting('max_connections')::int
	`).Scan(&s.Name, &s.SizeBytes, &s.MaxConns)
	return s, err
}
