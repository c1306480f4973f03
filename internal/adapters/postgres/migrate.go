package postgres

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"io/fs"

	"github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
	"go.uber.org/zap"
)

//go:embed migrations/*.sql
var migrations embed.FS

// Migrate applies, rolls back or reports the embedded goose migrations.
// command is one of up, down or status.
func (db *DB) Migrate(ctx context.Context, command string, log *zap.Logger) error {
	// Closing the sql.DB releases its borrowed connections; the pool stays open.
	sqlDB := stdlib.OpenDBFromPool(db.Pool)
	defer sqlDB.Close()

	provider, err := newProvider(sqlDB)
	if err != nil {
		return err
	}

	switch command {
	case "up":
		results, err := provider.Up(ctx)
		for _, r := range results {
			log.Info("migration applied", zap.String("source", r.Source.Path), zap.Duration("took", r.Duration))
		}
		return err
	case "down":
		r, err := provider.Down(ctx)
		if r != nil {
			log.Info("migration rolled back", zap.String("source", r.Source.Path), zap.Duration("took", r.Duration))
		}
		return err
	case "status":
		statuses, err := provider.Status(ctx)
		if err != nil {
			return err
		}
		for _, s := range statuses {
			log.Info("migration",
				zap.Int64("version", s.Source.Version),
				zap.String("source", s.Source.Path),
				zap.String("state", string(s.State)),
				zap.Time("applied_at", s.AppliedAt))
		}
		return nil
	default:
		return fmt.Errorf("unknown migrate command %q", command)
	}
}

func newProvider(sqlDB *sql.DB) (*goose.Provider, error) {
	fsys, err := fs.Sub(migrations, "migrations")
	if err != nil {
		return nil, err
	}
	provider, err := goose.NewProvider(goose.DialectPostgres, sqlDB, fsys)
	if err != nil {
		return nil, fmt.Errorf("goose provider: %w", err)
	}
	return provider, nil
}
