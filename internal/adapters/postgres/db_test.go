package postgres

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"backoffice/internal/ports"
)

func TestAffected(t *testing.T) {
	assert.NoError(t, affected(pgconn.NewCommandTag("UPDATE 1"), nil))
	assert.ErrorIs(t, affected(pgconn.NewCommandTag("UPDATE 0"), nil), ports.ErrNotFound)

	boom := errors.New("boom")
	assert.ErrorIs(t, affected(pgconn.NewCommandTag("UPDATE 0"), boom), boom)
}

func TestLikePattern(t *testing.T) {
	assert.Equal(t, "", likePattern(""))
	assert.Equal(t, "%glow%", likePattern("glow"))
	assert.Equal(t, `%50\%\_off\\%`, likePattern(`50%_off\`))
}

// lazyPool never dials until a connection is acquired.
func lazyPool(t *testing.T) *pgxpool.Pool {
	t.Helper()
	cfg, err := pgxpool.ParseConfig("postgres://backoffice@127.0.0.1:1/backoffice?connect_timeout=1")
	require.NoError(t, err)
	pool, err := pgxpool.NewWithConfig(context.Background(), cfg)
	require.NoError(t, err)
	t.Cleanup(pool.Close)
	return pool
}

func TestEmbeddedMigrations(t *testing.T) {
	sqlDB := stdlib.OpenDBFromPool(lazyPool(t))
	defer sqlDB.Close()

	provider, err := newProvider(sqlDB)
	require.NoError(t, err)
	sources := provider.ListSources()
	require.Len(t, sources, 1)
	assert.Equal(t, int64(1), sources[0].Version)
	assert.Equal(t, "00001_init.sql", sources[0].Path)
}

func TestMigrateLeavesPoolOpen(t *testing.T) {
	pool := lazyPool(t)
	db := &DB{Pool: pool}

	err := db.Migrate(context.Background(), "sideways", zap.NewNop())
	assert.EqualError(t, err, `unknown migrate command "sideways"`)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	_, err = pool.Acquire(ctx)
	require.Error(t, err)
	assert.NotContains(t, err.Error(), "closed pool")
}
