package postgres_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cory-johannsen/dungeon/internal/config"
	"github.com/cory-johannsen/dungeon/internal/storage/postgres"
	"github.com/cory-johannsen/dungeon/internal/testutil"
)

func TestPool_Health(t *testing.T) {
	pc := testutil.NewPostgresContainer(t)
	assert.NoError(t, pc.Pool.Health(context.Background(), 2*time.Second))
}

func TestNewPool_Unreachable(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	_, err := postgres.NewPool(ctx, config.DatabaseConfig{
		Host:     "127.0.0.1",
		Port:     1,
		User:     "nobody",
		Name:     "nowhere",
		SSLMode:  "disable",
		MaxConns: 1,
	})
	require.Error(t, err)
}

func TestPool_StatsAndApplicationName(t *testing.T) {
	pc := testutil.NewPostgresContainer(t)
	ctx := context.Background()

	var name string
	require.NoError(t, pc.RawPool.QueryRow(ctx, `SELECT current_setting('application_name')`).Scan(&name))
	assert.Equal(t, "dungeon", name)

	stats := pc.Pool.Stats()
	assert.GreaterOrEqual(t, stats.Total, stats.Idle)
	assert.LessOrEqual(t, stats.Total, pc.Config.MaxConns)
}
