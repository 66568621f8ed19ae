package database

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/osse101/brandish-progression/internal/testing/containers"
	"github.com/osse101/brandish-progression/internal/testing/leaktest"
)

func TestNewPool_InvalidConnString(t *testing.T) {
	_, err := NewPool(context.Background(), "postgres://%zz", 5, time.Minute, time.Minute)
	require.Error(t, err)
	assert.Contains(t, err.Error(), ErrMsgFailedToParseConnString)
}

func TestNewPool_UnreachableDatabase(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	_, err := NewPool(ctx, "postgres://u:p@127.0.0.1:1/db?sslmode=disable&connect_timeout=1", 5, time.Minute, time.Minute)
	require.Error(t, err)
	assert.Contains(t, err.Error(), ErrMsgFailedToPingDatabase)
}

// TestPoolIntegration shares one container across the pool and migration checks
func TestPoolIntegration(t *testing.T) {
	connStr := containers.StartPostgres(t)
	ctx := context.Background()

	t.Run("connections are released", func(t *testing.T) {
		pool, err := NewPool(ctx, connStr, 5, time.Minute, 5*time.Minute)
		require.NoError(t, err)
		defer pool.Close()

		for i := 0; i < 10; i++ {
			conn, err := pool.Acquire(ctx)
			require.NoError(t, err, "acquire %d", i)
			var one int
			require.NoError(t, conn.QueryRow(ctx, "SELECT 1").Scan(&one))
			conn.Release()
		}
		// failing queries must not leak their connection either
		for i := 0; i < 5; i++ {
			_, err := pool.Exec(ctx, "SELECT * FROM nonexistent_table_xyz")
			assert.Error(t, err)
		}
		assert.Equal(t, int32(0), pool.Stat().AcquiredConns())
	})

	t.Run("max conns is enforced", func(t *testing.T) {
		const maxConns = 3
		pool, err := NewPool(ctx, connStr, maxConns, time.Minute, 5*time.Minute)
		require.NoError(t, err)
		defer pool.Close()

		conns := make([]*pgxpool.Conn, 0, maxConns)
		for i := 0; i < maxConns; i++ {
			conn, err := pool.Acquire(ctx)
			require.NoError(t, err)
			conns = append(conns, conn)
		}

		shortCtx, cancel := context.WithTimeout(ctx, 100*time.Millisecond)
		_, err = pool.Acquire(shortCtx)
		cancel()
		assert.Error(t, err, "pool is exhausted")

		conns[0].Release()
		conn, err := pool.Acquire(ctx)
		require.NoError(t, err)
		conn.Release()
		for _, c := range conns[1:] {
			c.Release()
		}
	})

	t.Run("concurrent access", func(t *testing.T) {
		checker := leaktest.NewGoroutineChecker(t)
		pool, err := NewPool(ctx, connStr, 10, time.Minute, 5*time.Minute)
		require.NoError(t, err)

		var wg sync.WaitGroup
		for i := 0; i < 20; i++ {
			wg.Add(1)
			go func(id int) {
				defer wg.Done()
				var got int
				if err := pool.QueryRow(ctx, "SELECT $1::int", id).Scan(&got); err != nil {
					t.Errorf("query %d: %v", id, err)
				}
			}(i)
		}
		wg.Wait()

		assert.Equal(t, int32(0), pool.Stat().AcquiredConns())
		pool.Close()
		checker.Check(2)
	})

	t.Run("migrations apply and revert", func(t *testing.T) {
		pool, err := NewPool(ctx, connStr, 5, time.Minute, 5*time.Minute)
		require.NoError(t, err)
		defer pool.Close()

		tableExists := func() bool {
			var exists bool
			require.NoError(t, pool.QueryRow(ctx, `SELECT to_regclass('public.reward_history') IS NOT NULL`).Scan(&exists))
			return exists
		}

		require.NoError(t, Migrate(ctx, pool, "up"))
		assert.True(t, tableExists())
		require.NoError(t, Migrate(ctx, pool, "down"))
		assert.False(t, tableExists())
		require.NoError(t, Migrate(ctx, pool, "up"))
		assert.True(t, tableExists())
		require.NoError(t, Migrate(ctx, pool, "status"))
	})
}
