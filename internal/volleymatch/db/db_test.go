package db_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"volleymatch/internal/volleymatch/config"
	"volleymatch/internal/volleymatch/db"
	"volleymatch/pkg/logger"
	"volleymatch/pkg/persistence"
)

func TestOpen(t *testing.T) {
	ctx := logger.NewContext(context.Background(), logger.NewNop())

	t.Run("sqlite is migrated", func(t *testing.T) {
		cfg := &config.Config{
			Database: config.DatabaseConfig{Driver: config.DriverSQLite},
			SQLite:   config.SQLiteConfig{Path: filepath.Join(t.TempDir(), "volley.db"), BusyTimeoutMS: 1000},
		}

		store, err := db.Open(ctx, cfg)
		require.NoError(t, err)
		t.Cleanup(func() { _ = store.Close(ctx) })

		require.NoError(t, store.Ping(ctx))
		assert.Equal(t, persistence.SQLite.Name, store.Conn.Dialect().Name)

		var count int
		require.NoError(t, store.Conn.Get(ctx, &count, "SELECT COUNT(*) FROM players"))
		assert.Zero(t, count)
	})

	t.Run("reopening keeps the schema", func(t *testing.T) {
		cfg := config.SQLiteConfig{Path: filepath.Join(t.TempDir(), "volley.db")}

		first, err := db.OpenSQLite(ctx, cfg)
		require.NoError(t, err)
		require.NoError(t, first.Close(ctx))

		second, err := db.OpenSQLite(ctx, cfg)
		require.NoError(t, err)
		require.NoError(t, second.Close(ctx))
	})

	t.Run("unknown driver", func(t *testing.T) {
		_, err := db.Open(ctx, &config.Config{Database: config.DatabaseConfig{Driver: "mysql"}})
		require.Error(t, err)
		assert.Contains(t, err.Error(), db.ErrUnknownDriver)
	})
}
