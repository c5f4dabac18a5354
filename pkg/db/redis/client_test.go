package redis_test

import (
	"context"
	"strconv"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"volleymatch/pkg/db/redis"
	"volleymatch/pkg/logger"
)

func configFor(t *testing.T, mr *miniredis.Miniredis) *redis.Config {
	t.Helper()
	port, err := strconv.Atoi(mr.Port())
	require.NoError(t, err)

	cfg := redis.DefaultConfig()
	cfg.Host = mr.Host()
	cfg.Port = port
	cfg.Timeout = time.Second
	return cfg
}

func TestNewClient(t *testing.T) {
	ctx := logger.NewContext(context.Background(), logger.NewNop())

	t.Run("connects and pings", func(t *testing.T) {
		mr := miniredis.RunT(t)
		client, err := redis.NewClient(ctx, configFor(t, mr))
		require.NoError(t, err)

		require.NoError(t, client.Ping(ctx))
		require.NoError(t, client.RawClient().Set(ctx, "k", "v", 0).Err())
		assert.Equal(t, "v", mr.Get("k"))
		require.NoError(t, client.Close(ctx))
	})

	t.Run("unreachable server fails", func(t *testing.T) {
		mr := miniredis.RunT(t)
		cfg := configFor(t, mr)
		mr.Close()

		_, err := redis.NewClient(ctx, cfg)
		require.Error(t, err)
		assert.Contains(t, err.Error(), redis.ErrConnect)
	})
}

func TestConfigAddr(t *testing.T) {
	cfg := redis.DefaultConfig()
	assert.Equal(t, "localhost:6379", cfg.Addr())
}
