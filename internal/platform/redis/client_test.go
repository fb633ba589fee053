package redis

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"portal/internal/platform/config"
)

func TestNew(t *testing.T) {
	ctx := context.Background()

	t.Run("empty url disables redis", func(t *testing.T) {
		client, err := New(ctx, config.RedisConfig{})
		require.NoError(t, err)
		assert.Nil(t, client)
	})

	t.Run("invalid url", func(t *testing.T) {
		_, err := New(ctx, config.RedisConfig{URL: "://nope"})
		require.Error(t, err)
	})

	t.Run("connects and reports health", func(t *testing.T) {
		mr := miniredis.RunT(t)
		client, err := New(ctx, config.RedisConfig{
			URL:         "redis://" + mr.Addr(),
			PoolSize:    2,
			DialTimeout: time.Second,
			ReadTimeout: time.Second,
		})
		require.NoError(t, err)
		defer client.Close()

		assert.NoError(t, client.Health(ctx))
		mr.Close()
		assert.Error(t, client.Health(ctx))
	})
}

func TestApplyPool(t *testing.T) {
	opts, err := goredis.ParseURL("redis://localhost:6379/0?pool_size=7&dial_timeout=2s")
	require.NoError(t, err)

	applyPool(opts, config.RedisConfig{MinIdleConns: 3, ReadTimeout: 4 * time.Second})

	assert.Equal(t, 7, opts.PoolSize, "unset pool size keeps url value")
	assert.Equal(t, 2*time.Second, opts.DialTimeout)
	assert.Equal(t, 3, opts.MinIdleConns)
	assert.Equal(t, 4*time.Second, opts.ReadTimeout)
}
