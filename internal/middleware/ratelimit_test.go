package middleware

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRedis(t *testing.T) *redis.Client {
	t.Helper()
	mr := miniredis.RunT(t)
	return redis.NewClient(&redis.Options{Addr: mr.Addr()})
}

func TestCheckRateLimit_EnforcesWindow(t *testing.T) {
	t.Setenv("APP_ENV", "production")
	rdb := newTestRedis(t)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		allowed, err := CheckRateLimit(ctx, rdb, "login", "ip:10.0.0.1", 3, time.Minute)
		require.NoError(t, err)
		assert.True(t, allowed, "request %d should be allowed", i+1)
	}

	allowed, err := CheckRateLimit(ctx, rdb, "login", "ip:10.0.0.1", 3, time.Minute)
	require.NoError(t, err)
	assert.False(t, allowed)
}

func TestCheckRateLimit_SeparateIdentities(t *testing.T) {
	t.Setenv("APP_ENV", "production")
	rdb := newTestRedis(t)
	ctx := context.Background()

	allowed, err := CheckRateLimit(ctx, rdb, "comment", "ip:10.0.0.1", 1, time.Minute)
	require.NoError(t, err)
	assert.True(t, allowed)

	allowed, err = CheckRateLimit(ctx, rdb, "comment", "ip:10.0.0.2", 1, time.Minute)
	require.NoError(t, err)
	assert.True(t, allowed, "a different identity must have its own window")
}

func TestCheckRateLimit_DisabledInTestEnv(t *testing.T) {
	t.Setenv("APP_ENV", "test")

	for i := 0; i < 50; i++ {
		allowed, err := CheckRateLimit(context.Background(), nil, "login", "ip:10.0.0.1", 1, time.Minute)
		require.NoError(t, err)
		assert.True(t, allowed)
	}
}

func TestCheckRateLimit_NilClient(t *testing.T) {
	t.Setenv("APP_ENV", "production")

	_, err := CheckRateLimit(context.Background(), nil, "login", "ip:10.0.0.1", 1, time.Minute)
	assert.Error(t, err)
}
