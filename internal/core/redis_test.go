// AngelaMos | 2026
// redis_test.go

package core

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carterperez-dev/catalog-api/internal/config"
)

// newTestRedis connects to TEST_REDIS_URL. Tests using it are skipped when
// the variable is unset.
func newTestRedis(t *testing.T) *Redis {
	t.Helper()

	url := os.Getenv("TEST_REDIS_URL")
	if url == "" {
		t.Skip("TEST_REDIS_URL not set")
	}

	r, err := NewRedis(context.Background(), config.RedisConfig{URL: url, PoolSize: 2})
	require.NoError(t, err)
	t.Cleanup(func() { _ = r.Close() })
	return r
}

func TestRedisLock_Exclusive(t *testing.T) {
	r := newTestRedis(t)
	ctx := context.Background()
	key := "test:lock:exclusive"
	t.Cleanup(func() { r.Client.Del(ctx, key) })

	token, ok, err := r.TryLock(ctx, key, time.Minute)
	require.NoError(t, err)
	require.True(t, ok)
	assert.NotEmpty(t, token)

	_, ok, err = r.TryLock(ctx, key, time.Minute)
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, r.Unlock(ctx, key, token))

	_, ok, err = r.TryLock(ctx, key, time.Minute)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestRedisLock_StaleHolderCannotRelease(t *testing.T) {
	r := newTestRedis(t)
	ctx := context.Background()
	key := "test:lock:stale"
	t.Cleanup(func() { r.Client.Del(ctx, key) })

	stale, ok, err := r.TryLock(ctx, key, 50*time.Millisecond)
	require.NoError(t, err)
	require.True(t, ok)

	require.Eventually(t, func() bool {
		return r.Client.Exists(ctx, key).Val() == 0
	}, 2*time.Second, 10*time.Millisecond)

	current, ok, err := r.TryLock(ctx, key, time.Minute)
	require.NoError(t, err)
	require.True(t, ok)

	require.NoError(t, r.Unlock(ctx, key, stale))
	held, err := r.Client.Get(ctx, key).Result()
	require.NoError(t, err)
	assert.Equal(t, current, held)

	require.NoError(t, r.Unlock(ctx, key, current))
	assert.Zero(t, r.Client.Exists(ctx, key).Val())
}

func TestRedisJSON_MissingKey(t *testing.T) {
	r := newTestRedis(t)

	var dst map[string]any
	err := r.GetJSON(context.Background(), "test:json:missing", &dst)
	assert.ErrorIs(t, err, ErrNotFound)
}
