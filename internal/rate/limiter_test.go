package rate

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	rdb "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRedisLimiter_FixedWindow(t *testing.T) {
	mr := miniredis.RunT(t)
	client := rdb.NewClient(&rdb.Options{Addr: mr.Addr()})
	defer client.Close()

	base := time.Date(2026, 3, 1, 10, 0, 5, 0, time.UTC)
	l := NewRedisLimiter(client, "rl:login:", 3, time.Minute)
	l.now = func() time.Time { return base }

	ctx := context.Background()
	for i := 0; i < 3; i++ {
		res, err := l.Allow(ctx, "10.0.0.1|rita@lab.test")
		require.NoError(t, err)
		assert.True(t, res.Allowed, "attempt %d", i+1)
	}
	res, err := l.Allow(ctx, "10.0.0.1|rita@lab.test")
	require.NoError(t, err)
	assert.False(t, res.Allowed)
	assert.Equal(t, int64(0), res.Remaining)
	assert.Greater(t, res.RetryAfter, time.Duration(0))

	// Otra clave no se ve afectada.
	res, err = l.Allow(ctx, "10.0.0.2|rita@lab.test")
	require.NoError(t, err)
	assert.True(t, res.Allowed)

	// Ventana siguiente.
	l.now = func() time.Time { return base.Add(time.Minute) }
	res, err = l.Allow(ctx, "10.0.0.1|rita@lab.test")
	require.NoError(t, err)
	assert.True(t, res.Allowed)
}

func TestRedisLimiter_RepairsKeyWithoutTTL(t *testing.T) {
	mr := miniredis.RunT(t)
	client := rdb.NewClient(&rdb.Options{Addr: mr.Addr()})
	defer client.Close()

	base := time.Date(2026, 3, 1, 10, 0, 5, 0, time.UTC)
	l := NewRedisLimiter(client, "rl:", 3, time.Minute)
	l.now = func() time.Time { return base }

	// contador huérfano de la ventana actual, sin expiración
	key := fmt.Sprintf("rl:k:%d", base.Truncate(time.Minute).Unix())
	require.NoError(t, mr.Set(key, "3"))
	require.Equal(t, time.Duration(0), mr.TTL(key))

	res, err := l.Allow(context.Background(), "k")
	require.NoError(t, err)
	assert.False(t, res.Allowed)
	assert.Equal(t, time.Minute, res.RetryAfter)
	assert.Equal(t, time.Minute, mr.TTL(key))
}

func TestRedisLimiter_SetsExpiry(t *testing.T) {
	mr := miniredis.RunT(t)
	client := rdb.NewClient(&rdb.Options{Addr: mr.Addr()})
	defer client.Close()

	l := NewRedisLimiter(client, "", 5, time.Minute)
	_, err := l.Allow(context.Background(), "k")
	require.NoError(t, err)

	keys := mr.Keys()
	require.Len(t, keys, 1)
	assert.Greater(t, mr.TTL(keys[0]), time.Duration(0))
}

func TestMemoryLimiter(t *testing.T) {
	now := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	l := NewMemoryLimiter(2, time.Minute)
	l.now = func() time.Time { return now }

	ctx := context.Background()
	r1, _ := l.Allow(ctx, "a")
	r2, _ := l.Allow(ctx, "a")
	r3, _ := l.Allow(ctx, "a")
	assert.True(t, r1.Allowed)
	assert.True(t, r2.Allowed)
	assert.False(t, r3.Allowed)
	assert.Greater(t, r3.RetryAfter, time.Duration(0))

	rb, _ := l.Allow(ctx, "b")
	assert.True(t, rb.Allowed)

	now = now.Add(31 * time.Second)
	r4, _ := l.Allow(ctx, "a")
	assert.True(t, r4.Allowed)
}

func TestMemoryLimiter_SweepsIdleBuckets(t *testing.T) {
	now := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	l := NewMemoryLimiter(2, time.Minute)
	l.now = func() time.Time { return now }

	_, _ = l.Allow(context.Background(), "old")
	now = now.Add(5 * time.Minute)
	_, _ = l.Allow(context.Background(), "new")

	l.mu.Lock()
	defer l.mu.Unlock()
	_, hasOld := l.buckets["old"]
	assert.False(t, hasOld)
	assert.Len(t, l.buckets, 1)
}
