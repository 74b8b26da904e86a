package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func exerciseClient(t *testing.T, c Client) {
	t.Helper()
	ctx := context.Background()

	_, err := c.Get(ctx, "role:7:r1")
	assert.True(t, IsNotFound(err))

	require.NoError(t, c.Set(ctx, "role:7:r1", []byte(`{"bill":{}}`), time.Minute))
	got, err := c.Get(ctx, "role:7:r1")
	require.NoError(t, err)
	assert.Equal(t, `{"bill":{}}`, string(got))

	require.NoError(t, c.Delete(ctx, "role:7:r1"))
	_, err = c.Get(ctx, "role:7:r1")
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, c.Delete(ctx, "missing"))
	require.NoError(t, c.Ping(ctx))
}

func TestMemoryClient(t *testing.T) {
	c := NewMemory("t:", time.Minute)
	defer c.Close()
	exerciseClient(t, c)
}

func TestMemoryClient_StoresCopy(t *testing.T) {
	c := NewMemory("", time.Minute)
	buf := []byte("abc")
	require.NoError(t, c.Set(context.Background(), "k", buf, 0))
	buf[0] = 'z'
	got, err := c.Get(context.Background(), "k")
	require.NoError(t, err)
	assert.Equal(t, "abc", string(got))
}

func TestRedisClient(t *testing.T) {
	mr := miniredis.RunT(t)

	c, err := New(context.Background(), Config{Driver: "redis", Addr: mr.Addr(), Prefix: "labauth:"})
	require.NoError(t, err)
	defer c.Close()

	exerciseClient(t, c)

	require.NoError(t, c.Set(context.Background(), "k", []byte("v"), time.Second))
	assert.True(t, mr.Exists("labauth:k"))
	mr.FastForward(2 * time.Second)
	_, err = c.Get(context.Background(), "k")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestFromRedis_DoesNotCloseShared(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer rdb.Close()

	c := FromRedis(rdb, "", 0)
	require.NoError(t, c.Close())
	assert.NoError(t, rdb.Ping(context.Background()).Err())
}

func TestNewRedis_Unreachable(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	_, err := NewRedis(ctx, Config{Addr: "127.0.0.1:1"})
	assert.Error(t, err)
}
