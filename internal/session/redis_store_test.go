package session

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupRedisStore(t *testing.T) (*RedisStore, *miniredis.Miniredis) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { rdb.Close() })
	return NewRedisStore(rdb, 30*time.Minute), mr
}

func TestRedisStore_SampleLifecycle(t *testing.T) {
	ctx := context.Background()
	store, mr := setupRedisStore(t)

	_, err := store.LoadSample(ctx, "sid", 5)
	assert.ErrorIs(t, err, ErrNoSample)

	require.NoError(t, store.SaveSample(ctx, "sid", 5, []uint{10, 4, 8}))

	assert.True(t, mr.Exists("quiz:session:sid:samples"))
	assert.Equal(t, `[10,4,8]`, mr.HGet("quiz:session:sid:samples", "5"))
	assert.Equal(t, 30*time.Minute, mr.TTL("quiz:session:sid:samples"))

	ids, err := store.LoadSample(ctx, "sid", 5)
	require.NoError(t, err)
	assert.Equal(t, []uint{10, 4, 8}, ids)

	require.NoError(t, store.ClearSample(ctx, "sid", 5))
	_, err = store.LoadSample(ctx, "sid", 5)
	assert.ErrorIs(t, err, ErrNoSample)
}

func TestRedisStore_Expiry(t *testing.T) {
	ctx := context.Background()
	store, mr := setupRedisStore(t)

	require.NoError(t, store.SaveSample(ctx, "sid", 1, []uint{1, 2}))
	mr.FastForward(31 * time.Minute)

	_, err := store.LoadSample(ctx, "sid", 1)
	assert.ErrorIs(t, err, ErrNoSample)
}

func TestRedisStore_CorruptSample(t *testing.T) {
	ctx := context.Background()
	store, mr := setupRedisStore(t)

	mr.HSet("quiz:session:sid:samples", "1", "not-json")

	_, err := store.LoadSample(ctx, "sid", 1)
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrNoSample)
}

func TestRedisStore_Flashes(t *testing.T) {
	ctx := context.Background()
	store, _ := setupRedisStore(t)

	flashes, err := store.PopFlashes(ctx, "sid")
	require.NoError(t, err)
	assert.Empty(t, flashes)

	require.NoError(t, store.AddFlash(ctx, "sid", "one"))
	require.NoError(t, store.AddFlash(ctx, "sid", "two"))

	flashes, err = store.PopFlashes(ctx, "sid")
	require.NoError(t, err)
	assert.Equal(t, []string{"one", "two"}, flashes)

	flashes, err = store.PopFlashes(ctx, "sid")
	require.NoError(t, err)
	assert.Empty(t, flashes)
}

func TestRedisStore_Ping(t *testing.T) {
	store, mr := setupRedisStore(t)
	require.NoError(t, store.Ping(context.Background()))

	mr.Close()
	assert.Error(t, store.Ping(context.Background()))
}
