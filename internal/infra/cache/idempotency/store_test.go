package idempotency

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRedisStore_ClaimOnce(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	store := NewRedisStore(client, "appointments:")
	ctx := context.Background()

	ok, err := store.Claim(ctx, "evt_1", time.Hour)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.True(t, mr.Exists("appointments:idem:evt_1"))

	ok, err = store.Claim(ctx, "evt_1", time.Hour)
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, store.Release(ctx, "evt_1"))
	ok, err = store.Claim(ctx, "evt_1", time.Hour)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestRedisStore_Expires(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	store := NewRedisStore(client, "")
	ctx := context.Background()

	_, err := store.Claim(ctx, "evt_2", time.Minute)
	require.NoError(t, err)
	mr.FastForward(2 * time.Minute)

	ok, err := store.Claim(ctx, "evt_2", time.Minute)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestMemoryStore(t *testing.T) {
	store := NewMemoryStore()
	now := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	store.now = func() time.Time { return now }
	ctx := context.Background()

	ok, _ := store.Claim(ctx, "evt_1", time.Minute)
	assert.True(t, ok)
	ok, _ = store.Claim(ctx, "evt_1", time.Minute)
	assert.False(t, ok)

	now = now.Add(2 * time.Minute)
	ok, _ = store.Claim(ctx, "evt_1", time.Minute)
	assert.True(t, ok)
}
