package ratelimiter_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quiethour/quiethour/internal/ratelimiter"
)

func TestNewBucket(t *testing.T) {
	t.Parallel()

	store := ratelimiter.NewMemoryStore()

	t.Run("valid config", func(t *testing.T) {
		t.Parallel()

		b, err := ratelimiter.NewBucket(store, ratelimiter.Config{
			Capacity:       10,
			RefillRate:     1,
			RefillInterval: time.Second,
		})
		require.NoError(t, err)
		assert.NotNil(t, b)
	})

	t.Run("invalid config", func(t *testing.T) {
		t.Parallel()

		cases := []ratelimiter.Config{
			{Capacity: 0, RefillRate: 1, RefillInterval: time.Second},
			{Capacity: 10, RefillRate: 0, RefillInterval: time.Second},
			{Capacity: 10, RefillRate: 1, RefillInterval: 0},
		}
		for _, cfg := range cases {
			_, err := ratelimiter.NewBucket(store, cfg)
			assert.ErrorIs(t, err, ratelimiter.ErrInvalidConfig)
		}
	})
}

func TestBucket_Allow(t *testing.T) {
	t.Parallel()

	t.Run("exhausts capacity", func(t *testing.T) {
		t.Parallel()

		b, err := ratelimiter.NewBucket(ratelimiter.NewMemoryStore(), ratelimiter.Config{
			Capacity:       3,
			RefillRate:     1,
			RefillInterval: time.Minute,
		})
		require.NoError(t, err)

		ctx := context.Background()
		for i := range 3 {
			res, err := b.Allow(ctx, "client")
			require.NoError(t, err)
			assert.True(t, res.Allowed(), "request %d", i)
			assert.Equal(t, 2-i, res.Remaining)
		}

		res, err := b.Allow(ctx, "client")
		require.NoError(t, err)
		assert.False(t, res.Allowed())
		assert.Positive(t, res.RetryAfter())
	})

	t.Run("keys are independent", func(t *testing.T) {
		t.Parallel()

		b, err := ratelimiter.NewBucket(ratelimiter.NewMemoryStore(), ratelimiter.Config{
			Capacity:       1,
			RefillRate:     1,
			RefillInterval: time.Minute,
		})
		require.NoError(t, err)

		ctx := context.Background()
		res, err := b.Allow(ctx, "a")
		require.NoError(t, err)
		assert.True(t, res.Allowed())

		res, err = b.Allow(ctx, "a")
		require.NoError(t, err)
		assert.False(t, res.Allowed())

		res, err = b.Allow(ctx, "b")
		require.NoError(t, err)
		assert.True(t, res.Allowed())
	})

	t.Run("refill restores tokens", func(t *testing.T) {
		t.Parallel()

		now := time.Date(2025, 4, 23, 6, 0, 0, 0, time.UTC)
		store := ratelimiter.NewMemoryStore(
			ratelimiter.WithMemoryStoreClock(func() time.Time { return now }))
		b, err := ratelimiter.NewBucket(store, ratelimiter.Config{
			Capacity:       2,
			RefillRate:     1,
			RefillInterval: time.Second,
		})
		require.NoError(t, err)

		ctx := context.Background()
		_, err = b.AllowN(ctx, "client", 2)
		require.NoError(t, err)

		res, err := b.Allow(ctx, "client")
		require.NoError(t, err)
		assert.False(t, res.Allowed())

		now = now.Add(3 * time.Second)
		res, err = b.Allow(ctx, "client")
		require.NoError(t, err)
		assert.True(t, res.Allowed())
	})

	t.Run("refill never exceeds capacity", func(t *testing.T) {
		t.Parallel()

		now := time.Date(2025, 4, 23, 6, 0, 0, 0, time.UTC)
		store := ratelimiter.NewMemoryStore(
			ratelimiter.WithMemoryStoreClock(func() time.Time { return now }))
		b, err := ratelimiter.NewBucket(store, ratelimiter.Config{
			Capacity:       2,
			RefillRate:     1,
			RefillInterval: time.Second,
		})
		require.NoError(t, err)

		ctx := context.Background()
		_, err = b.Allow(ctx, "client")
		require.NoError(t, err)

		now = now.Add(time.Hour)
		res, err := b.Allow(ctx, "client")
		require.NoError(t, err)
		assert.Equal(t, 1, res.Remaining)
	})

	t.Run("invalid token count", func(t *testing.T) {
		t.Parallel()

		b, err := ratelimiter.NewBucket(ratelimiter.NewMemoryStore(), ratelimiter.Config{
			Capacity:       1,
			RefillRate:     1,
			RefillInterval: time.Second,
		})
		require.NoError(t, err)

		_, err = b.AllowN(context.Background(), "client", 0)
		assert.ErrorIs(t, err, ratelimiter.ErrInvalidTokenCount)
	})
}

func TestBucket_Reset(t *testing.T) {
	t.Parallel()

	b, err := ratelimiter.NewBucket(ratelimiter.NewMemoryStore(), ratelimiter.Config{
		Capacity:       1,
		RefillRate:     1,
		RefillInterval: time.Minute,
	})
	require.NoError(t, err)

	ctx := context.Background()
	_, err = b.Allow(ctx, "client")
	require.NoError(t, err)

	res, err := b.Allow(ctx, "client")
	require.NoError(t, err)
	require.False(t, res.Allowed())

	require.NoError(t, b.Reset(ctx, "client"))

	res, err = b.Allow(ctx, "client")
	require.NoError(t, err)
	assert.True(t, res.Allowed())
}
