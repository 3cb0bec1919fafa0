package auth

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenBucketLimiter(t *testing.T) {
	ctx := context.Background()

	t.Run("allows up to the bucket size", func(t *testing.T) {
		limiter := NewTokenBucketLimiter(3, time.Hour)

		for i := 0; i < 3; i++ {
			allowed, err := limiter.Allow(ctx, "key")
			require.NoError(t, err)
			assert.True(t, allowed)
		}

		allowed, err := limiter.Allow(ctx, "key")
		require.NoError(t, err)
		assert.False(t, allowed)
	})

	t.Run("keys are independent", func(t *testing.T) {
		limiter := NewTokenBucketLimiter(1, time.Hour)

		allowed, err := limiter.Allow(ctx, "a")
		require.NoError(t, err)
		assert.True(t, allowed)

		allowed, err = limiter.Allow(ctx, "b")
		require.NoError(t, err)
		assert.True(t, allowed)

		allowed, err = limiter.Allow(ctx, "a")
		require.NoError(t, err)
		assert.False(t, allowed)
	})

	t.Run("refills over time", func(t *testing.T) {
		limiter := NewTokenBucketLimiter(1, 10*time.Millisecond)

		allowed, err := limiter.Allow(ctx, "key")
		require.NoError(t, err)
		require.True(t, allowed)

		allowed, err = limiter.Allow(ctx, "key")
		require.NoError(t, err)
		require.False(t, allowed)

		time.Sleep(25 * time.Millisecond)

		allowed, err = limiter.Allow(ctx, "key")
		require.NoError(t, err)
		assert.True(t, allowed)
	})

	t.Run("reset empties the bucket state", func(t *testing.T) {
		limiter := NewTokenBucketLimiter(1, time.Hour)

		_, err := limiter.Allow(ctx, "key")
		require.NoError(t, err)

		require.NoError(t, limiter.Reset(ctx, "key"))

		allowed, err := limiter.Allow(ctx, "key")
		require.NoError(t, err)
		assert.True(t, allowed)
	})
}
