package ratelimit

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryLimiter_SlidingWindow(t *testing.T) {
	l := NewMemoryLimiter(&Config{
		Requests:        3,
		Window:          time.Minute,
		Strategy:        StrategySlidingWindow,
		CleanupInterval: time.Hour,
	})
	t.Cleanup(func() { _ = l.Close() })
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		allowed, err := l.Allow(ctx, "client-1")
		require.NoError(t, err)
		assert.True(t, allowed, "request %d should be allowed", i+1)
	}

	allowed, err := l.Allow(ctx, "client-1")
	require.NoError(t, err)
	assert.False(t, allowed, "fourth request must be rejected")

	// Other keys are independent.
	allowed, err = l.Allow(ctx, "client-2")
	require.NoError(t, err)
	assert.True(t, allowed)
}

func TestMemoryLimiter_WindowSlides(t *testing.T) {
	l := NewMemoryLimiter(&Config{
		Requests:        1,
		Window:          50 * time.Millisecond,
		Strategy:        StrategySlidingWindow,
		CleanupInterval: time.Hour,
	})
	t.Cleanup(func() { _ = l.Close() })
	ctx := context.Background()

	allowed, err := l.Allow(ctx, "k")
	require.NoError(t, err)
	require.True(t, allowed)

	allowed, err = l.Allow(ctx, "k")
	require.NoError(t, err)
	require.False(t, allowed)

	time.Sleep(80 * time.Millisecond)

	allowed, err = l.Allow(ctx, "k")
	require.NoError(t, err)
	assert.True(t, allowed, "window expired, request should pass")
}

func TestMemoryLimiter_TokenBucket(t *testing.T) {
	l := NewMemoryLimiter(&Config{
		Requests:        10,
		Window:          time.Minute,
		Strategy:        StrategyTokenBucket,
		BurstSize:       5,
		CleanupInterval: time.Hour,
	})
	t.Cleanup(func() { _ = l.Close() })
	ctx := context.Background()

	// Burst capacity is requests + burst.
	allowed, err := l.AllowN(ctx, "k", 15)
	require.NoError(t, err)
	assert.True(t, allowed)

	allowed, err = l.Allow(ctx, "k")
	require.NoError(t, err)
	assert.False(t, allowed, "bucket drained")
}

func TestMemoryLimiter_Reset(t *testing.T) {
	l := NewMemoryLimiter(&Config{
		Requests:        1,
		Window:          time.Minute,
		Strategy:        StrategySlidingWindow,
		CleanupInterval: time.Hour,
	})
	t.Cleanup(func() { _ = l.Close() })
	ctx := context.Background()

	allowed, err := l.Allow(ctx, "k")
	require.NoError(t, err)
	require.True(t, allowed)

	require.NoError(t, l.Reset(ctx, "k"))

	allowed, err = l.Allow(ctx, "k")
	require.NoError(t, err)
	assert.True(t, allowed)
}

func TestMemoryLimiter_Info(t *testing.T) {
	l := NewMemoryLimiter(&Config{
		Requests:        5,
		Window:          time.Minute,
		Strategy:        StrategySlidingWindow,
		CleanupInterval: time.Hour,
	})
	t.Cleanup(func() { _ = l.Close() })
	ctx := context.Background()

	info, err := l.Info(ctx, "fresh")
	require.NoError(t, err)
	assert.Equal(t, 5, info.Limit)
	assert.Equal(t, 5, info.Remaining)

	_, _ = l.Allow(ctx, "used")
	_, _ = l.Allow(ctx, "used")

	info, err = l.Info(ctx, "used")
	require.NoError(t, err)
	assert.Equal(t, 3, info.Remaining)
}

func TestMemoryLimiter_Closed(t *testing.T) {
	l := NewMemoryLimiter(nil)
	require.NoError(t, l.Close())

	_, err := l.Allow(context.Background(), "k")
	assert.ErrorIs(t, err, ErrLimiterClosed)

	// Double close must be safe.
	assert.NoError(t, l.Close())
}

func TestNew_DefaultsToMemory(t *testing.T) {
	l, err := New(nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = l.Close() })

	_, ok := l.(*MemoryLimiter)
	assert.True(t, ok)
}
