package ratelimit

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInterval_SpacesCalls(t *testing.T) {
	l := NewInterval(50 * time.Millisecond)
	ctx := context.Background()

	start := time.Now()
	require.NoError(t, l.Wait(ctx))
	require.NoError(t, l.Wait(ctx))
	require.NoError(t, l.Wait(ctx))

	assert.GreaterOrEqual(t, time.Since(start), 90*time.Millisecond)
}

func TestInterval_Disabled(t *testing.T) {
	l := NewInterval(0)
	ctx := context.Background()

	start := time.Now()
	for i := 0; i < 100; i++ {
		require.NoError(t, l.Wait(ctx))
	}
	assert.Less(t, time.Since(start), 50*time.Millisecond)
}

func TestInterval_Cancelled(t *testing.T) {
	l := NewInterval(time.Hour)
	ctx, cancel := context.WithCancel(context.Background())

	require.NoError(t, l.Wait(ctx))
	cancel()
	assert.Error(t, l.Wait(ctx))
}

func TestNoop(t *testing.T) {
	var l Limiter = Noop{}
	assert.NoError(t, l.Wait(context.Background()))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, l.Wait(ctx), context.Canceled)
}

func TestKeyed_IndependentKeys(t *testing.T) {
	k := NewKeyed(time.Hour, 10)
	ctx := context.Background()

	require.NoError(t, k.Wait(ctx, "news.naver.com"))
	require.NoError(t, k.Wait(ctx, "www.hankyung.com"))
	assert.Equal(t, 2, k.Len())

	short, cancel := context.WithTimeout(ctx, 20*time.Millisecond)
	defer cancel()
	assert.Error(t, k.Wait(short, "news.naver.com"))
}

func TestKeyed_Evicts(t *testing.T) {
	k := NewKeyed(0, 2)
	ctx := context.Background()

	require.NoError(t, k.Wait(ctx, "a"))
	require.NoError(t, k.Wait(ctx, "b"))
	require.NoError(t, k.Wait(ctx, "c"))
	assert.Equal(t, 2, k.Len())
}

func TestKeyed_EvictsLeastRecentlyUsed(t *testing.T) {
	k := NewKeyed(time.Hour, 2)
	ctx := context.Background()

	require.NoError(t, k.Wait(ctx, "a"))
	require.NoError(t, k.Wait(ctx, "b"))
	a := k.get("a")
	require.NoError(t, k.Wait(ctx, "c"))

	assert.True(t, k.limiters.Contains("a"))
	assert.False(t, k.limiters.Contains("b"))
	assert.Same(t, a, k.get("a"), "recently used key keeps its limiter")
}
