package cachemanager

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestInMemoryCacheManager_GetSet(t *testing.T) {
	cache := NewInMemoryCacheManager[string, int]("test", DefaultExpiration, DefaultCleanupInterval)
	ctx := context.Background()

	_, found := cache.Get(ctx, "missing")
	require.False(t, found)

	cache.Set(ctx, "answer", 42, time.Minute)
	got, found := cache.Get(ctx, "answer")
	require.True(t, found)
	require.Equal(t, 42, got)
}

func TestInMemoryCacheManager_Flush(t *testing.T) {
	cache := NewInMemoryCacheManager[string, string]("test", DefaultExpiration, DefaultCleanupInterval)
	ctx := context.Background()

	cache.Set(ctx, "a", "1", time.Minute)
	require.NoError(t, cache.Flush(ctx))

	_, found := cache.Get(ctx, "a")
	require.False(t, found)
}
