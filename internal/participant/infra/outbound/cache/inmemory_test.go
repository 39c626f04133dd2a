package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/davicafu/participantes/internal/participant/domain"
)

func TestInMemoryCache_SetGetDelete(t *testing.T) {
	c := NewInMemoryCache(time.Minute, time.Minute)
	defer c.Stop()
	ctx := context.Background()

	list := []*domain.Participant{{ID: 1, Nombre: "Ana", Email: "ana@x.com"}}
	require.NoError(t, c.Set(ctx, domain.CacheKeyAll, list, 0))

	var got []*domain.Participant
	hit, err := c.Get(ctx, domain.CacheKeyAll, &got)
	require.NoError(t, err)
	assert.True(t, hit)
	require.Len(t, got, 1)
	assert.Equal(t, "ana@x.com", got[0].Email)

	require.NoError(t, c.Delete(ctx, domain.CacheKeyAll))
	hit, err = c.Get(ctx, domain.CacheKeyAll, &got)
	require.NoError(t, err)
	assert.False(t, hit)
}

func TestInMemoryCache_Expiry(t *testing.T) {
	c := NewInMemoryCache(time.Minute, 0)
	defer c.Stop()
	ctx := context.Background()

	now := time.Date(2024, 5, 17, 10, 0, 0, 0, time.UTC)
	c.now = func() time.Time { return now }

	require.NoError(t, c.Set(ctx, "corta", "v", time.Second))
	require.NoError(t, c.Set(ctx, "larga", "v", 0))

	now = now.Add(2 * time.Second)

	var got string
	hit, err := c.Get(ctx, "corta", &got)
	require.NoError(t, err)
	assert.False(t, hit)

	hit, err = c.Get(ctx, "larga", &got)
	require.NoError(t, err)
	assert.True(t, hit)
	assert.Equal(t, "v", got)
}

func TestInMemoryCache_StopTwice(t *testing.T) {
	c := NewInMemoryCache(time.Minute, time.Millisecond)
	c.Stop()
	assert.NotPanics(t, c.Stop)
}
