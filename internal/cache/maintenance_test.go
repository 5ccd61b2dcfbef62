package cache

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCleanup_RemovesWithoutLookup(t *testing.T) {
	c, err := New[string, string](10,
		WithLifespan(20*time.Millisecond),
		WithCleanupInterval(10*time.Millisecond))
	require.NoError(t, err)
	defer c.Close()

	c.Put("ttl", "v")

	// Len never sweeps, so only the cleanup goroutine can bring it to zero.
	assert.Eventually(t, func() bool { return c.Len() == 0 },
		500*time.Millisecond, 5*time.Millisecond)
	assert.Equal(t, uint64(1), c.Stats().Expirations)
}

func TestCleanup_DisabledByDefault(t *testing.T) {
	c, err := New[string, string](10, WithLifespan(10*time.Millisecond))
	require.NoError(t, err)
	defer c.Close()

	c.Put("ttl", "v")
	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, 1, c.Len())
}

func TestClose_IdempotentAndCacheStaysUsable(t *testing.T) {
	c, err := New[string, string](1, WithCleanupInterval(10*time.Millisecond))
	require.NoError(t, err)

	require.NoError(t, c.Close())
	require.NoError(t, c.Close())

	c.Put("k", "v")
	v, ok := c.Get("k")
	require.True(t, ok)
	assert.Equal(t, "v", v)
}
