package memory

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetSetRoundTrip(t *testing.T) {
	c, err := New[string](4, 0)
	require.NoError(t, err)

	c.Set("k", "v")
	got, ok := c.Get("k")
	require.True(t, ok)
	assert.Equal(t, "v", got)

	_, ok = c.Get("missing")
	assert.False(t, ok)
}

func TestEvictsLeastRecentlyUsed(t *testing.T) {
	c, err := New[int](2, 0)
	require.NoError(t, err)

	c.Set("a", 1)
	c.Set("b", 2)

	// Touch a so b becomes the eviction candidate.
	_, ok := c.Get("a")
	require.True(t, ok)

	c.Set("c", 3)

	_, ok = c.Get("b")
	assert.False(t, ok)
	_, ok = c.Get("a")
	assert.True(t, ok)
	_, ok = c.Get("c")
	assert.True(t, ok)
}

func TestHasDoesNotRefreshRecency(t *testing.T) {
	c, err := New[int](2, 0)
	require.NoError(t, err)

	c.Set("a", 1)
	c.Set("b", 2)

	// Peeking at a must not rescue it from eviction.
	assert.True(t, c.Has("a"))

	c.Set("c", 3)

	assert.False(t, c.Has("a"))
	assert.True(t, c.Has("b"))
}

func TestTTLExpiry(t *testing.T) {
	c, err := New[int](4, time.Minute)
	require.NoError(t, err)

	current := time.Now()
	c.now = func() time.Time { return current }

	c.Set("a", 1)

	_, ok := c.Get("a")
	assert.True(t, ok)

	current = current.Add(2 * time.Minute)

	_, ok = c.Get("a")
	assert.False(t, ok)
	// Lazy expiry evicted the entry.
	assert.Equal(t, 0, c.Len())
}

func TestCleanupSweepsExpired(t *testing.T) {
	c, err := New[int](8, time.Minute)
	require.NoError(t, err)

	current := time.Now()
	c.now = func() time.Time { return current }

	c.Set("old1", 1)
	c.Set("old2", 2)

	current = current.Add(2 * time.Minute)
	c.Set("fresh", 3)

	assert.Equal(t, 2, c.Cleanup())
	assert.Equal(t, 1, c.Len())
	assert.True(t, c.Has("fresh"))
}

func TestCleanupWithoutTTLIsNoop(t *testing.T) {
	c, err := New[int](4, 0)
	require.NoError(t, err)

	c.Set("a", 1)
	assert.Equal(t, 0, c.Cleanup())
	assert.Equal(t, 1, c.Len())
}

func TestPurge(t *testing.T) {
	c, err := New[int](4, 0)
	require.NoError(t, err)

	c.Set("a", 1)
	c.Set("b", 2)
	c.Purge()

	assert.Equal(t, 0, c.Len())
	_, ok := c.Get("a")
	assert.False(t, ok)
}
