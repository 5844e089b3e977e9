package cache

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// withClock installs a controllable clock and returns the advance function.
func withClock(c *TTL) func(time.Duration) {
	current := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	c.now = func() time.Time { return current }
	return func(d time.Duration) { current = current.Add(d) }
}

func TestTTL_HitAndMiss(t *testing.T) {
	c := NewTTL(time.Minute, 4)

	_, ok := c.Get("a")
	assert.False(t, ok)

	c.Set("a", "value-a")
	got, ok := c.Get("a")
	require.True(t, ok)
	assert.Equal(t, "value-a", got)

	stats := c.Stats()
	assert.Equal(t, 1, stats.Hits)
	assert.Equal(t, 1, stats.Misses)
	assert.Equal(t, 1, stats.Sets)
	assert.Equal(t, 1, stats.Size)
	assert.True(t, stats.Enabled)
}

func TestTTL_Expiration(t *testing.T) {
	c := NewTTL(time.Minute, 4)
	advance := withClock(c)

	c.Set("a", 1)
	advance(59 * time.Second)
	_, ok := c.Get("a")
	assert.True(t, ok)

	advance(2 * time.Second)
	_, ok = c.Get("a")
	assert.False(t, ok)

	stats := c.Stats()
	assert.Equal(t, 1, stats.Expirations)
	assert.Equal(t, 0, stats.Size)
}

func TestTTL_SetRefreshesExpiry(t *testing.T) {
	c := NewTTL(time.Minute, 4)
	advance := withClock(c)

	c.Set("a", 1)
	advance(45 * time.Second)
	c.Set("a", 2)
	advance(45 * time.Second)

	got, ok := c.Get("a")
	require.True(t, ok)
	assert.Equal(t, 2, got)
}

func TestTTL_EvictsLeastRecentlyUsed(t *testing.T) {
	c := NewTTL(time.Minute, 2)

	c.Set("a", 1)
	c.Set("b", 2)
	// Touch "a" so "b" is the eviction candidate.
	_, ok := c.Get("a")
	require.True(t, ok)

	c.Set("c", 3)

	_, ok = c.Get("a")
	assert.True(t, ok)
	_, ok = c.Get("b")
	assert.False(t, ok)
	_, ok = c.Get("c")
	assert.True(t, ok)

	assert.Equal(t, 1, c.Stats().Evictions)
}

func TestTTL_PurgeExpired(t *testing.T) {
	c := NewTTL(time.Minute, 8)
	advance := withClock(c)

	c.Set("a", 1)
	c.Set("b", 2)
	advance(30 * time.Second)
	c.Set("c", 3)
	advance(45 * time.Second)

	removed := c.PurgeExpired()
	assert.Equal(t, 2, removed)
	assert.Equal(t, 1, c.Stats().Size)
}

func TestTTL_Clear(t *testing.T) {
	c := NewTTL(time.Minute, 8)
	c.Set("a", 1)
	c.Set("b", 2)

	c.Clear()

	assert.Equal(t, 0, c.Stats().Size)
	// Counters survive a clear.
	assert.Equal(t, 2, c.Stats().Sets)
}

func TestTTL_Disabled(t *testing.T) {
	for _, c := range []*TTL{NewTTL(0, 8), NewTTL(time.Minute, 0)} {
		c.Set("a", 1)
		_, ok := c.Get("a")
		assert.False(t, ok)
		assert.False(t, c.Stats().Enabled)
		assert.Equal(t, 0, c.Stats().Sets)
	}
}

func TestTTL_StatsSnapshot(t *testing.T) {
	c := NewTTL(30*time.Second, 5)
	stats := c.Stats()

	assert.Equal(t, 30, stats.TTLSeconds)
	assert.Equal(t, 5, stats.MaxEntries)
}
