package cache

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shapelift/shapelift/internal/testutil"
)

// withClock pins the cache's clock to a controllable test clock.
func withClock(m *Memory) *testutil.Clock {
	clock := testutil.NewClock()
	m.now = clock.Now
	return clock
}

func TestMemory_SetGet(t *testing.T) {
	m := NewMemory()
	m.Set("k", 42, time.Minute)

	v, ok := m.Get("k")
	require.True(t, ok)
	assert.Equal(t, 42, v)
}

func TestMemory_GetMissing(t *testing.T) {
	m := NewMemory()
	v, ok := m.Get("absent")
	assert.False(t, ok)
	assert.Nil(t, v)
}

func TestMemory_TTLExpiry(t *testing.T) {
	m := NewMemory()
	clock := withClock(m)
	m.Set("k", "v", time.Second)

	// At t=0.5s the entry is live.
	clock.Advance(500 * time.Millisecond)
	v, ok := m.Get("k")
	require.True(t, ok)
	assert.Equal(t, "v", v)

	// At t=1.5s it has expired and the read sweeps it.
	clock.Advance(time.Second)
	_, ok = m.Get("k")
	assert.False(t, ok)

	stats := m.Stats()
	assert.Zero(t, stats.Entries, "expired entry should be removed on read")
}

func TestMemory_ExpiryIsLazy(t *testing.T) {
	m := NewMemory()
	clock := withClock(m)
	m.Set("stale", "v", time.Second)
	clock.Advance(time.Hour)

	// Never read again: the entry stays resident and Stats still lists it.
	stats := m.Stats()
	assert.Equal(t, 1, stats.Entries)
	assert.Equal(t, []string{"stale"}, stats.Keys)
}

func TestMemory_SetOverwrites(t *testing.T) {
	m := NewMemory()
	m.Set("k", 1, time.Minute)
	m.Set("k", 2, time.Minute)

	v, _ := m.Get("k")
	assert.Equal(t, 2, v)

	stats := m.Stats()
	assert.Equal(t, 1, stats.Entries)
}

func TestMemory_DefaultTTL(t *testing.T) {
	m := NewMemory()
	clock := withClock(m)
	m.Set("k", "v", 0)

	clock.Advance(DefaultTTL - time.Second)
	_, ok := m.Get("k")
	assert.True(t, ok, "entry should survive until DefaultTTL")

	clock.Advance(2 * time.Second)
	_, ok = m.Get("k")
	assert.False(t, ok)
}

func TestMemory_DeleteAndClear(t *testing.T) {
	m := NewMemory()
	m.Set("a", 1, time.Minute)
	m.Set("b", 2, time.Minute)

	m.Delete("a")
	_, ok := m.Get("a")
	assert.False(t, ok)
	_, ok = m.Get("b")
	assert.True(t, ok)

	m.Clear()
	assert.Zero(t, m.Stats().Entries)
}

func TestMemory_StatsSortedKeys(t *testing.T) {
	m := NewMemory()
	m.Set("zebra", 1, time.Minute)
	m.Set("apple", 2, time.Minute)

	stats := m.Stats()
	assert.Equal(t, []string{"apple", "zebra"}, stats.Keys)
}

func TestKey_Deterministic(t *testing.T) {
	a := Key("p", map[string]any{"b": 2, "a": 1})
	b := Key("p", map[string]any{"a": 1, "b": 2})
	assert.Equal(t, a, b)
	assert.Equal(t, "p:a:1|b:2", a)
}

func TestKey_EmptyParams(t *testing.T) {
	assert.Equal(t, "datasets", Key("datasets", nil))
}

func TestKey_DistinguishesValues(t *testing.T) {
	assert.NotEqual(t,
		Key("p", map[string]any{"page": 1}),
		Key("p", map[string]any{"page": 2}),
	)
}
