// Package cache provides a process-local keyed store with per-entry TTLs and
// lazy expiration. Entries expire only when read; there is no background
// sweep. The cache is never synchronized across processes: a deployment
// running N server instances has N independent caches, and callers that need
// coherence must substitute a distributed Store implementation.
package cache

import (
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"
)

// DefaultTTL applies when Set is called with a non-positive TTL.
const DefaultTTL = 5 * time.Minute

// Store is the minimal cache surface handlers depend on, kept as an
// interface so a distributed backing store can be swapped in without
// touching call sites.
type Store interface {
	Get(key string) (any, bool)
	Set(key string, value any, ttl time.Duration)
	Delete(key string)
	Clear()
	Stats() Stats
}

// Stats reports the current entry count and live keys. No TTL check is
// applied to the listing, so it may include logically expired entries that
// have not been swept by a read yet.
type Stats struct {
	Entries int      `json:"entries"`
	Keys    []string `json:"keys"`
}

type entry struct {
	value      any
	insertedAt time.Time
	ttl        time.Duration
}

// Memory is the in-process Store implementation.
type Memory struct {
	mu      sync.RWMutex
	entries map[string]entry
	now     func() time.Time // overridable in tests
}

// Compile-time interface guard.
var _ Store = (*Memory)(nil)

// NewMemory creates an empty in-memory cache.
func NewMemory() *Memory {
	return &Memory{
		entries: make(map[string]entry),
		now:     time.Now,
	}
}

// Set stores value under key, overwriting any existing entry. A non-positive
// ttl falls back to DefaultTTL.
func (m *Memory) Set(key string, value any, ttl time.Duration) {
	if ttl <= 0 {
		ttl = DefaultTTL
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries[key] = entry{value: value, insertedAt: m.now(), ttl: ttl}
}

// Get returns the live value under key. An entry older than its TTL is
// removed and reported as a miss; expiry is detected only here.
func (m *Memory) Get(key string) (any, bool) {
	m.mu.RLock()
	e, ok := m.entries[key]
	m.mu.RUnlock()
	if !ok {
		return nil, false
	}

	if m.now().Sub(e.insertedAt) > e.ttl {
		m.mu.Lock()
		// Re-check under the write lock: a concurrent Set may have
		// refreshed the entry.
		if cur, ok := m.entries[key]; ok && cur.insertedAt.Equal(e.insertedAt) {
			delete(m.entries, key)
		}
		m.mu.Unlock()
		return nil, false
	}

	return e.value, true
}

// Delete removes a single entry.
func (m *Memory) Delete(key string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.entries, key)
}

// Clear removes all entries.
func (m *Memory) Clear() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries = make(map[string]entry)
}

// Stats returns the entry count and sorted key list, expired-but-unswept
// entries included.
func (m *Memory) Stats() Stats {
	m.mu.RLock()
	defer m.mu.RUnlock()

	keys := make([]string, 0, len(m.entries))
	for k := range m.entries {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	return Stats{Entries: len(m.entries), Keys: keys}
}

// Key canonicalizes a parameter map into a deterministic cache key: the
// prefix followed by sorted key:value pairs. Two logically identical
// parameter maps always produce the same key regardless of insertion order.
func Key(prefix string, params map[string]any) string {
	if len(params) == 0 {
		return prefix
	}

	names := make([]string, 0, len(params))
	for name := range params {
		names = append(names, name)
	}
	sort.Strings(names)

	var b strings.Builder
	b.WriteString(prefix)
	b.WriteByte(':')
	for i, name := range names {
		if i > 0 {
			b.WriteByte('|')
		}
		fmt.Fprintf(&b, "%s:%v", name, params[name])
	}
	return b.String()
}
