package cache

import (
	"sync"
	"time"
)

type memoryEntry struct {
	value     []byte
	expiresAt time.Time
}

// memoryTier is the in-process tier: a mutex-guarded map with per-entry
// absolute expiry. Expiry is checked lazily on read; the engine's sweeper
// removes abandoned entries in the background.
type memoryTier struct {
	mu      sync.RWMutex
	entries map[string]memoryEntry
}

func newMemoryTier() *memoryTier {
	return &memoryTier{entries: make(map[string]memoryEntry)}
}

func (m *memoryTier) get(key string, now time.Time) ([]byte, bool) {
	m.mu.RLock()
	e, ok := m.entries[key]
	m.mu.RUnlock()
	if !ok || now.After(e.expiresAt) {
		return nil, false
	}
	return e.value, true
}

func (m *memoryTier) set(key string, value []byte, expiresAt time.Time) {
	m.mu.Lock()
	m.entries[key] = memoryEntry{value: value, expiresAt: expiresAt}
	m.mu.Unlock()
}

func (m *memoryTier) delete(key string) {
	m.mu.Lock()
	delete(m.entries, key)
	m.mu.Unlock()
}

// sweep removes every expired entry and returns how many were dropped.
func (m *memoryTier) sweep(now time.Time) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for k, e := range m.entries {
		if now.After(e.expiresAt) {
			delete(m.entries, k)
			n++
		}
	}
	return n
}

func (m *memoryTier) len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.entries)
}
