package cache

import (
	"testing"
	"time"
)

func TestMemoryTierLazyExpiry(t *testing.T) {
	m := newMemoryTier()
	now := time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC)

	m.set("k", []byte("v"), now.Add(time.Minute))

	if v, ok := m.get("k", now); !ok || string(v) != "v" {
		t.Fatalf("get = %q, %v", v, ok)
	}
	if _, ok := m.get("k", now.Add(2*time.Minute)); ok {
		t.Fatal("entry readable past expiry")
	}
	// The expired entry still occupies the map until swept.
	if m.len() != 1 {
		t.Fatalf("len = %d, want 1", m.len())
	}
}

func TestMemoryTierSweep(t *testing.T) {
	m := newMemoryTier()
	now := time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC)

	m.set("dead", []byte("1"), now.Add(-time.Second))
	m.set("live", []byte("2"), now.Add(time.Hour))

	if n := m.sweep(now); n != 1 {
		t.Fatalf("sweep = %d, want 1", n)
	}
	if m.len() != 1 {
		t.Fatalf("len after sweep = %d, want 1", m.len())
	}
	if _, ok := m.get("live", now); !ok {
		t.Fatal("live entry swept")
	}
}

func TestMemoryTierDelete(t *testing.T) {
	m := newMemoryTier()
	now := time.Now()

	m.set("k", []byte("v"), now.Add(time.Hour))
	m.delete("k")
	m.delete("k") // absent delete is a no-op
	if _, ok := m.get("k", now); ok {
		t.Fatal("entry survived delete")
	}
}
