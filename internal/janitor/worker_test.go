package janitor

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/telebridge/botstore/internal/cache"
)

// countingDurable counts purge calls; the janitor only ever needs that slice
// of the DurableStore surface.
type countingDurable struct {
	purges atomic.Int64
	fail   atomic.Bool
}

func (c *countingDurable) Get(ctx context.Context, key string, now time.Time) ([]byte, bool, error) {
	return nil, false, nil
}
func (c *countingDurable) Set(ctx context.Context, key string, value []byte, expiresAt time.Time) error {
	return nil
}
func (c *countingDurable) Delete(ctx context.Context, key string) error { return nil }
func (c *countingDurable) PurgeExpired(ctx context.Context, now time.Time) (int64, error) {
	if c.fail.Load() {
		return 0, errors.New("purge failed")
	}
	c.purges.Add(1)
	return 1, nil
}
func (c *countingDurable) Ping(ctx context.Context) error { return nil }
func (c *countingDurable) Close() error                   { return nil }

func newTestEngine(t *testing.T, d cache.DurableStore) *cache.Engine {
	t.Helper()
	e := cache.New(cache.Options{
		Durable:       d,
		SweepInterval: time.Hour,
		Logger:        zerolog.Nop(),
	})
	t.Cleanup(func() { _ = e.Close() })
	return e
}

func TestWorkerPurgesOnInterval(t *testing.T) {
	d := &countingDurable{}
	w := NewWorker(newTestEngine(t, d), Config{Interval: 10 * time.Millisecond}, zerolog.Nop())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- w.Run(ctx) }()

	deadline := time.Now().Add(2 * time.Second)
	for d.purges.Load() < 2 && time.Now().Before(deadline) {
		time.Sleep(10 * time.Millisecond)
	}
	cancel()

	if err := <-done; !errors.Is(err, context.Canceled) {
		t.Fatalf("Run = %v, want context.Canceled", err)
	}
	if d.purges.Load() < 2 {
		t.Fatalf("purges = %d, want at least 2", d.purges.Load())
	}
}

func TestWorkerSurvivesPurgeFailure(t *testing.T) {
	d := &countingDurable{}
	d.fail.Store(true)
	w := NewWorker(newTestEngine(t, d), Config{Interval: 10 * time.Millisecond}, zerolog.Nop())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- w.Run(ctx) }()

	// Let a few failing cycles pass, then recover; the loop must still be
	// alive to see the recovery.
	time.Sleep(50 * time.Millisecond)
	d.fail.Store(false)

	deadline := time.Now().Add(2 * time.Second)
	for d.purges.Load() < 1 && time.Now().Before(deadline) {
		time.Sleep(10 * time.Millisecond)
	}
	cancel()
	<-done

	if d.purges.Load() < 1 {
		t.Fatal("worker never recovered after purge failures")
	}
}

func TestWorkerDefaultInterval(t *testing.T) {
	d := &countingDurable{}
	w := NewWorker(newTestEngine(t, d), Config{}, zerolog.Nop())
	if w.cfg.Interval != 5*time.Minute {
		t.Fatalf("default interval = %v", w.cfg.Interval)
	}
}
