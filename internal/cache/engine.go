// Package cache implements the tiered key/value engine behind the domain
// store: an in-process map, an optional Redis tier and an optional durable
// relational tier, with read-through backfill and write-through fan-out.
package cache

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// Default expiry policy per tier and the tier-1 sweep cadence.
const (
	DefaultMemoryTTL     = 24 * time.Hour
	DefaultRemoteTTL     = 72 * time.Hour
	DefaultDurableTTL    = 30 * 24 * time.Hour
	DefaultSweepInterval = 60 * time.Second
)

// Options configures an Engine. Remote and Durable are optional; leaving
// either nil degrades the engine to the remaining tiers.
type Options struct {
	Remote  RedisClient
	Durable DurableStore

	MemoryTTL     time.Duration
	RemoteTTL     time.Duration
	DurableTTL    time.Duration
	SweepInterval time.Duration

	Logger zerolog.Logger

	// Clock overrides time.Now, used by tests to advance virtual time.
	Clock func() time.Time
}

// Engine is the tiered cache. Reads fall through memory → remote → durable
// and backfill the faster tiers on a hit; writes go through every configured
// tier. Reads fail open: a tier error is logged and treated as a miss.
type Engine struct {
	mem     *memoryTier
	remote  *remoteTier
	durable DurableStore

	memoryTTL  time.Duration
	remoteTTL  time.Duration
	durableTTL time.Duration

	log zerolog.Logger
	now func() time.Time

	sweepInterval time.Duration
	stop          chan struct{}
	stopOnce      sync.Once
	done          chan struct{}
}

// New constructs an Engine and starts its background sweeper. Callers must
// Close the engine to release the sweeper and tier connections.
func New(opts Options) *Engine {
	e := &Engine{
		mem:           newMemoryTier(),
		durable:       opts.Durable,
		memoryTTL:     opts.MemoryTTL,
		remoteTTL:     opts.RemoteTTL,
		durableTTL:    opts.DurableTTL,
		log:           opts.Logger,
		now:           opts.Clock,
		sweepInterval: opts.SweepInterval,
		stop:          make(chan struct{}),
		done:          make(chan struct{}),
	}
	if opts.Remote != nil {
		e.remote = &remoteTier{client: opts.Remote}
	}
	if e.memoryTTL <= 0 {
		e.memoryTTL = DefaultMemoryTTL
	}
	if e.remoteTTL <= 0 {
		e.remoteTTL = DefaultRemoteTTL
	}
	if e.durableTTL <= 0 {
		e.durableTTL = DefaultDurableTTL
	}
	if e.sweepInterval <= 0 {
		e.sweepInterval = DefaultSweepInterval
	}
	if e.now == nil {
		e.now = time.Now
	}

	// Degradation is logged once here, not on every call.
	if e.remote == nil {
		e.log.Info().Msg("distributed cache tier not configured; engine degrades to memory+durable")
	}
	if e.durable == nil {
		e.log.Info().Msg("durable tier not configured; engine degrades to cache-only operation")
	}

	go e.sweepLoop()
	return e
}

// Get returns the value for key from the fastest tier that has it, refilling
// the tiers above. The second return is false on a miss; tier errors never
// propagate.
func (e *Engine) Get(ctx context.Context, key string) ([]byte, bool) {
	now := e.now()

	if v, ok := e.mem.get(key, now); ok {
		recordOp(tierMemory, "get", "hit")
		return v, true
	}
	recordOp(tierMemory, "get", "miss")

	if e.remote != nil {
		v, ok, err := e.remote.get(ctx, key)
		switch {
		case err != nil:
			recordOp(tierRemote, "get", "error")
			e.log.Warn().Err(err).Str("key", key).Msg("remote tier read failed; treating as miss")
		case ok:
			recordOp(tierRemote, "get", "hit")
			e.mem.set(key, v, now.Add(e.memoryTTL))
			return v, true
		default:
			recordOp(tierRemote, "get", "miss")
		}
	}

	if e.durable != nil {
		v, ok, err := e.durable.Get(ctx, key, now)
		switch {
		case err != nil:
			recordOp(tierDurable, "get", "error")
			e.log.Warn().Err(err).Str("key", key).Msg("durable tier read failed; treating as miss")
		case ok:
			recordOp(tierDurable, "get", "hit")
			if e.remote != nil {
				if err := e.remote.set(ctx, key, v, e.remoteTTL); err != nil {
					recordOp(tierRemote, "set", "error")
					e.log.Debug().Err(err).Str("key", key).Msg("remote backfill failed")
				}
			}
			e.mem.set(key, v, now.Add(e.memoryTTL))
			return v, true
		default:
			recordOp(tierDurable, "get", "miss")
		}
	}

	return nil, false
}

// Set writes the value through every configured tier with each tier's
// default expiry.
func (e *Engine) Set(ctx context.Context, key string, value []byte) error {
	return e.SetTTL(ctx, key, value, 0)
}

// SetTTL writes the value through every configured tier. A positive ttl
// overrides the tier defaults (tier 1 is capped at its default so explicit
// long TTLs cannot pin process memory). Tier 2/3 failures are logged and do
// not roll back tier 1; the call fails only on invalid input.
func (e *Engine) SetTTL(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if key == "" {
		return fmt.Errorf("cache: empty key")
	}
	now := e.now()

	memTTL := e.memoryTTL
	remTTL := e.remoteTTL
	durTTL := e.durableTTL
	if ttl > 0 {
		if ttl < memTTL {
			memTTL = ttl
		}
		remTTL = ttl
		durTTL = ttl
	}

	e.mem.set(key, value, now.Add(memTTL))
	recordOp(tierMemory, "set", "success")

	if e.remote != nil {
		if err := e.remote.set(ctx, key, value, remTTL); err != nil {
			recordOp(tierRemote, "set", "error")
			e.log.Warn().Err(err).Str("key", key).Msg("remote tier write failed")
		} else {
			recordOp(tierRemote, "set", "success")
		}
	}

	if e.durable != nil {
		if err := e.durable.Set(ctx, key, value, now.Add(durTTL)); err != nil {
			recordOp(tierDurable, "set", "error")
			e.log.Warn().Err(err).Str("key", key).Msg("durable tier write failed")
		} else {
			recordOp(tierDurable, "set", "success")
		}
	}

	return nil
}

// Delete removes the key from every configured tier. Absence in any tier is
// not an error.
func (e *Engine) Delete(ctx context.Context, key string) error {
	e.mem.delete(key)
	recordOp(tierMemory, "delete", "success")

	if e.remote != nil {
		if err := e.remote.delete(ctx, key); err != nil {
			recordOp(tierRemote, "delete", "error")
			e.log.Warn().Err(err).Str("key", key).Msg("remote tier delete failed")
		} else {
			recordOp(tierRemote, "delete", "success")
		}
	}

	if e.durable != nil {
		if err := e.durable.Delete(ctx, key); err != nil {
			recordOp(tierDurable, "delete", "error")
			e.log.Warn().Err(err).Str("key", key).Msg("durable tier delete failed")
		} else {
			recordOp(tierDurable, "delete", "success")
		}
	}

	return nil
}

// PurgeExpired bulk-deletes expired durable rows. Space reclamation only;
// reads already treat expired rows as absent.
func (e *Engine) PurgeExpired(ctx context.Context) (int64, error) {
	if e.durable == nil {
		return 0, nil
	}
	return e.durable.PurgeExpired(ctx, e.now())
}

// SweepMemory removes expired tier-1 entries immediately and returns the
// count. The background sweeper calls this on its interval.
func (e *Engine) SweepMemory() int {
	return e.mem.sweep(e.now())
}

// MemoryLen reports the number of live tier-1 entries, expired or not.
func (e *Engine) MemoryLen() int { return e.mem.len() }

// ClearMemory drops every tier-1 entry. Lower tiers are untouched.
func (e *Engine) ClearMemory() {
	e.mem.mu.Lock()
	e.mem.entries = make(map[string]memoryEntry)
	e.mem.mu.Unlock()
}

// PingRemote probes the distributed tier.
func (e *Engine) PingRemote(ctx context.Context) error {
	if e.remote == nil {
		return fmt.Errorf("remote tier not configured")
	}
	return e.remote.ping(ctx)
}

// PingDurable probes the durable tier.
func (e *Engine) PingDurable(ctx context.Context) error {
	if e.durable == nil {
		return fmt.Errorf("durable tier not configured")
	}
	return e.durable.Ping(ctx)
}

// HasRemote reports whether the distributed tier is configured.
func (e *Engine) HasRemote() bool { return e.remote != nil }

// HasDurable reports whether the durable tier is configured.
func (e *Engine) HasDurable() bool { return e.durable != nil }

// Close stops the sweeper and closes tier connections. Safe to call more
// than once.
func (e *Engine) Close() error {
	var firstErr error
	e.stopOnce.Do(func() {
		close(e.stop)
		<-e.done
		if e.remote != nil {
			if err := e.remote.close(); err != nil {
				firstErr = err
			}
		}
		if e.durable != nil {
			if err := e.durable.Close(); err != nil && firstErr == nil {
				firstErr = err
			}
		}
	})
	return firstErr
}

func (e *Engine) sweepLoop() {
	defer close(e.done)
	ticker := time.NewTicker(e.sweepInterval)
	defer ticker.Stop()
	for {
		select {
		case <-e.stop:
			return
		case <-ticker.C:
			if n := e.SweepMemory(); n > 0 {
				e.log.Debug().Int("swept", n).Msg("memory tier sweep")
			}
		}
	}
}
