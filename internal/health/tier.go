package health

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"
)

// TierHealthChecker monitors one cache tier via periodic pings.
type TierHealthChecker struct {
	name         string
	ping         func(ctx context.Context) error
	healthy      atomic.Int32
	log          zerolog.Logger
	probeTimeout time.Duration
}

// NewTierHealthChecker wraps a tier ping function (e.g. the engine's
// PingRemote or PingDurable) in a periodic checker.
func NewTierHealthChecker(name string, ping func(ctx context.Context) error, log zerolog.Logger, probeTimeout time.Duration) *TierHealthChecker {
	hc := &TierHealthChecker{
		name:         name,
		ping:         ping,
		log:          log,
		probeTimeout: probeTimeout,
	}
	hc.healthy.Store(0) // start unhealthy until first successful probe
	return hc
}

// Name returns the checker name.
func (hc *TierHealthChecker) Name() string { return hc.name }

// IsHealthy returns the cached health status (non-blocking).
func (hc *TierHealthChecker) IsHealthy() bool { return hc.healthy.Load() == 1 }

// Start begins periodic health checking.
func (hc *TierHealthChecker) Start(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	check := func() {
		to := hc.probeTimeout
		if to <= 0 {
			to = 2 * time.Second
		}
		checkCtx, cancel := context.WithTimeout(ctx, to)
		defer cancel()

		if err := hc.ping(checkCtx); err != nil {
			hc.log.Error().Stack().
				Str("checker", hc.name).
				Err(err).
				Msg("tier health check failed")
			hc.healthy.Store(0)
			return
		}
		hc.healthy.Store(1)
	}

	check()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			check()
		}
	}
}
