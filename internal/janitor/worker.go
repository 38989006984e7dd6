// Package janitor reclaims space in the durable tier. Correctness never
// depends on it: reads already treat expired rows as absent.
package janitor

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/telebridge/botstore/internal/cache"
)

// Config controls the purge cadence.
type Config struct {
	Interval time.Duration
}

// Worker periodically bulk-deletes expired durable rows.
type Worker struct {
	engine *cache.Engine
	log    zerolog.Logger
	cfg    Config
}

// NewWorker constructs a Worker from dependencies.
func NewWorker(engine *cache.Engine, cfg Config, log zerolog.Logger) *Worker {
	if cfg.Interval <= 0 {
		cfg.Interval = 5 * time.Minute
	}
	return &Worker{engine: engine, log: log, cfg: cfg}
}

// Run starts the purge loop until ctx is canceled.
func (w *Worker) Run(ctx context.Context) error {
	w.log.Info().Dur("interval", w.cfg.Interval).Msg("janitor starting")
	ticker := time.NewTicker(w.cfg.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			w.log.Info().Msg("janitor stopping")
			return ctx.Err()
		case <-ticker.C:
			if err := w.purgeOnce(ctx); err != nil {
				// Log and continue; the next cycle retries.
				w.log.Error().Err(err).Msg("janitor purge")
			}
		}
	}
}

func (w *Worker) purgeOnce(ctx context.Context) error {
	n, err := w.engine.PurgeExpired(ctx)
	if err != nil {
		return err
	}
	if n > 0 {
		w.log.Info().Int64("rows", n).Msg("purged expired durable rows")
	}
	return nil
}
