// Package store layers the bot's typed records and key scheme onto the
// tiered cache engine. Every method catches its own storage errors, logs
// them with operation context and returns a sentinel (false, nil or an empty
// slice): callers treat "not found" and "error" as the same outcome.
package store

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/rs/zerolog"

	"github.com/telebridge/botstore/internal/cache"
)

// errWriteFailed marks a failed read-modify-write of an index key; the
// failure has already been logged where it happened.
var errWriteFailed = errors.New("index write failed")

// BotStore is the only surface the rest of the bot may call; nothing outside
// this package touches tiers directly.
type BotStore struct {
	engine *cache.Engine
	log    zerolog.Logger
	now    func() time.Time
}

// New wraps an engine. The engine's lifecycle (Close) stays with its owner.
func New(engine *cache.Engine, log zerolog.Logger) *BotStore {
	return &BotStore{engine: engine, log: log, now: time.Now}
}

// WithClock overrides the store's clock. Tests use this together with the
// engine's clock to advance virtual time.
func (s *BotStore) WithClock(now func() time.Time) *BotStore {
	s.now = now
	return s
}

// Engine exposes the underlying engine for lifecycle and maintenance code.
func (s *BotStore) Engine() *cache.Engine { return s.engine }

// getRecord reads and decodes one record. A value that fails to decode is
// worse than a miss, so it is logged at error level and reported absent.
func getRecord[T any](ctx context.Context, s *BotStore, key, op string) (*T, bool) {
	b, ok := s.engine.Get(ctx, key)
	if !ok {
		return nil, false
	}
	var v T
	if err := json.Unmarshal(b, &v); err != nil {
		s.log.Error().Err(err).Str("op", op).Str("key", key).Msg("malformed stored value; treating as absent")
		return nil, false
	}
	return &v, true
}

// setRecord encodes and writes one record. ttl <= 0 uses tier defaults.
func (s *BotStore) setRecord(ctx context.Context, key string, v interface{}, ttl time.Duration, op string) bool {
	b, err := json.Marshal(v)
	if err != nil {
		s.log.Error().Err(err).Str("op", op).Str("key", key).Msg("marshal failed")
		return false
	}
	if err := s.engine.SetTTL(ctx, key, b, ttl); err != nil {
		s.log.Error().Err(err).Str("op", op).Str("key", key).Msg("write failed")
		return false
	}
	return true
}

func (s *BotStore) deleteKey(ctx context.Context, key, op string) bool {
	if err := s.engine.Delete(ctx, key); err != nil {
		s.log.Error().Err(err).Str("op", op).Str("key", key).Msg("delete failed")
		return false
	}
	return true
}
