package store

import (
	"context"
	"encoding/json"
	"sync"
	"time"
)

// KeyResult reports the outcome of one component write of a multi-key
// operation.
type KeyResult struct {
	Key string
	Err error
}

// FanoutResult is the per-key outcome of a best-effort multi-key write.
// Partial success is a first-class, expected outcome: no ordering or
// atomicity is guaranteed between the component keys, and read paths must
// tolerate entities reachable by only some of their keys.
type FanoutResult []KeyResult

// Ok reports whether every component write succeeded.
func (r FanoutResult) Ok() bool {
	for _, kr := range r {
		if kr.Err != nil {
			return false
		}
	}
	return len(r) > 0
}

// Partial reports whether some, but not all, component writes succeeded.
func (r FanoutResult) Partial() bool {
	failed := 0
	for _, kr := range r {
		if kr.Err != nil {
			failed++
		}
	}
	return failed > 0 && failed < len(r)
}

// FailedKeys lists the keys whose writes failed.
func (r FanoutResult) FailedKeys() []string {
	var keys []string
	for _, kr := range r {
		if kr.Err != nil {
			keys = append(keys, kr.Key)
		}
	}
	return keys
}

type fanoutWrite struct {
	key   string
	value interface{}
	ttl   time.Duration
}

// fanout issues all component writes concurrently and waits for every one
// before returning, so latency is bounded by the slowest write rather than
// the sum.
func (s *BotStore) fanout(ctx context.Context, op string, writes []fanoutWrite) FanoutResult {
	results := make(FanoutResult, len(writes))
	var wg sync.WaitGroup
	for i, w := range writes {
		wg.Add(1)
		go func(i int, w fanoutWrite) {
			defer wg.Done()
			results[i].Key = w.key
			b, err := json.Marshal(w.value)
			if err != nil {
				results[i].Err = err
				return
			}
			results[i].Err = s.engine.SetTTL(ctx, w.key, b, w.ttl)
		}(i, w)
	}
	wg.Wait()

	for _, kr := range results {
		if kr.Err != nil {
			s.log.Warn().Err(kr.Err).Str("op", op).Str("key", kr.Key).Msg("component write failed")
		}
	}
	return results
}

// fanoutDelete removes all listed keys concurrently, best effort.
func (s *BotStore) fanoutDelete(ctx context.Context, op string, keys []string) FanoutResult {
	results := make(FanoutResult, len(keys))
	var wg sync.WaitGroup
	for i, k := range keys {
		wg.Add(1)
		go func(i int, k string) {
			defer wg.Done()
			results[i].Key = k
			results[i].Err = s.engine.Delete(ctx, k)
		}(i, k)
	}
	wg.Wait()

	for _, kr := range results {
		if kr.Err != nil {
			s.log.Warn().Err(kr.Err).Str("op", op).Str("key", kr.Key).Msg("component delete failed")
		}
	}
	return results
}
