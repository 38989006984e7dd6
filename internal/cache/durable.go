package cache

import (
	"context"
	"time"
)

// DurableStore is the tier-3 contract: one table keyed by the string key,
// holding the JSON value and an absolute expiry timestamp. Rows past their
// expiry are absent to Get even before PurgeExpired reclaims them.
// Implementations live in this package (postgres, sqlite).
type DurableStore interface {
	Get(ctx context.Context, key string, now time.Time) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte, expiresAt time.Time) error
	Delete(ctx context.Context, key string) error
	PurgeExpired(ctx context.Context, now time.Time) (int64, error)
	Ping(ctx context.Context) error
	Close() error
}
