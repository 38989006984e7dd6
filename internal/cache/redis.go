package cache

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisClient is the subset of go-redis operations the distributed tier
// needs. *redis.Client satisfies it; tests substitute fakes built from
// redis.NewStringResult and friends.
type RedisClient interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) *redis.StatusCmd
	Del(ctx context.Context, keys ...string) *redis.IntCmd
	Ping(ctx context.Context) *redis.StatusCmd
	Close() error
}

// NewRedisClient builds a client for the given address using the default DB
// settings of the deployment.
func NewRedisClient(addr, password string, db int) RedisClient {
	return redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
}

// remoteTier adapts a RedisClient to the engine's tier protocol. Redis owns
// expiry natively; the engine never inspects remote TTLs.
type remoteTier struct {
	client RedisClient
}

func (r *remoteTier) get(ctx context.Context, key string) ([]byte, bool, error) {
	val, err := r.client.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, false, nil
		}
		return nil, false, err
	}
	return val, true, nil
}

func (r *remoteTier) set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	return r.client.Set(ctx, key, value, ttl).Err()
}

func (r *remoteTier) delete(ctx context.Context, key string) error {
	return r.client.Del(ctx, key).Err()
}

func (r *remoteTier) ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}

func (r *remoteTier) close() error {
	return r.client.Close()
}
