package ratelimit

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisStore shares counter windows between instances through redis. Each
// key holds the window count; its TTL marks the window end, so redis
// evicts expired windows without any sweep from us.
type RedisStore struct {
	rdb *redis.Client
}

func NewRedisStore(rdb *redis.Client) *RedisStore {
	return &RedisStore{rdb: rdb}
}

// Incr implements Store. The first hit opens the window by setting the
// TTL; later hits derive the window start from the remaining TTL.
func (r *RedisStore) Incr(ctx context.Context, key string, win time.Duration, now time.Time) (int, time.Time, error) {
	pipe := r.rdb.TxPipeline()
	incr := pipe.Incr(ctx, key)
	ttl := pipe.PTTL(ctx, key)
	if _, err := pipe.Exec(ctx); err != nil {
		return 0, time.Time{}, err
	}

	count := int(incr.Val())
	remaining := ttl.Val()
	if count == 1 || remaining < 0 {
		// fresh key, or a key that survived without a TTL
		if err := r.rdb.PExpire(ctx, key, win).Err(); err != nil {
			return 0, time.Time{}, err
		}
		return count, now, nil
	}

	start := now.Add(remaining).Add(-win)
	return count, start, nil
}
