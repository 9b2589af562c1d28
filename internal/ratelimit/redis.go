package ratelimit

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisLimiter shares one fixed window per key across instances using
// INCR + EXPIRE. The expiry is set only on the first hit of a window.
type RedisLimiter struct {
	rdb    *redis.Client
	window time.Duration
	limit  int
}

func NewRedisLimiter(rdb *redis.Client, limit int, window time.Duration) *RedisLimiter {
	return &RedisLimiter{
		rdb:    rdb,
		limit:  limit,
		window: window,
	}
}

func (l *RedisLimiter) Allow(ctx context.Context, key string) (bool, time.Duration, error) {
	k := "ratelimit:" + key

	count, err := l.rdb.Incr(ctx, k).Result()

	if err != nil {
		return false, 0, err
	}

	if count == 1 {
		if err := l.rdb.Expire(ctx, k, l.window).Err(); err != nil {
			return false, 0, err
		}
	}

	if count > int64(l.limit) {
		ttl, err := l.rdb.TTL(ctx, k).Result()

		if err != nil || ttl < 0 {
			ttl = l.window
		}

		return false, ttl, nil
	}

	return true, 0, nil
}
