package ratelimit

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisLimiter is a Redis-backed fixed-window rate limiter for deployments
// running more than one process behind a shared Redis. It implements the same
// simple per-key counter as MemoryLimiter: INCR on each attempt, with the key
// expiring when the window started by the first attempt ends.
type RedisLimiter struct {
	client    redis.Cmdable
	keyPrefix string
	limit     int
	period    time.Duration
}

// RedisConfig holds Redis rate limiter configuration.
type RedisConfig struct {
	// Client is the Redis client to use.
	Client redis.Cmdable

	// KeyPrefix is the prefix for all rate limit keys.
	// Defaults to "gatekit:ratelimit:".
	KeyPrefix string

	// Limit is the number of attempts allowed per window.
	Limit int

	// Period is the window duration.
	Period time.Duration
}

// NewRedisLimiter creates a new Redis-backed rate limiter.
func NewRedisLimiter(cfg *RedisConfig) *RedisLimiter {
	keyPrefix := cfg.KeyPrefix
	if keyPrefix == "" {
		keyPrefix = "gatekit:ratelimit:"
	}
	return &RedisLimiter{
		client:    cfg.Client,
		keyPrefix: keyPrefix,
		limit:     cfg.Limit,
		period:    cfg.Period,
	}
}

// Allow records an attempt and reports whether it is within the limit.
func (r *RedisLimiter) Allow(ctx context.Context, key string) (bool, error) {
	redisKey := r.keyPrefix + key

	count, err := r.client.Incr(ctx, redisKey).Result()
	if err != nil {
		return false, err
	}
	if count == 1 {
		// First attempt in the window starts the clock.
		if err := r.client.Expire(ctx, redisKey, r.period).Err(); err != nil {
			return false, err
		}
	}
	return count <= int64(r.limit), nil
}

// Reset clears the window for the given key.
func (r *RedisLimiter) Reset(ctx context.Context, key string) error {
	return r.client.Del(ctx, r.keyPrefix+key).Err()
}

// Close releases resources. The underlying client is owned by the caller.
func (r *RedisLimiter) Close() error {
	return nil
}

var _ Limiter = (*RedisLimiter)(nil)
