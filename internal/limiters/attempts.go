package limiters

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	defaultMaxAttempts = 5
	defaultCooldown    = time.Minute
)

var (
	ErrRateLimited = errors.New("authentication rate limited")
	ErrUnavailable = errors.New("limiter backend unavailable")
)

// AttemptLimiter counts failed authentications per key.
type AttemptLimiter interface {
	// Check fails with ErrRateLimited once the failure budget is spent.
	Check(ctx context.Context, key string) error
	RecordFailure(ctx context.Context, key string) error
	Reset(ctx context.Context, key string) error
}

// Config holds the failure budget. Zero fields fall back to 5 attempts per
// minute.
type Config struct {
	MaxAttempts int
	Cooldown    time.Duration
}

func (c Config) normalized() Config {
	if c.MaxAttempts <= 0 {
		c.MaxAttempts = defaultMaxAttempts
	}
	if c.Cooldown <= 0 {
		c.Cooldown = defaultCooldown
	}
	return c
}

type RedisAttemptLimiter struct {
	redis       redis.UniversalClient
	maxAttempts int64
	cooldown    time.Duration
}

func NewRedisAttemptLimiter(redisClient redis.UniversalClient, cfg Config) *RedisAttemptLimiter {
	cfg = cfg.normalized()
	return &RedisAttemptLimiter{redis: redisClient, maxAttempts: int64(cfg.MaxAttempts), cooldown: cfg.Cooldown}
}

func attemptKey(key string) string {
	return "ota:" + key
}

func (l *RedisAttemptLimiter) Check(ctx context.Context, key string) error {
	if l == nil {
		return nil
	}
	count, err := l.redis.Get(ctx, attemptKey(key)).Int64()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil
		}
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	if count >= l.maxAttempts {
		return ErrRateLimited
	}
	return nil
}

func (l *RedisAttemptLimiter) RecordFailure(ctx context.Context, key string) error {
	if l == nil {
		return nil
	}
	count, err := l.redis.Incr(ctx, attemptKey(key)).Result()
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	if count == 1 {
		if err := l.redis.Expire(ctx, attemptKey(key), l.cooldown).Err(); err != nil {
			return fmt.Errorf("%w: %v", ErrUnavailable, err)
		}
	}
	if count >= l.maxAttempts {
		return ErrRateLimited
	}
	return nil
}

func (l *RedisAttemptLimiter) Reset(ctx context.Context, key string) error {
	if l == nil {
		return nil
	}
	if err := l.redis.Del(ctx, attemptKey(key)).Err(); err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return nil
}
