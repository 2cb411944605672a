package service

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// LoginLimiter tracks failed login attempts per account key.
type LoginLimiter interface {
	Allow(ctx context.Context, key string) (bool, error)
	RecordFailure(ctx context.Context, key string) error
	Reset(ctx context.Context, key string) error
}

type redisLoginLimiter struct {
	client      *redis.Client
	maxAttempts int
	window      time.Duration
}

// NewRedisLoginLimiter builds a fixed-window limiter backed by redis.
// It returns nil when client is nil so callers can pass it straight to NewAuthService.
func NewRedisLoginLimiter(client *redis.Client, maxAttempts int, window time.Duration) LoginLimiter {
	if client == nil {
		return nil
	}
	if maxAttempts <= 0 {
		maxAttempts = 5
	}
	if window <= 0 {
		window = 15 * time.Minute
	}

	return &redisLoginLimiter{client: client, maxAttempts: maxAttempts, window: window}
}

func (l *redisLoginLimiter) Allow(ctx context.Context, key string) (bool, error) {
	count, err := l.client.Get(ctx, l.key(key)).Int()
	if err == redis.Nil {
		return true, nil
	}
	if err != nil {
		return false, err
	}

	return count < l.maxAttempts, nil
}

func (l *redisLoginLimiter) RecordFailure(ctx context.Context, key string) error {
	redisKey := l.key(key)
	count, err := l.client.Incr(ctx, redisKey).Result()
	if err != nil {
		return err
	}
	if count == 1 {
		return l.client.Expire(ctx, redisKey, l.window).Err()
	}
	return nil
}

func (l *redisLoginLimiter) Reset(ctx context.Context, key string) error {
	return l.client.Del(ctx, l.key(key)).Err()
}

// key hashes the account identifier so raw emails never land in redis.
func (l *redisLoginLimiter) key(key string) string {
	sum := sha256.Sum256([]byte(key))
	return fmt.Sprintf("auth:login_failures:%s", hex.EncodeToString(sum[:]))
}
