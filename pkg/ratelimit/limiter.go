package ratelimit

import (
	"context"
	"fmt"
	"time"

	"github.com/handyhub/provider-stats/pkg/config"
	redis "github.com/redis/go-redis/v9"
)

// Result captures the outcome of a rate limiting decision.
type Result struct {
	Allowed    bool
	Remaining  int
	Limit      int
	RetryAfter time.Duration
}

// Limiter implements a Redis-backed fixed-window rate limiter keyed by
// client identity and endpoint.
type Limiter struct {
	client redis.Cmdable
	cfg    config.RateLimitConfig
	now    func() time.Time
}

// NewLimiter creates a new Limiter instance.
func NewLimiter(client redis.Cmdable, cfg config.RateLimitConfig) *Limiter {
	return &Limiter{
		client: client,
		cfg:    cfg,
		now:    time.Now,
	}
}

// Window returns the configured limiting window.
func (l *Limiter) Window() time.Duration {
	return time.Duration(l.cfg.WindowSeconds) * time.Second
}

// Allow records one request for the identity/endpoint pair and reports
// whether it is within the configured limit.
func (l *Limiter) Allow(ctx context.Context, endpoint, identity string) (Result, error) {
	window := l.Window()
	bucket := l.now().Unix() / int64(window.Seconds())
	key := fmt.Sprintf("%s:%s:%s:%d", l.cfg.RedisPrefix, endpoint, identity, bucket)

	count, err := l.client.Incr(ctx, key).Result()
	if err != nil {
		return Result{}, fmt.Errorf("rate limit incr: %w", err)
	}

	// First hit in the window owns the key TTL
	if count == 1 {
		if err := l.client.Expire(ctx, key, window).Err(); err != nil {
			return Result{}, fmt.Errorf("rate limit expire: %w", err)
		}
	}

	remaining := l.cfg.Limit - int(count)
	if remaining < 0 {
		remaining = 0
	}

	result := Result{
		Allowed:   int(count) <= l.cfg.Limit,
		Remaining: remaining,
		Limit:     l.cfg.Limit,
	}

	if !result.Allowed {
		elapsed := l.now().Unix() % int64(window.Seconds())
		result.RetryAfter = window - time.Duration(elapsed)*time.Second
	}

	return result, nil
}
