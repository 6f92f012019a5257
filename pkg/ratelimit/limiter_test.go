package ratelimit

import (
	"context"
	"errors"
	"strconv"
	"testing"
	"time"

	redismock "github.com/go-redis/redismock/v9"
	"github.com/handyhub/provider-stats/pkg/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testRateLimitConfig() config.RateLimitConfig {
	return config.RateLimitConfig{
		Enabled:       true,
		WindowSeconds: 60,
		Limit:         3,
		RedisPrefix:   "ratelimit",
	}
}

func newTestLimiter(t *testing.T, now time.Time) (*Limiter, redismock.ClientMock) {
	t.Helper()

	client, mock := redismock.NewClientMock()
	limiter := NewLimiter(client, testRateLimitConfig())
	limiter.now = func() time.Time { return now }
	return limiter, mock
}

func TestAllowFirstRequestSetsExpiry(t *testing.T) {
	now := time.Date(2024, 4, 15, 12, 0, 30, 0, time.UTC)
	limiter, mock := newTestLimiter(t, now)

	key := "ratelimit:statistics:1.2.3.4:" + bucketFor(now, 60)
	mock.ExpectIncr(key).SetVal(1)
	mock.ExpectExpire(key, time.Minute).SetVal(true)

	result, err := limiter.Allow(context.Background(), "statistics", "1.2.3.4")
	require.NoError(t, err)

	assert.True(t, result.Allowed)
	assert.Equal(t, 2, result.Remaining)
	assert.Equal(t, 3, result.Limit)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAllowSubsequentRequestSkipsExpiry(t *testing.T) {
	now := time.Date(2024, 4, 15, 12, 0, 30, 0, time.UTC)
	limiter, mock := newTestLimiter(t, now)

	key := "ratelimit:statistics:1.2.3.4:" + bucketFor(now, 60)
	mock.ExpectIncr(key).SetVal(2)

	result, err := limiter.Allow(context.Background(), "statistics", "1.2.3.4")
	require.NoError(t, err)

	assert.True(t, result.Allowed)
	assert.Equal(t, 1, result.Remaining)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAllowOverLimit(t *testing.T) {
	now := time.Date(2024, 4, 15, 12, 0, 30, 0, time.UTC)
	limiter, mock := newTestLimiter(t, now)

	key := "ratelimit:statistics:1.2.3.4:" + bucketFor(now, 60)
	mock.ExpectIncr(key).SetVal(4)

	result, err := limiter.Allow(context.Background(), "statistics", "1.2.3.4")
	require.NoError(t, err)

	assert.False(t, result.Allowed)
	assert.Zero(t, result.Remaining)
	// 30s into a 60s window leaves 30s until the next bucket
	assert.Equal(t, 30*time.Second, result.RetryAfter)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAllowRedisError(t *testing.T) {
	now := time.Date(2024, 4, 15, 12, 0, 30, 0, time.UTC)
	limiter, mock := newTestLimiter(t, now)

	key := "ratelimit:statistics:1.2.3.4:" + bucketFor(now, 60)
	mock.ExpectIncr(key).SetErr(errors.New("connection refused"))

	_, err := limiter.Allow(context.Background(), "statistics", "1.2.3.4")
	require.Error(t, err)
}

func TestAllowSeparatesIdentities(t *testing.T) {
	now := time.Date(2024, 4, 15, 12, 0, 30, 0, time.UTC)
	limiter, mock := newTestLimiter(t, now)

	first := "ratelimit:statistics:1.2.3.4:" + bucketFor(now, 60)
	second := "ratelimit:statistics:5.6.7.8:" + bucketFor(now, 60)
	mock.ExpectIncr(first).SetVal(4)
	mock.ExpectIncr(second).SetVal(1)
	mock.ExpectExpire(second, time.Minute).SetVal(true)

	blocked, err := limiter.Allow(context.Background(), "statistics", "1.2.3.4")
	require.NoError(t, err)
	allowed, err := limiter.Allow(context.Background(), "statistics", "5.6.7.8")
	require.NoError(t, err)

	assert.False(t, blocked.Allowed)
	assert.True(t, allowed.Allowed)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func bucketFor(now time.Time, windowSeconds int64) string {
	return strconv.FormatInt(now.Unix()/windowSeconds, 10)
}
