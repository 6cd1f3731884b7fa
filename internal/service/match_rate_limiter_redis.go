package service

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const redisMatchAllowScript = `
local current = redis.call("INCR", KEYS[1])
if current == 1 then
  redis.call("EXPIRE", KEYS[1], ARGV[1])
end
return current
`

const redisLimiterTimeout = 500 * time.Millisecond

type redisMatchRateLimiter struct {
	client redisEvaler
	window time.Duration
	max    int
	prefix string
	logger *zap.Logger
}

type redisEvaler interface {
	Eval(ctx context.Context, script string, keys []string, args ...interface{}) *redis.Cmd
}

// NewRedisMatchRateLimiter comparte el contador entre replicas. Ante errores de Redis deja pasar.
func NewRedisMatchRateLimiter(client *redis.Client, window time.Duration, max int, logger *zap.Logger) MatchRateLimiter {
	if client == nil {
		return nil
	}
	if window <= 0 {
		window = time.Minute
	}
	if max <= 0 {
		max = 1
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &redisMatchRateLimiter{
		client: client,
		window: window,
		max:    max,
		prefix: "match:rl:",
		logger: logger,
	}
}

func (l *redisMatchRateLimiter) Allow(ctx context.Context, key string) bool {
	if l == nil || l.client == nil {
		return true
	}
	normalizedKey := normalizeLimiterKey(key)
	if normalizedKey == "" {
		return false
	}
	ctx, cancel := context.WithTimeout(ctx, redisLimiterTimeout)
	defer cancel()

	redisKey := l.prefix + normalizedKey
	seconds := int(l.window.Seconds())
	if seconds <= 0 {
		seconds = 60
	}
	count, err := l.client.Eval(ctx, redisMatchAllowScript, []string{redisKey}, seconds).Int()
	if err != nil {
		l.logger.Warn("match rate limiter unavailable, allowing request", zap.Error(err))
		return true
	}
	return count <= l.max
}
