package service

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

// incrWindowScript increments a fixed-window counter and starts the window's
// expiry on the first hit, atomically. go-redis switches to EVALSHA after the
// first call.
var incrWindowScript = redis.NewScript(`
	local current = redis.call('INCR', KEYS[1])
	if current == 1 then
		redis.call('PEXPIRE', KEYS[1], ARGV[1])
	end
	return current
`)

const rateLimitKeyPrefix = "ratelimit:"

// RateLimiter counts hits per key in fixed windows.
type RateLimiter interface {
	// Allow records one hit for key and reports whether it is within limit.
	Allow(ctx context.Context, key string) (bool, error)
}

type RedisRateLimiter struct {
	client redis.Scripter
	log    *logrus.Logger
	limit  int64
	window time.Duration
}

func NewRedisRateLimiter(client redis.Scripter, log *logrus.Logger, limit int, window time.Duration) *RedisRateLimiter {
	return &RedisRateLimiter{
		client: client,
		log:    log,
		limit:  int64(limit),
		window: window,
	}
}

func (l *RedisRateLimiter) Allow(ctx context.Context, key string) (bool, error) {
	if l.limit <= 0 {
		return true, nil
	}

	bucket := time.Now().UnixNano() / int64(l.window)
	redisKey := fmt.Sprintf("%s%s:%d", rateLimitKeyPrefix, key, bucket)

	count, err := incrWindowScript.Run(ctx, l.client, []string{redisKey}, l.window.Milliseconds()).Int64()
	if err != nil {
		l.log.Warnf("Failed to increment rate limit counter %s: %+v", redisKey, err)
		return false, err
	}

	return count <= l.limit, nil
}
