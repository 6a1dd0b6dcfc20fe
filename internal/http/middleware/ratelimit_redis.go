package middleware

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

// Keys are namespaced so the limiter shares the Redis instance used by the
// notification channel without colliding with its groups.
const rateLimitKeyPrefix = "ratelimit:"

// Budget for the Redis round trip; a slow Redis must not stall postulation
// creation, so past this the limiter gives up and admits the request.
const rateLimitCallTimeout = 250 * time.Millisecond

const rateLimitScript = `
local current = redis.call("INCR", KEYS[1])
if current == 1 then
  redis.call("PEXPIRE", KEYS[1], ARGV[1])
end
if current > tonumber(ARGV[2]) then
  return 0
end
return 1
`

// RedisLimiter shares the rate limit window across instances. It fails open:
// any Redis error lets the request through.
type RedisLimiter struct {
	client *redis.Client
	script *redis.Script
}

func NewRedisLimiter(client *redis.Client) *RedisLimiter {
	if client == nil {
		return nil
	}
	return &RedisLimiter{
		client: client,
		script: redis.NewScript(rateLimitScript),
	}
}

func (l *RedisLimiter) Allow(key string, limit int, window time.Duration) bool {
	if l == nil || l.client == nil {
		return true
	}
	if key == "" || limit <= 0 || window <= 0 {
		return true
	}
	ttl := window.Milliseconds()
	if ttl <= 0 {
		ttl = 1
	}
	ctx, cancel := context.WithTimeout(context.Background(), rateLimitCallTimeout)
	defer cancel()
	allowed, err := l.script.Run(ctx, l.client, []string{rateLimitKeyPrefix + key}, ttl, limit).Int64()
	if err != nil {
		return true
	}
	return allowed == 1
}
