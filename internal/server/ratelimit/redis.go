package ratelimit

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

const allowScript = `
local current = redis.call("INCR", KEYS[1])
if current == 1 then
  redis.call("PEXPIRE", KEYS[1], ARGV[1])
end
if current > tonumber(ARGV[2]) then
  return 0
end
return 1
`

// RedisLimiter is a fixed-window limiter backed by Redis, for deployments
// running more than one server instance. Windows are one minute, matching
// the per-minute limits of the in-memory limiter. It fails open: if Redis
// is unreachable the request is allowed rather than dropped.
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
		script: redis.NewScript(allowScript),
	}
}

func (l *RedisLimiter) Allow(ctx context.Context, key string, limit int) bool {
	if l == nil || l.client == nil {
		return true
	}
	if key == "" || limit <= 0 {
		return true
	}

	ctx, cancel := context.WithTimeout(ctx, 250*time.Millisecond)
	defer cancel()

	allowed, err := l.script.Run(ctx, l.client, []string{"ratelimit:" + key},
		time.Minute.Milliseconds(), limit).Int64()
	if err != nil {
		return true
	}
	return allowed == 1
}
