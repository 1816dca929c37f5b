package ratelimit

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func newMiniRedisLimiter(t *testing.T) (*RedisLimiter, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewRedisLimiter(client), mr
}

func TestRedisLimiter_Boundary(t *testing.T) {
	l, _ := newMiniRedisLimiter(t)
	ctx := context.Background()

	const limit = 5
	for i := 0; i < limit; i++ {
		if !l.Allow(ctx, "login:1.2.3.4", limit) {
			t.Fatalf("call %d should be allowed", i+1)
		}
	}
	if l.Allow(ctx, "login:1.2.3.4", limit) {
		t.Fatalf("call %d should be rejected", limit+1)
	}
}

func TestRedisLimiter_WindowExpiry(t *testing.T) {
	l, mr := newMiniRedisLimiter(t)
	ctx := context.Background()

	const limit = 2
	l.Allow(ctx, "k", limit)
	l.Allow(ctx, "k", limit)
	if l.Allow(ctx, "k", limit) {
		t.Fatalf("window should be exhausted")
	}

	mr.FastForward(time.Minute + time.Second)

	if !l.Allow(ctx, "k", limit) {
		t.Fatalf("new window should allow requests again")
	}
}

func TestRedisLimiter_FailsOpenWhenRedisDown(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	l := NewRedisLimiter(client)
	mr.Close()

	if !l.Allow(context.Background(), "k", 1) {
		t.Fatalf("limiter must fail open when redis is unreachable")
	}
}

func TestRedisLimiter_NilClient(t *testing.T) {
	if NewRedisLimiter(nil) != nil {
		t.Fatalf("nil client should yield nil limiter")
	}
	var l *RedisLimiter
	if !l.Allow(context.Background(), "k", 1) {
		t.Fatalf("nil limiter must allow")
	}
}
