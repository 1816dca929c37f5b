// Package ratelimit provides per-key request throttling for the sensitive
// auth endpoints (login, refresh).
package ratelimit

import (
	"context"
	"sync"
	"time"
)

// Limiter decides whether one more request is allowed for the given key.
// limit is the per-minute budget for that key.
type Limiter interface {
	Allow(ctx context.Context, key string, limit int) bool
}

// MemoryLimiter is an in-process token-bucket limiter. Each key owns a
// bucket with capacity = limit, refilled continuously at capacity per
// minute. Buckets are created lazily and live for the process lifetime.
type MemoryLimiter struct {
	mu      sync.Mutex
	buckets map[string]*bucket
	now     func() time.Time
}

type bucket struct {
	tokens   float64
	capacity int
	last     time.Time
}

func NewMemoryLimiter() *MemoryLimiter {
	return &MemoryLimiter{
		buckets: make(map[string]*bucket),
		now:     time.Now,
	}
}

// Allow atomically attempts to consume one unit from the key's bucket.
// A non-positive limit disables throttling for the key.
func (l *MemoryLimiter) Allow(_ context.Context, key string, limit int) bool {
	if key == "" || limit <= 0 {
		return true
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()

	b, ok := l.buckets[key]
	if !ok || b.capacity != limit {
		b = &bucket{tokens: float64(limit), capacity: limit, last: now}
		l.buckets[key] = b
	}

	// greedy refill: capacity tokens per minute, accrued continuously
	elapsed := now.Sub(b.last)
	if elapsed > 0 {
		b.tokens += elapsed.Seconds() * float64(b.capacity) / 60.0
		if b.tokens > float64(b.capacity) {
			b.tokens = float64(b.capacity)
		}
		b.last = now
	}

	if b.tokens < 1 {
		return false
	}
	b.tokens--
	return true
}
