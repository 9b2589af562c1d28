package ratelimit

import (
	"context"
	"sync"
	"time"
)

type MemoryLimiter struct {
	mu        sync.Mutex
	window    time.Duration
	limit     int
	clients   map[string]*bucket
	nextSweep time.Time
}

type bucket struct {
	count     int
	windowEnd time.Time
}

func NewMemoryLimiter(limit int, window time.Duration) *MemoryLimiter {
	return &MemoryLimiter{
		limit:     limit,
		window:    window,
		clients:   make(map[string]*bucket),
		nextSweep: time.Now().Add(window),
	}
}

func (l *MemoryLimiter) Allow(ctx context.Context, key string) (bool, time.Duration, error) {
	now := time.Now()

	l.mu.Lock()
	defer l.mu.Unlock()

	l.sweep(now)

	b, ok := l.clients[key]

	if !ok || now.After(b.windowEnd) {
		l.clients[key] = &bucket{
			count:     1,
			windowEnd: now.Add(l.window),
		}

		return true, 0, nil
	}

	if b.count >= l.limit {
		retryAfter := time.Until(b.windowEnd)

		if retryAfter < 0 {
			retryAfter = 0
		}

		return false, retryAfter, nil
	}

	b.count++

	return true, 0, nil
}

// sweep drops buckets whose window has closed, at most once per window,
// so the per-key map cannot grow for the life of the process. Caller
// holds the lock.
func (l *MemoryLimiter) sweep(now time.Time) {
	if now.Before(l.nextSweep) {
		return
	}

	for key, b := range l.clients {
		if now.After(b.windowEnd) {
			delete(l.clients, key)
		}
	}

	l.nextSweep = now.Add(l.window)
}
