// Package ratelimit provides a keyed token-bucket limiter used to
// throttle login attempts and assistant calls per client.
package ratelimit

import (
	"sync"
	"time"
)

// bucket refills continuously at capacity tokens per window.
type bucket struct {
	capacity   int
	available  float64
	window     time.Duration
	lastRefill time.Time
	lastSeen   time.Time
}

func (b *bucket) refill(now time.Time) {
	elapsed := now.Sub(b.lastRefill)
	if elapsed <= 0 {
		return
	}
	b.available += float64(b.capacity) * float64(elapsed) / float64(b.window)
	if b.available > float64(b.capacity) {
		b.available = float64(b.capacity)
	}
	b.lastRefill = now
}

// Limiter tracks one token bucket per key. Keys are arbitrary strings,
// typically a route name joined with a client address or user id. It is
// safe for concurrent use.
type Limiter struct {
	capacity int
	window   time.Duration

	mu      sync.Mutex
	buckets map[string]*bucket
	nowFunc func() time.Time
}

// New creates a limiter allowing capacity requests per window for each
// key. A capacity or window of zero disables limiting and Allow always
// returns true.
func New(capacity int, window time.Duration) *Limiter {
	return &Limiter{
		capacity: capacity,
		window:   window,
		buckets:  make(map[string]*bucket),
		nowFunc:  time.Now,
	}
}

// Allow reports whether the key may proceed, consuming a token when it
// can. The first call for a key starts with a full bucket.
func (l *Limiter) Allow(key string) bool {
	if l.capacity <= 0 || l.window <= 0 {
		return true
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.nowFunc()
	b, ok := l.buckets[key]
	if !ok {
		l.evictStale(now)
		b = &bucket{
			capacity:   l.capacity,
			available:  float64(l.capacity),
			window:     l.window,
			lastRefill: now,
		}
		l.buckets[key] = b
	}

	b.refill(now)
	b.lastSeen = now
	if b.available < 1 {
		return false
	}
	b.available--
	return true
}

// evictStale drops buckets idle long enough to have fully refilled, so
// the map does not grow with every client ever seen. Called with the
// lock held.
func (l *Limiter) evictStale(now time.Time) {
	cutoff := now.Add(-2 * l.window)
	for key, b := range l.buckets {
		if b.lastSeen.Before(cutoff) {
			delete(l.buckets, key)
		}
	}
}
