package ratelimit

import (
	"sync"
	"time"
)

// staleAfter is how long an idle bucket survives before the next sweep
// reclaims it. Buckets are keyed by client IP and surface, so the map grows
// with distinct callers.
const staleAfter = 10 * time.Minute

type bucket struct {
	tokens     float64
	capacity   float64
	refillRate float64 // tokens per second
	last       time.Time
}

// Limiter is a token-bucket rate limiter keyed by caller identity. The
// signal and analyze surfaces sit in front of metered provider quotas, so
// each gets its own bucket per client.
type Limiter struct {
	mu        sync.Mutex
	buckets   map[string]*bucket
	nextSweep time.Time
}

func New() *Limiter {
	return &Limiter{
		buckets:   make(map[string]*bucket),
		nextSweep: time.Now().Add(staleAfter),
	}
}

// Allow consumes one token for key if available. capacity is the burst size
// and refillPerSec the sustained rate; both apply on the key's first call.
func (l *Limiter) Allow(key string, capacity, refillPerSec float64) bool {
	now := time.Now()

	l.mu.Lock()
	defer l.mu.Unlock()

	if now.After(l.nextSweep) {
		l.sweep(now)
	}

	b, ok := l.buckets[key]
	if !ok {
		b = &bucket{tokens: capacity, capacity: capacity, refillRate: refillPerSec, last: now}
		l.buckets[key] = b
	}

	if elapsed := now.Sub(b.last).Seconds(); elapsed > 0 {
		b.tokens += elapsed * b.refillRate
		if b.tokens > b.capacity {
			b.tokens = b.capacity
		}
		b.last = now
	}

	if b.tokens < 1 {
		return false
	}
	b.tokens--
	return true
}

func (l *Limiter) sweep(now time.Time) {
	for key, b := range l.buckets {
		if now.Sub(b.last) > staleAfter {
			delete(l.buckets, key)
		}
	}
	l.nextSweep = now.Add(staleAfter)
}
