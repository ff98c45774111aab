// Package ratelimit throttles API clients with per-key token buckets.
package ratelimit

import (
	"sync"
	"time"
)

type bucket struct {
	tokens   float64
	lastSeen time.Time
}

// Decision is the outcome of a single Take.
type Decision struct {
	Allowed   bool
	Limit     int
	Remaining int
	ResetAt   time.Time // when the bucket is full again
}

// Limiter grants rate tokens per window to each key. Buckets idle for longer
// than a full window are equivalent to new ones and are dropped by Sweep.
type Limiter struct {
	mu      sync.Mutex
	buckets map[string]*bucket
	rate    int
	window  time.Duration
	now     func() time.Time
}

// New creates a Limiter that allows rate requests per window for each key.
func New(rate int, window time.Duration) *Limiter {
	return &Limiter{
		buckets: make(map[string]*bucket),
		rate:    rate,
		window:  window,
		now:     time.Now,
	}
}

// Rate returns the number of requests allowed per window.
func (l *Limiter) Rate() int { return l.rate }

// refill must be called with l.mu held.
func (l *Limiter) refill(key string, now time.Time) *bucket {
	b, ok := l.buckets[key]
	if !ok {
		b = &bucket{tokens: float64(l.rate), lastSeen: now}
		l.buckets[key] = b
		return b
	}

	elapsed := now.Sub(b.lastSeen).Seconds()
	if elapsed > 0 {
		b.tokens += elapsed * float64(l.rate) / l.window.Seconds()
		if b.tokens > float64(l.rate) {
			b.tokens = float64(l.rate)
		}
		b.lastSeen = now
	}
	return b
}

// Take consumes one token for key when available and reports the bucket
// state after the attempt.
func (l *Limiter) Take(key string) Decision {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	b := l.refill(key, now)

	d := Decision{Limit: l.rate}
	if b.tokens >= 1 {
		b.tokens--
		d.Allowed = true
	}

	d.Remaining = int(b.tokens)
	deficit := float64(l.rate) - b.tokens
	if deficit <= 0 {
		d.ResetAt = now
	} else {
		perSecond := float64(l.rate) / l.window.Seconds()
		d.ResetAt = now.Add(time.Duration(deficit / perSecond * float64(time.Second)))
	}
	return d
}

// Allow is Take without the bucket details.
func (l *Limiter) Allow(key string) bool {
	return l.Take(key).Allowed
}

// Sweep removes buckets that have refilled completely and returns how many
// were dropped.
func (l *Limiter) Sweep() int {
	l.mu.Lock()
	defer l.mu.Unlock()

	cutoff := l.now().Add(-l.window)
	n := 0
	for key, b := range l.buckets {
		if b.lastSeen.Before(cutoff) {
			delete(l.buckets, key)
			n++
		}
	}
	return n
}

// Len returns the number of tracked keys.
func (l *Limiter) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.buckets)
}
