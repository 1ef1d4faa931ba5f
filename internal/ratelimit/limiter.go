package ratelimit

import (
	"sync"
	"time"
)

// Limiter is an in-memory sliding-window rate limiter keyed by device id.
// It caps how often one camera can push uploads, so a misbehaving device
// cannot flood storage or the classifier. Sliding window rather than fixed
// buckets so a burst straddling a window boundary cannot double the rate.
type Limiter struct {
	mu        sync.Mutex
	limit     int
	window    time.Duration
	buckets   map[string][]time.Time
	lastSweep time.Time
}

// New creates a limiter allowing limit events per window per key. A limit of
// zero disables limiting.
func New(limit int, window time.Duration) *Limiter {
	return &Limiter{
		limit:   limit,
		window:  window,
		buckets: make(map[string][]time.Time),
	}
}

// Allow reports whether one more event for key fits in the window, and
// records it if so.
func (l *Limiter) Allow(key string) bool {
	if l.limit <= 0 {
		return true
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	now := time.Now()
	cutoff := now.Add(-l.window)

	// Drop keys whose whole window has passed, so devices that went quiet
	// do not accumulate map entries forever.
	if now.Sub(l.lastSweep) > l.window {
		l.sweep(cutoff)
		l.lastSweep = now
	}

	timestamps := l.buckets[key]
	i := 0
	for ; i < len(timestamps); i++ {
		if timestamps[i].After(cutoff) {
			break
		}
	}
	timestamps = timestamps[i:]

	if len(timestamps) >= l.limit {
		l.buckets[key] = timestamps
		return false
	}

	l.buckets[key] = append(timestamps, now)
	return true
}

func (l *Limiter) sweep(cutoff time.Time) {
	for key, timestamps := range l.buckets {
		last := timestamps[len(timestamps)-1]
		if !last.After(cutoff) {
			delete(l.buckets, key)
		}
	}
}
