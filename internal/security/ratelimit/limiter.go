// Package ratelimit provides a keyed token-bucket limiter for the public
// portal endpoints, which carry no authentication and are keyed by client
// address instead.
package ratelimit

import (
	"sync"
	"time"

	"golang.org/x/time/rate"
)

type entry struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// Limiter hands out one token bucket per key and evicts idle buckets.
type Limiter struct {
	mu      sync.Mutex
	entries map[string]*entry
	rate    rate.Limit
	burst   int
	maxIdle time.Duration
	done    chan struct{}
}

// NewLimiter creates a limiter allowing rps requests per second with the
// given burst per key.
func NewLimiter(rps float64, burst int) *Limiter {
	l := &Limiter{
		entries: make(map[string]*entry),
		rate:    rate.Limit(rps),
		burst:   burst,
		maxIdle: 10 * time.Minute,
		done:    make(chan struct{}),
	}
	go l.evictLoop()
	return l
}

// Allow reports whether the key may make a request now.
func (l *Limiter) Allow(key string) bool {
	l.mu.Lock()
	e, ok := l.entries[key]
	if !ok {
		e = &entry{limiter: rate.NewLimiter(l.rate, l.burst)}
		l.entries[key] = e
	}
	e.lastSeen = time.Now()
	l.mu.Unlock()
	return e.limiter.Allow()
}

// Stop terminates the eviction loop.
func (l *Limiter) Stop() {
	close(l.done)
}

func (l *Limiter) evictLoop() {
	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()
	for {
		select {
		case <-l.done:
			return
		case <-ticker.C:
			cutoff := time.Now().Add(-l.maxIdle)
			l.mu.Lock()
			for key, e := range l.entries {
				if e.lastSeen.Before(cutoff) {
					delete(l.entries, key)
				}
			}
			l.mu.Unlock()
		}
	}
}
