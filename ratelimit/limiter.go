// Package ratelimit provides per-client request throttling for the API
// surface. Limits are token buckets keyed by client identity (session
// identity id when available, remote IP otherwise).
package ratelimit

import (
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// Limiter decides whether a request identified by key may proceed.
// Implementations must be safe for concurrent use.
type Limiter interface {
	Allow(key string) bool
}

// entry pairs a token bucket with its last access time so idle buckets
// can be reclaimed
type entry struct {
	limiter    *rate.Limiter
	lastAccess time.Time
}

// KeyedLimiter is an in-process Limiter holding one token bucket per key.
// Buckets untouched for longer than idleTTL are dropped by a background
// sweep; a dropped key simply starts over with a full bucket.
type KeyedLimiter struct {
	mu      sync.Mutex
	entries map[string]*entry

	limit   rate.Limit
	burst   int
	idleTTL time.Duration

	stopOnce sync.Once
	stop     chan struct{}
	logger   *zap.Logger
}

// NewKeyedLimiter creates a limiter allowing requestsPerMinute sustained
// requests with the given burst per key, and starts the idle sweep.
func NewKeyedLimiter(requestsPerMinute, burst int, idleTTL time.Duration, logger *zap.Logger) *KeyedLimiter {
	if idleTTL <= 0 {
		idleTTL = 10 * time.Minute
	}
	l := &KeyedLimiter{
		entries: make(map[string]*entry),
		limit:   rate.Limit(float64(requestsPerMinute) / 60.0),
		burst:   burst,
		idleTTL: idleTTL,
		stop:    make(chan struct{}),
		logger:  logger,
	}
	go l.sweep()
	return l
}

// Allow reports whether the request for key fits in its bucket, consuming
// a token when it does.
func (l *KeyedLimiter) Allow(key string) bool {
	l.mu.Lock()
	e, ok := l.entries[key]
	if !ok {
		e = &entry{limiter: rate.NewLimiter(l.limit, l.burst)}
		l.entries[key] = e
	}
	e.lastAccess = time.Now()
	l.mu.Unlock()

	return e.limiter.Allow()
}

// Len returns the number of tracked keys
func (l *KeyedLimiter) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.entries)
}

// Close stops the idle sweep goroutine
func (l *KeyedLimiter) Close() {
	l.stopOnce.Do(func() { close(l.stop) })
}

func (l *KeyedLimiter) sweep() {
	interval := l.idleTTL / 2
	if interval < time.Minute {
		interval = time.Minute
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-l.stop:
			return
		case <-ticker.C:
			l.reap(time.Now().Add(-l.idleTTL))
		}
	}
}

func (l *KeyedLimiter) reap(cutoff time.Time) {
	l.mu.Lock()
	defer l.mu.Unlock()

	reaped := 0
	for key, e := range l.entries {
		if e.lastAccess.Before(cutoff) {
			delete(l.entries, key)
			reaped++
		}
	}
	if reaped > 0 && l.logger != nil {
		l.logger.Debug("reaped idle rate limit buckets",
			zap.Int("reaped", reaped),
			zap.Int("remaining", len(l.entries)))
	}
}
