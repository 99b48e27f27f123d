// Package ratelimit implements a fixed-window request counter keyed by an
// arbitrary string (e.g. "auth:login:1.2.3.4").
//
// State is in-memory and process-local. In a multi-instance deployment each
// instance enforces its own independent limit; this is acceptable for abuse
// mitigation, not for exact quota enforcement. Bursts at window boundaries
// can admit up to 2x the limit in a short span.
package ratelimit

import (
	"sync"
	"time"
)

// Result is the outcome of a single Check call.
type Result struct {
	Allowed   bool
	Remaining int
	ResetAt   time.Time
}

type entry struct {
	count   int
	resetAt time.Time
}

// Limiter is a shared, concurrency-safe counter store. Each instance is
// fully independent; tests construct their own to stay isolated.
type Limiter struct {
	mu      sync.Mutex
	entries map[string]*entry
}

// New constructs an empty Limiter.
func New() *Limiter {
	return &Limiter{entries: make(map[string]*entry)}
}

// Check records one request against key and reports whether it is admitted.
//
// The first call for a key opens a window of the given length; calls within
// the window increment the counter until limit is reached, after which they
// are refused until ResetAt. Expired windows are reset lazily on the next
// call; there is no background sweeper. Check never fails.
func (l *Limiter) Check(now time.Time, key string, limit int, window time.Duration) Result {
	l.mu.Lock()
	defer l.mu.Unlock()

	e, ok := l.entries[key]
	if !ok || now.After(e.resetAt) {
		e = &entry{count: 1, resetAt: now.Add(window)}
		l.entries[key] = e
		return Result{Allowed: true, Remaining: limit - 1, ResetAt: e.resetAt}
	}

	if e.count >= limit {
		return Result{Allowed: false, Remaining: 0, ResetAt: e.resetAt}
	}

	e.count++
	return Result{Allowed: true, Remaining: limit - e.count, ResetAt: e.resetAt}
}
