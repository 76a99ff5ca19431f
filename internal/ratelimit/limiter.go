// Package ratelimit implements a fixed-window request limiter with a
// redis-backed store for multi-instance deployments and an in-process
// fallback that takes over whenever redis is unreachable.
package ratelimit

import (
	"context"
	"log/slog"
	"time"
)

// Result reports the outcome of one admission check.
type Result struct {
	Allowed   bool
	Limit     int
	Remaining int
	ResetAt   time.Time
}

// Store tracks one counter window per identifier. Incr opens a window on
// first sight, increments within an open window, and re-opens an expired
// one; it returns the count after the increment together with the window
// start.
type Store interface {
	Incr(ctx context.Context, key string, window time.Duration, now time.Time) (count int, windowStart time.Time, err error)
}

// Limiter admits up to maxRequests per window for each identifier.
type Limiter struct {
	name     string
	max      int
	window   time.Duration
	primary  Store
	fallback *MemoryStore
	now      func() time.Time
	log      *slog.Logger
}

// Option configures a Limiter.
type Option func(*Limiter)

// WithClock injects a deterministic time source for tests.
func WithClock(now func() time.Time) Option {
	return func(l *Limiter) { l.now = now }
}

// WithPrimary sets a shared (redis) store tried before the in-memory one.
func WithPrimary(s Store) Option {
	return func(l *Limiter) { l.primary = s }
}

// New builds a limiter that always has a working in-memory store; a shared
// primary is optional.
func New(name string, maxRequests int, window time.Duration, log *slog.Logger, opts ...Option) *Limiter {
	l := &Limiter{
		name:     name,
		max:      maxRequests,
		window:   window,
		fallback: NewMemoryStore(),
		now:      time.Now,
		log:      log,
	}
	for _, o := range opts {
		o(l)
	}
	return l
}

// Check admits or rejects one request for identifier. A failing primary
// store degrades to the in-memory fallback for that check instead of
// surfacing an error; availability wins over globally exact counts.
func (l *Limiter) Check(ctx context.Context, identifier string) Result {
	now := l.now()
	key := l.name + ":" + identifier

	var (
		count int
		start time.Time
		err   error
	)
	if l.primary != nil {
		count, start, err = l.primary.Incr(ctx, key, l.window, now)
		if err != nil {
			l.log.Warn("rate limit store unavailable, using in-memory fallback",
				"limiter", l.name, "error", err)
		}
	}
	if l.primary == nil || err != nil {
		count, start, _ = l.fallback.Incr(ctx, key, l.window, now)
	}

	remaining := l.max - count
	if remaining < 0 {
		remaining = 0
	}
	return Result{
		Allowed:   count <= l.max,
		Limit:     l.max,
		Remaining: remaining,
		ResetAt:   start.Add(l.window),
	}
}

// Prune drops fully expired identifiers from the in-memory fallback.
// Scheduled periodically from main; redis keys expire on their own.
func (l *Limiter) Prune() {
	l.fallback.Prune(l.now())
}
