package ratelimit

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"sporemap/internal/ratelimit/metrics"
)

const (
	// DefaultLimit is the maximum number of accepted submissions per window.
	DefaultLimit = 5
	// DefaultWindow is the trailing duration the limit applies to.
	DefaultWindow = time.Hour
)

// Result reports the outcome of a rate limit check.
type Result struct {
	Allowed   bool
	Remaining int
	// RetryAfter is how long until the oldest recorded submission ages out
	// of the window. Zero when allowed.
	RetryAfter time.Duration
}

// Limiter applies the sliding-window policy on top of a WindowStore.
type Limiter struct {
	store   WindowStore
	limit   int
	window  time.Duration
	now     func() time.Time
	logger  *slog.Logger
	metrics *metrics.Metrics
}

type Option func(*Limiter)

func WithLimit(limit int) Option {
	return func(l *Limiter) {
		l.limit = limit
	}
}

func WithWindow(window time.Duration) Option {
	return func(l *Limiter) {
		l.window = window
	}
}

// WithClock overrides the time source. Tests use it to slide the window
// without sleeping.
func WithClock(now func() time.Time) Option {
	return func(l *Limiter) {
		l.now = now
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(l *Limiter) {
		l.logger = logger
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(l *Limiter) {
		l.metrics = m
	}
}

// New constructs a limiter. The window store is required: rate limiting is
// mandatory, a missing store is a configuration error rather than a bypass.
func New(store WindowStore, opts ...Option) (*Limiter, error) {
	if store == nil {
		return nil, errors.New("window store is required")
	}

	l := &Limiter{
		store:  store,
		limit:  DefaultLimit,
		window: DefaultWindow,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l, nil
}

// Check applies the policy for one submission attempt. An allowed attempt is
// recorded in the store with a fresh TTL; a denied attempt writes nothing, so
// being over the limit never extends the penalty. The read-modify-write is
// deliberately untransactional: concurrent checks for one identity may both
// pass, which the policy tolerates.
func (l *Limiter) Check(ctx context.Context, identity string) (*Result, error) {
	now := l.now()
	cutoff := now.Add(-l.window).UnixMilli()

	window, err := l.store.Get(ctx, identity)
	if err != nil {
		return nil, fmt.Errorf("fetch rate limit window: %w", err)
	}

	kept := window[:0]
	for _, ts := range window {
		if ts > cutoff {
			kept = append(kept, ts)
		}
	}

	if len(kept) >= l.limit {
		retryAfter := time.UnixMilli(kept[0]).Add(l.window).Sub(now)
		if l.logger != nil {
			l.logger.Info("submission rate limited",
				"identity", identity,
				"window_count", len(kept),
				"retry_after", retryAfter,
			)
		}
		l.metrics.IncrementDenied()
		return &Result{Allowed: false, Remaining: 0, RetryAfter: retryAfter}, nil
	}

	kept = append(kept, now.UnixMilli())
	if err := l.store.Put(ctx, identity, kept, l.window); err != nil {
		return nil, fmt.Errorf("store rate limit window: %w", err)
	}

	l.metrics.IncrementAllowed()
	return &Result{Allowed: true, Remaining: l.limit - len(kept)}, nil
}
