// Package ratelimit enforces the submission policy: a sliding one-hour
// window with at most five accepted submissions per identity.
package ratelimit

import (
	"context"
	"time"
)

// WindowStore persists per-identity windows of accepted-submission
// timestamps (epoch milliseconds, ascending). Get returns an empty window
// for unknown identities. Put replaces the whole window and resets its TTL;
// writes are last-write-wins by design, so two in-flight checks for the same
// identity may briefly overshoot the limit.
type WindowStore interface {
	Get(ctx context.Context, identity string) ([]int64, error)
	Put(ctx context.Context, identity string, window []int64, ttl time.Duration) error
}
