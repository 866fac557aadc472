// Package audit captures submission-related events for the administrative and
// abuse tooling that consumes them outside this service. Events are emitted
// synchronously before the HTTP response; a failed emit is logged by the
// caller and never fails the request.
package audit

import (
	"context"
	"time"
)

// Action identifies what happened.
type Action string

const (
	ActionSporeCreated      Action = "spore_created"
	ActionRateLimitExceeded Action = "rate_limit_exceeded"
)

// Event is emitted from domain logic. Keep it transport-agnostic so sinks can
// fan out (log, Kafka).
type Event struct {
	Timestamp time.Time `json:"timestamp"`
	Action    Action    `json:"action"`
	Identity  string    `json:"identity"`
	ClientIP  string    `json:"client_ip,omitempty"`
	RequestID string    `json:"request_id,omitempty"`
	SporeID   int64     `json:"spore_id,omitempty"`
}

// Publisher delivers audit events to a sink.
type Publisher interface {
	Emit(ctx context.Context, event Event) error
}
