package audit

import (
	"context"
	"log/slog"
)

// LogPublisher writes audit events to the structured log. It is the default
// sink when no broker is configured.
type LogPublisher struct {
	logger *slog.Logger
}

// NewLogPublisher constructs a log-backed publisher.
func NewLogPublisher(logger *slog.Logger) *LogPublisher {
	if logger == nil {
		logger = slog.Default()
	}
	return &LogPublisher{logger: logger}
}

func (p *LogPublisher) Emit(_ context.Context, event Event) error {
	p.logger.Info("audit event",
		"log_type", "audit",
		"action", string(event.Action),
		"identity", event.Identity,
		"client_ip", event.ClientIP,
		"request_id", event.RequestID,
		"spore_id", event.SporeID,
	)
	return nil
}
