package eventbus

import (
	"context"
	"log/slog"
)

// Envelope is one event on its way to the broker.
type Envelope struct {
	RoutingKey    string
	MessageID     string
	CorrelationID string
	Payload       []byte
}

// Publisher defines the interface for publishing events to a message broker.
type Publisher interface {
	// Publish sends a message to the event bus.
	Publish(ctx context.Context, env Envelope) error

	// Close closes the publisher connection.
	Close() error
}

// LogPublisher only logs what it would publish. The worker falls back to it when
// no broker is configured, so the outbox still drains in local mode.
type LogPublisher struct {
	logger *slog.Logger
}

// NewLogPublisher creates a publisher that does nothing but log.
func NewLogPublisher(logger *slog.Logger) *LogPublisher {
	if logger == nil {
		logger = slog.Default()
	}
	return &LogPublisher{logger: logger}
}

// Publish logs the message but doesn't actually publish.
func (p *LogPublisher) Publish(ctx context.Context, env Envelope) error {
	p.logger.DebugContext(ctx, "event published locally",
		"routing_key", env.RoutingKey,
		"message_id", env.MessageID,
		"size", len(env.Payload),
	)
	return nil
}

// Close is a no-op.
func (p *LogPublisher) Close() error {
	return nil
}
