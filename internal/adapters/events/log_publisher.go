// Package events holds EventPublisher implementations that need no broker.
package events

import (
	"context"
	"log/slog"

	portssvc "github.com/SscSPs/secure_banking_app/internal/core/ports/services"
)

var _ portssvc.EventPublisher = (*LogPublisher)(nil)

// LogPublisher writes events to the structured log. Used when no broker is configured.
type LogPublisher struct {
	logger *slog.Logger
}

func NewLogPublisher(logger *slog.Logger) *LogPublisher {
	if logger == nil {
		logger = slog.Default()
	}
	return &LogPublisher{logger: logger.With("component", "events")}
}

func (p *LogPublisher) Publish(ctx context.Context, topic string, key string, event any) error {
	p.logger.InfoContext(ctx, "Event published",
		slog.String("topic", topic),
		slog.String("key", key),
		slog.Any("event", event))
	return nil
}
