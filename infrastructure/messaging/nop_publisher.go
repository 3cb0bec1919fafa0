// Package messaging holds event publisher implementations that do not need
// an external broker.
package messaging

import (
	"context"

	"go.uber.org/zap"

	"universe-backend/domain/events"
)

// NopPublisher logs events instead of delivering them. Used for local
// development and tests.
type NopPublisher struct {
	logger *zap.Logger
}

// NewNopPublisher creates a publisher that drops all events
func NewNopPublisher(logger *zap.Logger) *NopPublisher {
	return &NopPublisher{logger: logger}
}

// Publish logs the event and discards it
func (p *NopPublisher) Publish(ctx context.Context, event events.DomainEvent) error {
	p.logger.Debug("event dropped",
		zap.String("eventType", event.GetEventType()),
		zap.String("aggregateID", event.GetAggregateID()),
	)
	return nil
}

// PublishBatch logs and discards all events
func (p *NopPublisher) PublishBatch(ctx context.Context, domainEvents []events.DomainEvent) error {
	for _, event := range domainEvents {
		if err := p.Publish(ctx, event); err != nil {
			return err
		}
	}
	return nil
}
