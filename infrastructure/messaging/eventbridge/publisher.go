// Package eventbridge publishes domain events to an EventBridge bus so
// downstream consumers (feeds, notifications, analytics) can react without
// coupling to the API service.
package eventbridge

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/eventbridge"
	"github.com/aws/aws-sdk-go-v2/service/eventbridge/types"
	"go.uber.org/zap"

	"universe-backend/domain/events"
)

const eventSource = "universe.backend"

// maxBatchSize is the PutEvents entry limit
const maxBatchSize = 10

// Publisher implements ports.EventPublisher on top of EventBridge
type Publisher struct {
	client  *eventbridge.Client
	busName string
	logger  *zap.Logger
}

// NewPublisher creates a new EventBridge publisher
func NewPublisher(client *eventbridge.Client, busName string, logger *zap.Logger) *Publisher {
	return &Publisher{
		client:  client,
		busName: busName,
		logger:  logger,
	}
}

// Publish sends a single event
func (p *Publisher) Publish(ctx context.Context, event events.DomainEvent) error {
	return p.PublishBatch(ctx, []events.DomainEvent{event})
}

// PublishBatch sends multiple events, chunked to the PutEvents limit
func (p *Publisher) PublishBatch(ctx context.Context, domainEvents []events.DomainEvent) error {
	for start := 0; start < len(domainEvents); start += maxBatchSize {
		end := start + maxBatchSize
		if end > len(domainEvents) {
			end = len(domainEvents)
		}

		entries := make([]types.PutEventsRequestEntry, 0, end-start)
		for _, event := range domainEvents[start:end] {
			detail, err := json.Marshal(event)
			if err != nil {
				return fmt.Errorf("failed to marshal event %s: %w", event.GetEventType(), err)
			}
			entries = append(entries, types.PutEventsRequestEntry{
				EventBusName: aws.String(p.busName),
				Source:       aws.String(eventSource),
				DetailType:   aws.String(event.GetEventType()),
				Detail:       aws.String(string(detail)),
				Time:         aws.Time(event.GetTimestamp()),
			})
		}

		output, err := p.client.PutEvents(ctx, &eventbridge.PutEventsInput{Entries: entries})
		if err != nil {
			return fmt.Errorf("failed to publish events: %w", err)
		}

		if output.FailedEntryCount > 0 {
			for _, entry := range output.Entries {
				if entry.ErrorCode != nil {
					p.logger.Error("event entry rejected",
						zap.String("errorCode", aws.ToString(entry.ErrorCode)),
						zap.String("errorMessage", aws.ToString(entry.ErrorMessage)),
					)
				}
			}
			return fmt.Errorf("%d event entries rejected", output.FailedEntryCount)
		}
	}

	return nil
}
