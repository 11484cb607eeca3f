package eventbridge

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/eventbridge"
	"github.com/aws/aws-sdk-go-v2/service/eventbridge/types"
	"go.uber.org/zap"

	"insightmap-backend/application/ports"
	"insightmap-backend/domain/events"
)

const (
	eventSource = "insightmap.backend"

	// PutEvents accepts at most 10 entries per call
	maxBatchSize = 10
)

// Publisher sends domain events to an EventBridge bus. Downstream
// consumers (the WebSocket fan-out Lambda, audit sinks) subscribe by
// detail-type.
type Publisher struct {
	client  *eventbridge.Client
	busName string
	logger  *zap.Logger
}

// NewPublisher creates a new Publisher
func NewPublisher(client *eventbridge.Client, busName string, logger *zap.Logger) ports.EventPublisher {
	return &Publisher{
		client:  client,
		busName: busName,
		logger:  logger,
	}
}

// Publish sends a single domain event
func (p *Publisher) Publish(ctx context.Context, event events.DomainEvent) error {
	return p.PublishBatch(ctx, []events.DomainEvent{event})
}

// PublishBatch sends domain events in PutEvents-sized chunks
func (p *Publisher) PublishBatch(ctx context.Context, domainEvents []events.DomainEvent) error {
	if len(domainEvents) == 0 {
		return nil
	}

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

		result, err := p.client.PutEvents(ctx, &eventbridge.PutEventsInput{
			Entries: entries,
		})
		if err != nil {
			return fmt.Errorf("failed to put events: %w", err)
		}
		if result.FailedEntryCount > 0 {
			for _, entry := range result.Entries {
				if entry.ErrorCode != nil {
					p.logger.Error("event entry rejected",
						zap.String("errorCode", aws.ToString(entry.ErrorCode)),
						zap.String("errorMessage", aws.ToString(entry.ErrorMessage)))
				}
			}
			return fmt.Errorf("eventbridge rejected %d of %d events", result.FailedEntryCount, len(entries))
		}
	}

	p.logger.Debug("published domain events", zap.Int("count", len(domainEvents)))
	return nil
}
