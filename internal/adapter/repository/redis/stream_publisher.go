package redis

import (
	"context"
	"encoding/json"

	"github.com/redis/go-redis/v9"

	"github.com/iho/goasset/internal/domain"
)

// StreamPublisher appends outbox events to a Redis stream read by the
// accounting ledger.
type StreamPublisher struct {
	client redis.UniversalClient
	stream string
	maxLen int64
}

// NewStreamPublisher creates a new StreamPublisher.
func NewStreamPublisher(client redis.UniversalClient, stream string) *StreamPublisher {
	return &StreamPublisher{client: client, stream: stream, maxLen: 100000}
}

// Publish adds the event to the stream. The event ID is carried as a field
// so consumers can deduplicate redeliveries.
func (p *StreamPublisher) Publish(ctx context.Context, event *domain.OutboxEvent) error {
	payload, err := json.Marshal(event.Payload)
	if err != nil {
		return err
	}

	return p.client.XAdd(ctx, &redis.XAddArgs{
		Stream: p.stream,
		MaxLen: p.maxLen,
		Approx: true,
		Values: map[string]any{
			"event_id":       event.ID,
			"event_type":     event.EventType,
			"aggregate_type": event.AggregateType,
			"aggregate_id":   event.AggregateID,
			"payload":        string(payload),
			"created_at":     event.CreatedAt.UTC().Format("2006-01-02T15:04:05.000Z07:00"),
		},
	}).Err()
}
