package redis

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iho/goasset/internal/domain"
)

func TestStreamPublisherAppendsEvent(t *testing.T) {
	client, _ := newTestRedisClient(t)

	ctx := context.Background()
	publisher := NewStreamPublisher(client, "goasset:events")

	event := &domain.OutboxEvent{
		ID:            "01HQ",
		AggregateID:   "biz-1:2024-01-31",
		AggregateType: domain.AggregateTypeDepreciationPeriod,
		EventType:     domain.EventTypeDepreciationPosted,
		Payload:       map[string]any{"posted": 2, "total_amount": "433.33"},
		CreatedAt:     time.Date(2024, 2, 1, 9, 0, 0, 0, time.UTC),
	}

	require.NoError(t, publisher.Publish(ctx, event))

	messages, err := client.XRange(ctx, "goasset:events", "-", "+").Result()
	require.NoError(t, err)
	require.Len(t, messages, 1)

	values := messages[0].Values
	assert.Equal(t, "01HQ", values["event_id"])
	assert.Equal(t, domain.EventTypeDepreciationPosted, values["event_type"])

	var payload map[string]any
	require.NoError(t, json.Unmarshal([]byte(values["payload"].(string)), &payload))
	assert.Equal(t, "433.33", payload["total_amount"])
}
