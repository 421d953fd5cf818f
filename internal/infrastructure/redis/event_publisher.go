package redis

import (
	"context"
	"encoding/json"
	"fmt"

	"auctionhouse/internal/domain"

	"github.com/go-redis/redis/v8"
)

const eventsChannel = "auction_events"

// EventPublisher relays state-machine events over a Redis pub/sub channel
// so that observers connected to any instance receive them.
type EventPublisher struct {
	client *redis.Client
}

func NewEventPublisher(client *redis.Client) *EventPublisher {
	return &EventPublisher{client: client}
}

func (p *EventPublisher) PublishEvent(ctx context.Context, event *domain.Event) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}

	return p.client.Publish(ctx, eventsChannel, payload).Err()
}
