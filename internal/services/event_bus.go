package services

import (
	"context"

	"auctionhouse/internal/domain"
	"auctionhouse/pkg/logger"
)

// LocalEventBus is the in-process event backend: a buffered channel between
// the state machine and the relay goroutine. Publishing never blocks; when
// the buffer is full the event is dropped with a log line, since broadcast
// delivery is best-effort by contract.
type LocalEventBus struct {
	events chan *domain.Event
	log    logger.Logger
}

func NewLocalEventBus(bufferSize int, log logger.Logger) *LocalEventBus {
	if bufferSize <= 0 {
		bufferSize = 256
	}
	return &LocalEventBus{
		events: make(chan *domain.Event, bufferSize),
		log:    log,
	}
}

func (b *LocalEventBus) PublishEvent(ctx context.Context, event *domain.Event) error {
	select {
	case b.events <- event:
	default:
		b.log.Warn("Event buffer full, dropping event",
			"type", event.Type, "auction_id", event.AuctionID)
	}
	return nil
}

func (b *LocalEventBus) SubscribeToEvents(ctx context.Context, handler domain.EventHandler) error {
	b.log.Info("Subscribed to local auction events")

	for {
		select {
		case event := <-b.events:
			if err := handler(event); err != nil {
				b.log.Error("Failed to handle event", "type", event.Type,
					"auction_id", event.AuctionID, "error", err)
			}

		case <-ctx.Done():
			b.log.Info("Local event bus stopped")
			return ctx.Err()
		}
	}
}
