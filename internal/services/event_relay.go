package services

import (
	"context"
	"fmt"
	"strconv"

	"auctionhouse/internal/domain"
	"auctionhouse/pkg/logger"
)

// EventRelay consumes state-machine events and fans the rendered
// notification text out to every registered observer.
type EventRelay struct {
	registry domain.ObserverRegistry
	log      logger.Logger
}

func NewEventRelay(registry domain.ObserverRegistry, log logger.Logger) *EventRelay {
	return &EventRelay{
		registry: registry,
		log:      log,
	}
}

func (r *EventRelay) Start(ctx context.Context, subscriber domain.EventSubscriber) error {
	r.log.Info("Starting event relay")
	return subscriber.SubscribeToEvents(ctx, r.handleEvent)
}

func (r *EventRelay) handleEvent(event *domain.Event) error {
	msg, err := FormatEventMessage(event)
	if err != nil {
		return err
	}

	r.registry.Broadcast(msg)
	return nil
}

// FormatEventMessage renders the human-readable notification line for an
// event. The texts are part of the observer contract and must not change.
func FormatEventMessage(event *domain.Event) (*domain.BroadcastMessage, error) {
	switch event.Type {
	case domain.AuctionCreatedEvent:
		return &domain.BroadcastMessage{
			Message: fmt.Sprintf("New Auction is created for Item: %s", event.ItemName),
		}, nil
	case domain.BidPlacedEvent:
		return &domain.BroadcastMessage{
			Message: fmt.Sprintf("New BID is created for AuctionID: %s and BidderAmount: %s",
				event.AuctionID, formatAmount(event.Amount)),
		}, nil
	case domain.AuctionConcludedEvent:
		return &domain.BroadcastMessage{
			Message: fmt.Sprintf("Auction AuctionID: %s is won by Winner: %s",
				event.AuctionID, event.BidderID),
		}, nil
	default:
		return nil, fmt.Errorf("unknown event type %q", event.Type)
	}
}

// formatAmount renders amounts without a forced decimal point, so 200
// stays "200" and 15.5 stays "15.5".
func formatAmount(amount float64) string {
	return strconv.FormatFloat(amount, 'f', -1, 64)
}
