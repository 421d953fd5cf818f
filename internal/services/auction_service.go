package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"auctionhouse/internal/domain"
	"auctionhouse/pkg/logger"

	"github.com/google/uuid"
)

// AuctionService enforces the auction lifecycle over the store: auctions are
// created open, accumulate bids that clear the fixed starting price, and
// transition once to concluded. Events are handed to the publisher on every
// successful mutation and never block the operation itself.
type AuctionService struct {
	store    domain.AuctionStore
	eventPub domain.EventPublisher
	log      logger.Logger
}

func NewAuctionService(store domain.AuctionStore, eventPub domain.EventPublisher, log logger.Logger) *AuctionService {
	return &AuctionService{
		store:    store,
		eventPub: eventPub,
		log:      log,
	}
}

// Initiate creates a new open auction. It returns false with a nil error for
// rejected input (negative starting price, duplicate id) and false with a
// non-nil error when the store fails.
func (s *AuctionService) Initiate(ctx context.Context, auctionID, itemName string, startingPrice float64) (bool, error) {
	if startingPrice < 0 {
		s.log.Warn("Rejected auction with negative starting price",
			"auction_id", auctionID, "starting_price", startingPrice)
		return false, fmt.Errorf("initiate auction %s: %w", auctionID, domain.ErrInvalidAuction)
	}

	auction := &domain.Auction{
		ID:            auctionID,
		ItemName:      itemName,
		StartingPrice: startingPrice,
		Status:        domain.AuctionOpen,
		CreatedAt:     time.Now().UTC(),
	}

	if err := s.store.CreateAuction(ctx, auction); err != nil {
		if errors.Is(err, domain.ErrDuplicateAuction) {
			s.log.Warn("Rejected duplicate auction", "auction_id", auctionID)
			return false, err
		}
		s.log.Error("Failed to create auction", "auction_id", auctionID, "error", err)
		return false, err
	}

	s.publish(ctx, &domain.Event{
		Type:      domain.AuctionCreatedEvent,
		AuctionID: auctionID,
		ItemName:  itemName,
		Timestamp: time.Now().UTC(),
	})

	s.log.Info("Auction created", "auction_id", auctionID, "item_name", itemName,
		"starting_price", startingPrice)
	return true, nil
}

// PlaceBid records a bid when its amount strictly exceeds the auction's
// starting price. A bid at or below the floor is a normal outcome: accepted
// is false and the error is nil. Bids are validated against the fixed floor
// only, never the running top bid, so a lower bid than the current leader is
// still accepted as long as it clears the floor.
func (s *AuctionService) PlaceBid(ctx context.Context, auctionID, bidderID string, amount float64) (bool, error) {
	auction, err := s.store.GetAuction(ctx, auctionID)
	if err != nil {
		if errors.Is(err, domain.ErrAuctionNotFound) {
			s.log.Warn("Bid on unknown auction", "auction_id", auctionID, "bidder_id", bidderID)
			return false, err
		}
		s.log.Error("Failed to load auction for bid", "auction_id", auctionID, "error", err)
		return false, err
	}

	if amount <= auction.StartingPrice {
		s.log.Info("Bid rejected below floor", "auction_id", auctionID,
			"bidder_id", bidderID, "amount", amount, "starting_price", auction.StartingPrice)
		return false, nil
	}

	bid := &domain.Bid{
		ID:        uuid.NewString(),
		AuctionID: auctionID,
		BidderID:  bidderID,
		Amount:    amount,
		CreatedAt: time.Now().UTC(),
	}

	if err := s.store.InsertBid(ctx, bid); err != nil {
		s.log.Error("Failed to insert bid", "auction_id", auctionID, "error", err)
		return false, err
	}

	s.publish(ctx, &domain.Event{
		Type:      domain.BidPlacedEvent,
		AuctionID: auctionID,
		BidderID:  bidderID,
		Amount:    amount,
		Timestamp: time.Now().UTC(),
	})

	s.log.Info("Bid accepted", "auction_id", auctionID, "bidder_id", bidderID, "amount", amount)
	return true, nil
}

// Conclude determines the winner and closes the auction. An unknown auction
// or one with no accepted bids yields an empty result rather than an error.
// Concluding an already-concluded auction returns the same winner again.
func (s *AuctionService) Conclude(ctx context.Context, auctionID string) (*domain.AuctionResult, error) {
	top, err := s.store.TopBid(ctx, auctionID)
	if err != nil {
		if errors.Is(err, domain.ErrNoBids) || errors.Is(err, domain.ErrAuctionNotFound) {
			s.log.Info("Concluded auction without winner", "auction_id", auctionID)
			return &domain.AuctionResult{}, nil
		}
		s.log.Error("Failed to determine top bid", "auction_id", auctionID, "error", err)
		return &domain.AuctionResult{}, err
	}

	if err := s.store.MarkConcluded(ctx, auctionID); err != nil {
		s.log.Error("Failed to mark auction concluded", "auction_id", auctionID, "error", err)
		return &domain.AuctionResult{}, err
	}

	s.publish(ctx, &domain.Event{
		Type:      domain.AuctionConcludedEvent,
		AuctionID: auctionID,
		BidderID:  top.BidderID,
		Amount:    top.Amount,
		Timestamp: time.Now().UTC(),
	})

	s.log.Info("Auction concluded", "auction_id", auctionID,
		"winner_id", top.BidderID, "winning_bid", top.Amount)
	return &domain.AuctionResult{
		AuctionID:  auctionID,
		WinnerID:   top.BidderID,
		WinningBid: top.Amount,
	}, nil
}

// publish is fire-and-forget: a failing publisher is logged and the
// triggering operation still succeeds.
func (s *AuctionService) publish(ctx context.Context, event *domain.Event) {
	if err := s.eventPub.PublishEvent(ctx, event); err != nil {
		s.log.Error("Failed to publish event", "type", event.Type,
			"auction_id", event.AuctionID, "error", err)
	}
}
