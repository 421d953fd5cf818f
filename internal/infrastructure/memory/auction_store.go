package memory

import (
	"context"
	"fmt"
	"sync"

	"auctionhouse/internal/domain"
)

// AuctionStore is a concurrency-safe in-memory implementation of
// domain.AuctionStore. Each method is an atomic unit under the store mutex,
// matching the per-operation atomicity the durable engine provides.
type AuctionStore struct {
	mu       sync.RWMutex
	auctions map[string]*domain.Auction
	bids     map[string][]*domain.Bid // auctionID -> bids in arrival order
}

func NewAuctionStore() *AuctionStore {
	return &AuctionStore{
		auctions: make(map[string]*domain.Auction),
		bids:     make(map[string][]*domain.Bid),
	}
}

func (s *AuctionStore) CreateAuction(ctx context.Context, auction *domain.Auction) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.auctions[auction.ID]; exists {
		return fmt.Errorf("create auction %s: %w", auction.ID, domain.ErrDuplicateAuction)
	}

	stored := *auction
	s.auctions[auction.ID] = &stored
	return nil
}

func (s *AuctionStore) GetAuction(ctx context.Context, auctionID string) (*domain.Auction, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	auction, ok := s.auctions[auctionID]
	if !ok {
		return nil, fmt.Errorf("get auction %s: %w", auctionID, domain.ErrAuctionNotFound)
	}

	copied := *auction
	return &copied, nil
}

func (s *AuctionStore) InsertBid(ctx context.Context, bid *domain.Bid) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.auctions[bid.AuctionID]; !ok {
		return fmt.Errorf("insert bid for auction %s: %w", bid.AuctionID, domain.ErrAuctionNotFound)
	}

	stored := *bid
	s.bids[bid.AuctionID] = append(s.bids[bid.AuctionID], &stored)
	return nil
}

func (s *AuctionStore) TopBid(ctx context.Context, auctionID string) (*domain.Bid, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	bids := s.bids[auctionID]
	if len(bids) == 0 {
		return nil, fmt.Errorf("top bid for auction %s: %w", auctionID, domain.ErrNoBids)
	}

	// Strictly-greater comparison keeps the earliest bid among equal
	// amounts, since bids are stored in arrival order.
	top := bids[0]
	for _, b := range bids[1:] {
		if b.Amount > top.Amount {
			top = b
		}
	}

	copied := *top
	return &copied, nil
}

func (s *AuctionStore) MarkConcluded(ctx context.Context, auctionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	auction, ok := s.auctions[auctionID]
	if !ok {
		return fmt.Errorf("mark concluded %s: %w", auctionID, domain.ErrAuctionNotFound)
	}

	auction.Status = domain.AuctionConcluded
	return nil
}
