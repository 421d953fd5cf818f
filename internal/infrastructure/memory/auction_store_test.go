package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"auctionhouse/internal/domain"

	"github.com/stretchr/testify/require"
)

func newOpenAuction(id string, price float64) *domain.Auction {
	return &domain.Auction{
		ID:            id,
		ItemName:      "vintage radio",
		StartingPrice: price,
		Status:        domain.AuctionOpen,
		CreatedAt:     time.Now().UTC(),
	}
}

func newBid(auctionID, bidderID string, amount float64) *domain.Bid {
	return &domain.Bid{
		ID:        bidderID + "-bid",
		AuctionID: auctionID,
		BidderID:  bidderID,
		Amount:    amount,
		CreatedAt: time.Now().UTC(),
	}
}

func TestAuctionStore_CreateAuction(t *testing.T) {
	ctx := context.Background()
	store := NewAuctionStore()

	require.NoError(t, store.CreateAuction(ctx, newOpenAuction("a1", 10)))

	err := store.CreateAuction(ctx, newOpenAuction("a1", 99))
	require.True(t, errors.Is(err, domain.ErrDuplicateAuction))

	// The first auction's data is unchanged after the rejected duplicate
	auction, err := store.GetAuction(ctx, "a1")
	require.NoError(t, err)
	require.Equal(t, 10.0, auction.StartingPrice)
	require.Equal(t, domain.AuctionOpen, auction.Status)
}

func TestAuctionStore_GetAuction_NotFound(t *testing.T) {
	store := NewAuctionStore()

	_, err := store.GetAuction(context.Background(), "missing")
	require.True(t, errors.Is(err, domain.ErrAuctionNotFound))
}

func TestAuctionStore_GetAuction_RepeatedReadsStable(t *testing.T) {
	ctx := context.Background()
	store := NewAuctionStore()
	require.NoError(t, store.CreateAuction(ctx, newOpenAuction("a1", 42.5)))

	for i := 0; i < 3; i++ {
		auction, err := store.GetAuction(ctx, "a1")
		require.NoError(t, err)
		require.Equal(t, 42.5, auction.StartingPrice)
	}
}

func TestAuctionStore_InsertBid_UnknownAuction(t *testing.T) {
	store := NewAuctionStore()

	err := store.InsertBid(context.Background(), newBid("missing", "bidder", 20))
	require.True(t, errors.Is(err, domain.ErrAuctionNotFound))
}

func TestAuctionStore_TopBid(t *testing.T) {
	tests := []struct {
		name       string
		bids       []*domain.Bid
		wantBidder string
		wantAmount float64
		wantErr    error
	}{
		{
			name:    "no_bids",
			bids:    nil,
			wantErr: domain.ErrNoBids,
		},
		{
			name: "single_bid",
			bids: []*domain.Bid{
				newBid("a1", "alice", 12),
			},
			wantBidder: "alice",
			wantAmount: 12,
		},
		{
			name: "highest_amount_wins",
			bids: []*domain.Bid{
				newBid("a1", "alice", 10),
				newBid("a1", "bob", 15),
				newBid("a1", "carol", 12),
			},
			wantBidder: "bob",
			wantAmount: 15,
		},
		{
			name: "earliest_insert_wins_tie",
			bids: []*domain.Bid{
				newBid("a1", "alice", 10),
				newBid("a1", "bob", 15),
				newBid("a1", "carol", 15),
			},
			wantBidder: "bob",
			wantAmount: 15,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			ctx := context.Background()
			store := NewAuctionStore()
			require.NoError(t, store.CreateAuction(ctx, newOpenAuction("a1", 5)))

			for _, bid := range tc.bids {
				require.NoError(t, store.InsertBid(ctx, bid))
			}

			top, err := store.TopBid(ctx, "a1")
			if tc.wantErr != nil {
				require.True(t, errors.Is(err, tc.wantErr))
				return
			}
			require.NoError(t, err)
			require.Equal(t, tc.wantBidder, top.BidderID)
			require.Equal(t, tc.wantAmount, top.Amount)
		})
	}
}

func TestAuctionStore_MarkConcluded(t *testing.T) {
	ctx := context.Background()
	store := NewAuctionStore()
	require.NoError(t, store.CreateAuction(ctx, newOpenAuction("a1", 5)))

	require.NoError(t, store.MarkConcluded(ctx, "a1"))

	auction, err := store.GetAuction(ctx, "a1")
	require.NoError(t, err)
	require.Equal(t, domain.AuctionConcluded, auction.Status)

	err = store.MarkConcluded(ctx, "missing")
	require.True(t, errors.Is(err, domain.ErrAuctionNotFound))
}

func TestAuctionStore_ConcurrentBids(t *testing.T) {
	ctx := context.Background()
	store := NewAuctionStore()
	require.NoError(t, store.CreateAuction(ctx, newOpenAuction("a1", 5)))

	done := make(chan struct{})
	for i := 0; i < 10; i++ {
		go func(n int) {
			defer func() { done <- struct{}{} }()
			bid := newBid("a1", "bidder", float64(10+n))
			require.NoError(t, store.InsertBid(ctx, bid))
		}(i)
	}
	for i := 0; i < 10; i++ {
		<-done
	}

	top, err := store.TopBid(ctx, "a1")
	require.NoError(t, err)
	require.Equal(t, 19.0, top.Amount)
}
