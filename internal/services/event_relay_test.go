package services

import (
	"context"
	"sync"
	"testing"
	"time"

	"auctionhouse/internal/domain"
	"auctionhouse/pkg/logger"

	"github.com/stretchr/testify/require"
)

type captureRegistry struct {
	mu       sync.Mutex
	messages []string
}

func (r *captureRegistry) Register(conn domain.ObserverConn) string { return "" }
func (r *captureRegistry) Unregister(id string)                     {}

func (r *captureRegistry) Broadcast(msg *domain.BroadcastMessage) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.messages = append(r.messages, msg.Message)
}

func (r *captureRegistry) all() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.messages...)
}

func TestFormatEventMessage(t *testing.T) {
	tests := []struct {
		name    string
		event   *domain.Event
		want    string
		wantErr bool
	}{
		{
			name: "auction_created",
			event: &domain.Event{
				Type:     domain.AuctionCreatedEvent,
				ItemName: "vintage radio",
			},
			want: "New Auction is created for Item: vintage radio",
		},
		{
			name: "bid_placed_whole_amount",
			event: &domain.Event{
				Type:      domain.BidPlacedEvent,
				AuctionID: "a1",
				Amount:    200,
			},
			want: "New BID is created for AuctionID: a1 and BidderAmount: 200",
		},
		{
			name: "bid_placed_fractional_amount",
			event: &domain.Event{
				Type:      domain.BidPlacedEvent,
				AuctionID: "a1",
				Amount:    15.5,
			},
			want: "New BID is created for AuctionID: a1 and BidderAmount: 15.5",
		},
		{
			name: "auction_concluded",
			event: &domain.Event{
				Type:      domain.AuctionConcludedEvent,
				AuctionID: "a1",
				BidderID:  "alice",
			},
			want: "Auction AuctionID: a1 is won by Winner: alice",
		},
		{
			name:    "unknown_type",
			event:   &domain.Event{Type: "mystery"},
			wantErr: true,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			msg, err := FormatEventMessage(tc.event)
			if tc.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tc.want, msg.Message)
		})
	}
}

func TestEventRelay_DeliversThroughLocalBus(t *testing.T) {
	registry := &captureRegistry{}
	relay := NewEventRelay(registry, logger.NewNop())
	bus := NewLocalEventBus(8, logger.NewNop())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go relay.Start(ctx, bus)

	require.NoError(t, bus.PublishEvent(ctx, &domain.Event{
		Type:      domain.AuctionCreatedEvent,
		AuctionID: "a1",
		ItemName:  "clock",
		Timestamp: time.Now(),
	}))

	require.Eventually(t, func() bool {
		msgs := registry.all()
		return len(msgs) == 1 && msgs[0] == "New Auction is created for Item: clock"
	}, time.Second, 10*time.Millisecond)
}

func TestLocalEventBus_PublishNeverBlocks(t *testing.T) {
	bus := NewLocalEventBus(1, logger.NewNop())
	ctx := context.Background()

	// No subscriber is draining; the second publish overflows the buffer
	// and must drop rather than block.
	done := make(chan struct{})
	go func() {
		defer close(done)
		for i := 0; i < 10; i++ {
			require.NoError(t, bus.PublishEvent(ctx, &domain.Event{Type: domain.BidPlacedEvent}))
		}
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("publish blocked on a full buffer")
	}
}
