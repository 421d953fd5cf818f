package domain

import (
	"context"
)

// Store interface
type AuctionStore interface {
	// CreateAuction persists a new open auction. Returns ErrDuplicateAuction
	// when the id is already taken.
	CreateAuction(ctx context.Context, auction *Auction) error
	// GetAuction returns the auction record, including its starting price.
	// Returns ErrAuctionNotFound when no such auction exists.
	GetAuction(ctx context.Context, auctionID string) (*Auction, error)
	// InsertBid appends a bid row. The insert is atomic: it either fully
	// succeeds or leaves no partial row. Returns ErrAuctionNotFound when the
	// referenced auction does not exist.
	InsertBid(ctx context.Context, bid *Bid) error
	// TopBid returns the bid with the highest amount for the auction,
	// earliest inserted winning ties. Returns ErrNoBids when none exist.
	TopBid(ctx context.Context, auctionID string) (*Bid, error)
	// MarkConcluded transitions the auction status to concluded.
	MarkConcluded(ctx context.Context, auctionID string) error
}

// Event interfaces
type EventPublisher interface {
	PublishEvent(ctx context.Context, event *Event) error
}

type EventSubscriber interface {
	SubscribeToEvents(ctx context.Context, handler EventHandler) error
}

type EventHandler func(event *Event) error

// Observer interfaces. The transport owns each connection's lifetime; the
// registry holds only a handle for delivery.
type ObserverConn interface {
	Send(msg *BroadcastMessage) error
	Ping() error
	Close() error
}

type ObserverRegistry interface {
	Register(conn ObserverConn) string
	Unregister(id string)
	// Broadcast delivers msg to every registered observer. A failing
	// observer is pruned; delivery errors never propagate to the caller.
	Broadcast(msg *BroadcastMessage)
}
