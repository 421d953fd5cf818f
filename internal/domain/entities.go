package domain

import (
	"time"
)

type Auction struct {
	ID            string
	ItemName      string
	StartingPrice float64
	Status        AuctionStatus
	CreatedAt     time.Time
}

type AuctionStatus int

const (
	AuctionOpen AuctionStatus = iota
	AuctionConcluded
)

func (s AuctionStatus) String() string {
	switch s {
	case AuctionOpen:
		return "open"
	case AuctionConcluded:
		return "concluded"
	default:
		return "unknown"
	}
}

// Bid is immutable once stored. Bids accumulate in arrival order and are
// ranked by amount only when the auction concludes.
type Bid struct {
	ID        string
	AuctionID string
	BidderID  string
	Amount    float64
	CreatedAt time.Time
}

// AuctionResult carries the outcome of a concluded auction. All fields are
// zero when the auction had no accepted bids or does not exist.
type AuctionResult struct {
	AuctionID  string  `json:"auction_id"`
	WinnerID   string  `json:"winner_id"`
	WinningBid float64 `json:"winning_bid"`
}

type Event struct {
	Type      EventType `json:"type"`
	AuctionID string    `json:"auction_id"`
	ItemName  string    `json:"item_name,omitempty"`
	BidderID  string    `json:"bidder_id,omitempty"`
	Amount    float64   `json:"amount,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

type EventType string

const (
	AuctionCreatedEvent   EventType = "auction_created"
	BidPlacedEvent        EventType = "bid_placed"
	AuctionConcludedEvent EventType = "auction_concluded"
)

// BroadcastMessage is the frame delivered to subscribed observers.
type BroadcastMessage struct {
	Message string `json:"message"`
}
