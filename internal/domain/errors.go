package domain

import "errors"

// Store-level errors
var (
	ErrAuctionNotFound  = errors.New("auction not found")
	ErrDuplicateAuction = errors.New("auction id already exists")
	ErrNoBids           = errors.New("no bids placed for auction")
)

// Input validation errors
var (
	ErrInvalidAuction = errors.New("invalid auction")
	ErrInvalidBid     = errors.New("invalid bid")
)
