package auctionerrors

import "errors"

// Store-level errors
var (
	ErrAuctionNotFound = errors.New("auction not found")
	ErrConflict        = errors.New("conditional update conflict")
)

// business logic errors
var (
	ErrInvalidAuction     = errors.New("invalid auction")
	ErrInvalidBid         = errors.New("invalid bid")
	ErrBidTooLow          = errors.New("bid amount too low")
	ErrAuctionNotOpen     = errors.New("auction not open for bidding")
	ErrFraudSuspected     = errors.New("bid rejected on fraud suspicion")
	ErrContentionExceeded = errors.New("bid contention retries exceeded")
)

// dependency errors
var (
	ErrDependencyUnavailable = errors.New("external dependency unavailable")
)
