package validator

import (
	"adslot-auction/internal/auctionerrors"
	model "adslot-auction/internal/models"
	"fmt"
	"math"
	"time"
)

// ValidateBid runs the business-rule acceptance checks for a proposed bid
// against a snapshot of auction state. It is pure: it never mutates the
// auction and never touches storage. Checks short-circuit on first failure,
// in this order: auction open, amount well-formed, increment satisfied.
// Fraud screening is the engine's job and happens after these checks pass.
func ValidateBid(a model.Auction, userID string, amount float64, now time.Time) error {
	if a.Status != model.StatusActive {
		return fmt.Errorf("auction %s has status %s: %w", a.AuctionID, a.Status, auctionerrors.ErrAuctionNotOpen)
	}
	if !now.Before(a.ExpirationTime) {
		return fmt.Errorf("auction %s expired at %s: %w", a.AuctionID, a.ExpirationTime.Format(time.RFC3339), auctionerrors.ErrAuctionNotOpen)
	}

	if userID == "" {
		return fmt.Errorf("missing bidder id: %w", auctionerrors.ErrInvalidBid)
	}
	if math.IsNaN(amount) || math.IsInf(amount, 0) || amount <= 0 {
		return fmt.Errorf("non-positive or non-numeric bid amount: %w", auctionerrors.ErrInvalidBid)
	}

	if threshold := a.CurrentBid + a.MinimumIncrement; amount < threshold {
		return fmt.Errorf("bid %.2f is below required %.2f (current %.2f + increment %.2f): %w",
			amount, threshold, a.CurrentBid, a.MinimumIncrement, auctionerrors.ErrBidTooLow)
	}

	return nil
}

// ValidateAuctionSpec checks the business-rule invariants of a creation
// request before the engine builds the auction record. Structural checks are
// repeated at the store boundary; this catches them early with the same
// typed error.
func ValidateAuctionSpec(sellerID string, startingBid, minimumIncrement, reservePrice float64, startTime, expirationTime time.Time) error {
	if sellerID == "" {
		return fmt.Errorf("missing seller id: %w", auctionerrors.ErrInvalidAuction)
	}
	if startingBid < 0 || math.IsNaN(startingBid) {
		return fmt.Errorf("starting bid must be non-negative: %w", auctionerrors.ErrInvalidAuction)
	}
	if minimumIncrement <= 0 || math.IsNaN(minimumIncrement) {
		return fmt.Errorf("minimum increment must be positive: %w", auctionerrors.ErrInvalidAuction)
	}
	if reservePrice < 0 || math.IsNaN(reservePrice) {
		return fmt.Errorf("reserve price must be non-negative: %w", auctionerrors.ErrInvalidAuction)
	}
	if !startTime.Before(expirationTime) {
		return fmt.Errorf("start time %s is not before expiration %s: %w",
			startTime.Format(time.RFC3339), expirationTime.Format(time.RFC3339), auctionerrors.ErrInvalidAuction)
	}
	return nil
}
