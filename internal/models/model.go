package models

import "time"

// AuctionStatus is the lifecycle state of an auction.
type AuctionStatus string

const (
	StatusPending   AuctionStatus = "pending"
	StatusActive    AuctionStatus = "active"
	StatusCompleted AuctionStatus = "completed"
	StatusCanceled  AuctionStatus = "canceled"
)

// IsTerminal reports whether the status admits no further transitions.
func (s AuctionStatus) IsTerminal() bool {
	return s == StatusCompleted || s == StatusCanceled
}

// AdSlotDetails describes the ad slot being sold. The engine treats it as
// opaque beyond echoing it back; Region and Category feed list filtering.
type AdSlotDetails struct {
	Platform        string `json:"platform"`
	Category        string `json:"category"`
	Region          string `json:"region"`
	DurationSeconds int    `json:"duration_seconds"`
	Description     string `json:"description"`
}

// Bid represents an accepted offer on an auction. Bids are immutable once
// appended; CreatedAt is assigned by the engine at acceptance, never by the
// client.
type Bid struct {
	BidID     string    `json:"bid_id"`
	AuctionID string    `json:"auction_id"`
	UserID    string    `json:"user_id"`
	Amount    float64   `json:"amount"`
	CreatedAt time.Time `json:"created_at"`
}

// Auction represents a time-bounded sale process for one ad slot. CurrentBid
// always equals the amount of the last bid in BidHistory, or StartingBid when
// the history is empty.
type Auction struct {
	AuctionID        string        `json:"auction_id"`
	SellerID         string        `json:"seller_id"`
	AdSlot           AdSlotDetails `json:"ad_slot"`
	Currency         string        `json:"currency"`
	StartingBid      float64       `json:"starting_bid"`
	MinimumIncrement float64       `json:"minimum_increment"`
	ReservePrice     float64       `json:"reserve_price"`
	CurrentBid       float64       `json:"current_bid"`
	Status           AuctionStatus `json:"status"`
	BidHistory       []Bid         `json:"bid_history"`
	WinnerID         string        `json:"winner_id,omitempty"`
	StartTime        time.Time     `json:"start_time"`
	ExpirationTime   time.Time     `json:"expiration_time"`
	CreatedAt        time.Time     `json:"created_at"`
	UpdatedAt        time.Time     `json:"updated_at"`
}

// HighestBid returns the last accepted bid, if any. Bid history is append-only
// in acceptance order, so the last element always carries the current bid.
func (a Auction) HighestBid() (Bid, bool) {
	if len(a.BidHistory) == 0 {
		return Bid{}, false
	}
	return a.BidHistory[len(a.BidHistory)-1], true
}

// Clone returns a deep copy so callers never alias the stored bid history.
func (a Auction) Clone() Auction {
	cp := a
	if a.BidHistory != nil {
		cp.BidHistory = append([]Bid(nil), a.BidHistory...)
	}
	return cp
}
