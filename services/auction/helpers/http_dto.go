package helpers

import (
	model "adslot-auction/internal/models"
	"time"
)

// Request/Response DTOs
type CreateAuctionRequest struct {
	SellerID         string              `json:"seller_id" binding:"required"`
	AdSlot           model.AdSlotDetails `json:"ad_slot" binding:"required"`
	Currency         string              `json:"currency"`
	StartingBid      float64             `json:"starting_bid" binding:"gte=0"`
	MinimumIncrement float64             `json:"minimum_increment" binding:"required,gt=0"`
	ReservePrice     float64             `json:"reserve_price" binding:"gte=0"`
	StartTime        time.Time           `json:"start_time" binding:"required"`
	ExpirationTime   time.Time           `json:"expiration_time" binding:"required"`
}

type PlaceBidRequest struct {
	UserID string  `json:"user_id" binding:"required"`
	Amount float64 `json:"amount" binding:"required,gt=0"`
}

type BidResponse struct {
	BidID     string  `json:"bid_id"`
	AuctionID string  `json:"auction_id"`
	UserID    string  `json:"user_id"`
	Amount    float64 `json:"amount"`
	CreatedAt string  `json:"created_at"`
}

type AuctionResponse struct {
	AuctionID        string              `json:"auction_id"`
	SellerID         string              `json:"seller_id"`
	AdSlot           model.AdSlotDetails `json:"ad_slot"`
	Currency         string              `json:"currency"`
	StartingBid      float64             `json:"starting_bid"`
	MinimumIncrement float64             `json:"minimum_increment"`
	ReservePrice     float64             `json:"reserve_price"`
	CurrentBid       float64             `json:"current_bid"`
	Status           string              `json:"status"`
	BidCount         int                 `json:"bid_count"`
	WinnerID         string              `json:"winner_id,omitempty"`
	StartTime        string              `json:"start_time"`
	ExpirationTime   string              `json:"expiration_time"`
	CreatedAt        string              `json:"created_at"`
	UpdatedAt        string              `json:"updated_at"`
}

// ToAuctionResponse converts a domain auction into its API shape.
func ToAuctionResponse(a model.Auction) AuctionResponse {
	return AuctionResponse{
		AuctionID:        a.AuctionID,
		SellerID:         a.SellerID,
		AdSlot:           a.AdSlot,
		Currency:         a.Currency,
		StartingBid:      a.StartingBid,
		MinimumIncrement: a.MinimumIncrement,
		ReservePrice:     a.ReservePrice,
		CurrentBid:       a.CurrentBid,
		Status:           string(a.Status),
		BidCount:         len(a.BidHistory),
		WinnerID:         a.WinnerID,
		StartTime:        a.StartTime.UTC().Format(time.RFC3339),
		ExpirationTime:   a.ExpirationTime.UTC().Format(time.RFC3339),
		CreatedAt:        a.CreatedAt.UTC().Format(time.RFC3339),
		UpdatedAt:        a.UpdatedAt.UTC().Format(time.RFC3339),
	}
}

// ToBidResponse converts a domain bid into its API shape.
func ToBidResponse(b model.Bid) BidResponse {
	return BidResponse{
		BidID:     b.BidID,
		AuctionID: b.AuctionID,
		UserID:    b.UserID,
		Amount:    b.Amount,
		CreatedAt: b.CreatedAt.UTC().Format(time.RFC3339),
	}
}
