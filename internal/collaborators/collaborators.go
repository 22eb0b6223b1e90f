package collaborators

import (
	model "adslot-auction/internal/models"
	"adslot-auction/utils"
	"context"
)

// RiskKind tells the fraud checker which operation is being screened.
type RiskKind string

const (
	RiskKindBid     RiskKind = "bid"
	RiskKindAuction RiskKind = "auction"
)

// RiskContext carries the minimum facts a fraud model needs to score an
// operation.
type RiskContext struct {
	Kind      RiskKind
	AuctionID string
	UserID    string
	Amount    float64
}

// PriceRecommender suggests a starting bid for a new auction. It is consulted
// only during creation and only when the seller supplied no base price; the
// engine treats the answer as a suggestion and still enforces its own range
// checks. Failures must never block auction creation.
type PriceRecommender interface {
	RecommendBasePrice(ctx context.Context, slot model.AdSlotDetails) (float64, error)
}

// FraudChecker scores an operation in [0,1]; the engine rejects above its
// configured threshold. Advisory only: the engine bounds the call with a
// timeout and applies its fail-open/fail-closed policy when the checker is
// unreachable.
type FraudChecker interface {
	AssessRisk(ctx context.Context, rc RiskContext) (float64, error)
}

// SettlementLedger records a completed auction's outcome. The engine calls it
// at most once per successful finalize, keyed by auction id; failures are
// logged and retried out-of-band, never rolled back into the auction state.
type SettlementLedger interface {
	RecordFinalization(ctx context.Context, auctionID string, winning model.Bid) error
}

// StaticRecommender suggests a flat per-second rate for the slot duration.
// It stands in for the real pricing model in standalone deployments.
type StaticRecommender struct {
	RatePerSecond float64
}

func (r StaticRecommender) RecommendBasePrice(_ context.Context, slot model.AdSlotDetails) (float64, error) {
	seconds := slot.DurationSeconds
	if seconds <= 0 {
		seconds = 30
	}
	return r.RatePerSecond * float64(seconds), nil
}

// NoRiskChecker scores every operation as zero risk.
type NoRiskChecker struct{}

func (NoRiskChecker) AssessRisk(context.Context, RiskContext) (float64, error) {
	return 0, nil
}

// LoggingLedger acknowledges finalizations by writing a structured log line.
// It stands in for the real settlement system in standalone deployments.
type LoggingLedger struct{}

func (LoggingLedger) RecordFinalization(_ context.Context, auctionID string, winning model.Bid) error {
	utils.Info("settlement recorded", map[string]any{
		"auction_id": auctionID,
		"winner_id":  winning.UserID,
		"amount":     winning.Amount,
	})
	return nil
}
