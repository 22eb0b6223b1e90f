package engine

import (
	"context"
	"errors"
	"fmt"
	"time"

	"adslot-auction/internal/auctionerrors"
	"adslot-auction/internal/broadcast"
	"adslot-auction/internal/cache"
	"adslot-auction/internal/collaborators"
	model "adslot-auction/internal/models"
	"adslot-auction/internal/store"
	"adslot-auction/internal/validator"
	"adslot-auction/utils"
)

// CreateAuctionSpec is the seller-supplied description of a new auction.
// A zero StartingBid means "ask the pricing recommender".
type CreateAuctionSpec struct {
	SellerID         string
	AdSlot           model.AdSlotDetails
	Currency         string
	StartingBid      float64
	MinimumIncrement float64
	ReservePrice     float64
	StartTime        time.Time
	ExpirationTime   time.Time
}

// ListFilter narrows the active-auction listing exposed to clients.
type ListFilter struct {
	Region   string
	Category string
	Limit    int
	Offset   int
}

// Config tunes the engine's collaborator policies and default pricing.
type Config struct {
	// FraudThreshold is the risk score at or above which an operation is
	// rejected.
	FraudThreshold float64
	// FraudTimeout bounds every fraud-checker call. The checker is advisory
	// and must not be allowed to hang a bid.
	FraudTimeout time.Duration
	// FraudFailOpen decides what happens when the fraud checker errors or
	// times out: true lets the operation proceed, false rejects it.
	FraudFailOpen bool
	// CollaboratorTimeout bounds pricing and settlement calls.
	CollaboratorTimeout time.Duration
	// DefaultBasePrice seeds StartingBid when the seller supplied none and
	// the recommender failed.
	DefaultBasePrice float64
}

// AuctionEngine owns the auction state machine: create, open, accept-bid,
// expire, finalize. Serialization is per auction id through the store's
// conditional writes; the engine takes no locks of its own.
type AuctionEngine struct {
	store       store.AuctionStore
	cache       cache.AuctionCache
	broadcaster broadcast.Broadcaster
	pricing     collaborators.PriceRecommender
	fraud       collaborators.FraudChecker
	settlement  collaborators.SettlementLedger
	retry       RetryPolicy
	cfg         Config
	now         func() time.Time
}

// NewAuctionEngine wires the engine to its store, cache, broadcaster and
// external collaborators. All arguments are required; the broadcaster is the
// process-wide hub, never a per-request instance.
func NewAuctionEngine(
	st store.AuctionStore,
	c cache.AuctionCache,
	b broadcast.Broadcaster,
	pricing collaborators.PriceRecommender,
	fraud collaborators.FraudChecker,
	settlement collaborators.SettlementLedger,
	retry RetryPolicy,
	cfg Config,
) *AuctionEngine {
	if cfg.FraudThreshold <= 0 {
		cfg.FraudThreshold = 0.8
	}
	if cfg.FraudTimeout <= 0 {
		cfg.FraudTimeout = 500 * time.Millisecond
	}
	if cfg.CollaboratorTimeout <= 0 {
		cfg.CollaboratorTimeout = time.Second
	}
	return &AuctionEngine{
		store:       st,
		cache:       c,
		broadcaster: b,
		pricing:     pricing,
		fraud:       fraud,
		settlement:  settlement,
		retry:       retry,
		cfg:         cfg,
		now:         func() time.Time { return time.Now().UTC() },
	}
}

// CreateAuction validates the spec, fills a missing starting bid from the
// pricing recommender, and persists the auction in pending state.
func (e *AuctionEngine) CreateAuction(ctx context.Context, spec CreateAuctionSpec) (model.Auction, error) {
	startingBid := spec.StartingBid
	if startingBid <= 0 {
		startingBid = e.recommendBasePrice(ctx, spec.AdSlot)
	}

	if err := validator.ValidateAuctionSpec(spec.SellerID, startingBid, spec.MinimumIncrement,
		spec.ReservePrice, spec.StartTime, spec.ExpirationTime); err != nil {
		return model.Auction{}, fmt.Errorf("engine: create auction: %w", err)
	}

	if err := e.screenFraud(ctx, collaborators.RiskContext{
		Kind:   collaborators.RiskKindAuction,
		UserID: spec.SellerID,
		Amount: startingBid,
	}); err != nil {
		return model.Auction{}, fmt.Errorf("engine: create auction for seller %s: %w", spec.SellerID, err)
	}

	now := e.now()
	a := model.Auction{
		AuctionID:        utils.GenerateID(),
		SellerID:         spec.SellerID,
		AdSlot:           spec.AdSlot,
		Currency:         spec.Currency,
		StartingBid:      startingBid,
		MinimumIncrement: spec.MinimumIncrement,
		ReservePrice:     spec.ReservePrice,
		CurrentBid:       startingBid,
		Status:           model.StatusPending,
		StartTime:        spec.StartTime,
		ExpirationTime:   spec.ExpirationTime,
		CreatedAt:        now,
		UpdatedAt:        now,
	}

	if err := e.store.CreateAuction(a); err != nil {
		return model.Auction{}, fmt.Errorf("engine: create auction: %w", err)
	}

	e.cache.PutAuction(a)
	e.cache.InvalidateActiveList()

	utils.Info("auction created", map[string]any{
		"auction_id":   a.AuctionID,
		"seller_id":    a.SellerID,
		"starting_bid": a.StartingBid,
		"expires_at":   a.ExpirationTime.Format(time.RFC3339),
	})
	return a, nil
}

// recommendBasePrice consults the pricing collaborator under a bounded
// timeout. The answer is a suggestion only; failures fall back to the
// configured default and never block creation.
func (e *AuctionEngine) recommendBasePrice(ctx context.Context, slot model.AdSlotDetails) float64 {
	cctx, cancel := context.WithTimeout(ctx, e.cfg.CollaboratorTimeout)
	defer cancel()

	price, err := e.pricing.RecommendBasePrice(cctx, slot)
	if err != nil || price < 0 {
		utils.Warn("pricing recommendation unavailable, using default", map[string]any{
			"platform": slot.Platform,
			"default":  e.cfg.DefaultBasePrice,
			"error":    errString(err),
		})
		return e.cfg.DefaultBasePrice
	}
	return price
}

// OpenAuction transitions a pending auction to active once its start time has
// been reached. Opening an already-active auction is a no-op, not an error.
func (e *AuctionEngine) OpenAuction(ctx context.Context, auctionID string) (model.Auction, error) {
	a, err := e.store.GetAuction(auctionID)
	if err != nil {
		return model.Auction{}, fmt.Errorf("engine: open auction: %w", err)
	}

	switch a.Status {
	case model.StatusActive:
		return a, nil
	case model.StatusCompleted, model.StatusCanceled:
		return model.Auction{}, fmt.Errorf("engine: open auction %s: already %s: %w", auctionID, a.Status, auctionerrors.ErrAuctionNotOpen)
	}

	if e.now().Before(a.StartTime) {
		return model.Auction{}, fmt.Errorf("engine: open auction %s: start time %s not reached: %w",
			auctionID, a.StartTime.Format(time.RFC3339), auctionerrors.ErrAuctionNotOpen)
	}

	opened, err := e.store.TransitionStatus(auctionID, model.StatusPending, model.StatusActive)
	if errors.Is(err, auctionerrors.ErrConflict) {
		// Lost the race against a concurrent open; re-read and accept the
		// result if it landed on active.
		fresh, ferr := e.store.GetAuction(auctionID)
		if ferr == nil && fresh.Status == model.StatusActive {
			return fresh, nil
		}
		return model.Auction{}, fmt.Errorf("engine: open auction %s: %w", auctionID, err)
	}
	if err != nil {
		return model.Auction{}, fmt.Errorf("engine: open auction %s: %w", auctionID, err)
	}

	e.cache.Invalidate(auctionID)
	e.broadcaster.Publish(broadcast.Event{
		Type:       broadcast.EventAuctionOpened,
		AuctionID:  opened.AuctionID,
		Status:     opened.Status,
		CurrentBid: opened.CurrentBid,
		Timestamp:  e.now(),
	})

	utils.Info("auction opened", map[string]any{"auction_id": auctionID})
	return opened, nil
}

// PlaceBid validates and records a bid. The first read may come from the
// cache; every retry after a conditional-write conflict re-reads the store,
// because only the store's value is authoritative for concurrency control.
func (e *AuctionEngine) PlaceBid(ctx context.Context, auctionID, userID string, amount float64) (model.Bid, error) {
	snapshot, err := e.GetAuction(ctx, auctionID)
	if err != nil {
		return model.Bid{}, fmt.Errorf("engine: place bid: %w", err)
	}

	fraudChecked := false
	for attempt := 0; attempt < e.retry.attempts(); attempt++ {
		if err := validator.ValidateBid(snapshot, userID, amount, e.now()); err != nil {
			return model.Bid{}, fmt.Errorf("engine: place bid on auction %s: %w", auctionID, err)
		}

		// Screen once per bid attempt chain: the verdict is about the bidder
		// and amount, not about which snapshot we raced against.
		if !fraudChecked {
			if err := e.screenFraud(ctx, collaborators.RiskContext{
				Kind:      collaborators.RiskKindBid,
				AuctionID: auctionID,
				UserID:    userID,
				Amount:    amount,
			}); err != nil {
				return model.Bid{}, fmt.Errorf("engine: place bid on auction %s: %w", auctionID, err)
			}
			fraudChecked = true
		}

		bid := model.Bid{
			BidID:     utils.GenerateID(),
			AuctionID: auctionID,
			UserID:    userID,
			Amount:    amount,
			CreatedAt: e.now(),
		}

		updated, err := e.store.AppendBid(auctionID, bid, snapshot.CurrentBid)
		if err == nil {
			e.cache.Invalidate(auctionID)
			e.broadcaster.Publish(broadcast.Event{
				Type:       broadcast.EventBidAccepted,
				AuctionID:  auctionID,
				Status:     updated.Status,
				CurrentBid: updated.CurrentBid,
				Bid:        &bid,
				Timestamp:  bid.CreatedAt,
			})
			utils.Info("bid accepted", map[string]any{
				"auction_id":  auctionID,
				"bid_id":      bid.BidID,
				"user_id":     userID,
				"amount":      amount,
				"current_bid": updated.CurrentBid,
			})
			return bid, nil
		}

		if !errors.Is(err, auctionerrors.ErrConflict) {
			return model.Bid{}, fmt.Errorf("engine: place bid on auction %s: %w", auctionID, err)
		}

		// Another bid won the conditional write; back off and retry against
		// fresh store state.
		if werr := e.retry.wait(ctx, attempt); werr != nil {
			return model.Bid{}, fmt.Errorf("engine: place bid on auction %s: %w", auctionID, werr)
		}
		snapshot, err = e.store.GetAuction(auctionID)
		if err != nil {
			return model.Bid{}, fmt.Errorf("engine: place bid on auction %s: re-read failed: %w", auctionID, err)
		}
	}

	utils.Warn("bid contention exhausted", map[string]any{
		"auction_id": auctionID,
		"user_id":    userID,
		"amount":     amount,
		"attempts":   e.retry.attempts(),
	})
	return model.Bid{}, fmt.Errorf("engine: place bid on auction %s after %d attempts: %w",
		auctionID, e.retry.attempts(), auctionerrors.ErrContentionExceeded)
}

// screenFraud consults the fraud checker under a bounded timeout and maps
// scores at or above the threshold to ErrFraudSuspected. Checker failures
// follow the configured fail-open/fail-closed policy.
func (e *AuctionEngine) screenFraud(ctx context.Context, rc collaborators.RiskContext) error {
	cctx, cancel := context.WithTimeout(ctx, e.cfg.FraudTimeout)
	defer cancel()

	score, err := e.fraud.AssessRisk(cctx, rc)
	if err != nil {
		utils.Warn("fraud checker unavailable", map[string]any{
			"user_id":   rc.UserID,
			"fail_open": e.cfg.FraudFailOpen,
			"error":     err.Error(),
		})
		if e.cfg.FraudFailOpen {
			return nil
		}
		return fmt.Errorf("fraud assessment failed: %w", auctionerrors.ErrDependencyUnavailable)
	}
	if score >= e.cfg.FraudThreshold {
		return fmt.Errorf("risk score %.2f at or above threshold %.2f: %w", score, e.cfg.FraudThreshold, auctionerrors.ErrFraudSuspected)
	}
	return nil
}

// GetAuction is the read-through cache path for single-auction lookups.
func (e *AuctionEngine) GetAuction(ctx context.Context, auctionID string) (model.Auction, error) {
	if a, ok := e.cache.GetAuction(auctionID); ok {
		return a, nil
	}

	a, err := e.store.GetAuction(auctionID)
	if err != nil {
		return model.Auction{}, err
	}
	e.cache.PutAuction(a)
	return a, nil
}

// ListActiveAuctions returns active, unexpired auctions through the
// active-list cache, then applies region/category filtering and pagination.
func (e *AuctionEngine) ListActiveAuctions(ctx context.Context, filter ListFilter) ([]model.Auction, error) {
	actives, ok := e.cache.GetActiveList()
	if !ok {
		var err error
		actives, err = e.store.ListAuctions(store.ListFilter{
			Status:   model.StatusActive,
			ActiveAt: e.now(),
		})
		if err != nil {
			return nil, fmt.Errorf("engine: list active auctions: %w", err)
		}
		e.cache.PutActiveList(actives)
	}

	filtered := make([]model.Auction, 0, len(actives))
	for _, a := range actives {
		if filter.Region != "" && a.AdSlot.Region != filter.Region {
			continue
		}
		if filter.Category != "" && a.AdSlot.Category != filter.Category {
			continue
		}
		filtered = append(filtered, a)
	}

	if filter.Offset >= len(filtered) {
		return []model.Auction{}, nil
	}
	filtered = filtered[filter.Offset:]
	if filter.Limit > 0 && filter.Limit < len(filtered) {
		filtered = filtered[:filter.Limit]
	}
	return filtered, nil
}

// Finalize moves an active auction to its terminal state exactly once:
// completed when at least one bid landed and the current bid meets the
// reserve price, canceled otherwise. Calling it on an already-finalized
// auction is a no-op returning the stored outcome.
func (e *AuctionEngine) Finalize(ctx context.Context, auctionID string) (model.Auction, error) {
	a, err := e.store.GetAuction(auctionID)
	if err != nil {
		return model.Auction{}, fmt.Errorf("engine: finalize auction: %w", err)
	}
	if a.Status != model.StatusActive {
		// Already finalized by a concurrent sweep or explicit call, or never
		// opened; either way there is nothing to settle.
		return a, nil
	}

	outcome := model.StatusCanceled
	if _, hasBids := a.HighestBid(); hasBids && a.CurrentBid >= a.ReservePrice {
		outcome = model.StatusCompleted
	}
	return e.transitionTerminal(ctx, a, model.StatusActive, outcome)
}

// CancelAuction is an operator/fraud-triggered terminal transition. Canceling
// an already-canceled auction is a no-op; a completed auction cannot be
// canceled.
func (e *AuctionEngine) CancelAuction(ctx context.Context, auctionID string) (model.Auction, error) {
	a, err := e.store.GetAuction(auctionID)
	if err != nil {
		return model.Auction{}, fmt.Errorf("engine: cancel auction: %w", err)
	}

	switch a.Status {
	case model.StatusCanceled:
		return a, nil
	case model.StatusCompleted:
		return model.Auction{}, fmt.Errorf("engine: cancel auction %s: already completed: %w", auctionID, auctionerrors.ErrConflict)
	}
	return e.transitionTerminal(ctx, a, a.Status, model.StatusCanceled)
}

// transitionTerminal performs the conditional terminal transition shared by
// Finalize and CancelAuction. A conflict means another finalize already ran;
// that is treated as success with the other caller's outcome, never a double
// settle.
func (e *AuctionEngine) transitionTerminal(ctx context.Context, a model.Auction, expected, outcome model.AuctionStatus) (model.Auction, error) {
	final, err := e.store.TransitionStatus(a.AuctionID, expected, outcome)
	if errors.Is(err, auctionerrors.ErrConflict) {
		fresh, ferr := e.store.GetAuction(a.AuctionID)
		if ferr == nil && fresh.Status.IsTerminal() {
			return fresh, nil
		}
		return model.Auction{}, fmt.Errorf("engine: finalize auction %s: %w", a.AuctionID, err)
	}
	if err != nil {
		return model.Auction{}, fmt.Errorf("engine: finalize auction %s: %w", a.AuctionID, err)
	}

	e.cache.Invalidate(a.AuctionID)
	e.broadcaster.Publish(broadcast.Event{
		Type:       broadcast.EventAuctionFinalized,
		AuctionID:  final.AuctionID,
		Status:     final.Status,
		CurrentBid: final.CurrentBid,
		Timestamp:  e.now(),
	})
	utils.Info("auction finalized", map[string]any{
		"auction_id": final.AuctionID,
		"status":     string(final.Status),
		"winner_id":  final.WinnerID,
	})

	if final.Status == model.StatusCompleted {
		if winning, ok := final.HighestBid(); ok {
			e.recordSettlement(ctx, final.AuctionID, winning)
		}
	}
	return final, nil
}

// recordSettlement notifies the ledger once per successful finalize. The
// conditional transition already guarantees this code path runs at most once
// per auction; a ledger failure is logged for out-of-band retry and never
// rolls back the committed terminal state.
func (e *AuctionEngine) recordSettlement(ctx context.Context, auctionID string, winning model.Bid) {
	cctx, cancel := context.WithTimeout(ctx, e.cfg.CollaboratorTimeout)
	defer cancel()

	if err := e.settlement.RecordFinalization(cctx, auctionID, winning); err != nil {
		utils.Error("settlement record failed, leaving for out-of-band retry", map[string]any{
			"auction_id": auctionID,
			"winner_id":  winning.UserID,
			"amount":     winning.Amount,
			"error":      err.Error(),
		})
	}
}

// Sweep finalizes every active auction whose expiration has passed. Failures
// are logged and the auction stays active for the next sweep cycle.
func (e *AuctionEngine) Sweep(ctx context.Context) {
	now := e.now()
	expired, err := e.store.ListAuctions(store.ListFilter{
		Status:         model.StatusActive,
		ExpiringBefore: now.Add(time.Nanosecond),
	})
	if err != nil {
		utils.Error("expiration sweep: list failed", map[string]any{"error": err.Error()})
		return
	}

	for _, a := range expired {
		if _, err := e.Finalize(ctx, a.AuctionID); err != nil {
			utils.Error("expiration sweep: finalize failed", map[string]any{
				"auction_id": a.AuctionID,
				"error":      err.Error(),
			})
		}
	}
}

// CheckExpiration finalizes a single auction if its expiration has passed.
func (e *AuctionEngine) CheckExpiration(ctx context.Context, auctionID string) (model.Auction, error) {
	a, err := e.store.GetAuction(auctionID)
	if err != nil {
		return model.Auction{}, fmt.Errorf("engine: check expiration: %w", err)
	}
	if a.Status != model.StatusActive || e.now().Before(a.ExpirationTime) {
		return a, nil
	}
	return e.Finalize(ctx, auctionID)
}

func errString(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}
