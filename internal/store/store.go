package store

import (
	"adslot-auction/internal/auctionerrors"
	model "adslot-auction/internal/models"
	"fmt"
	"sort"
	"sync"
	"time"
)

// ListFilter narrows ListAuctions results. Zero values mean "no constraint";
// a zero Limit returns everything after Offset.
type ListFilter struct {
	Status         model.AuctionStatus
	Region         string
	Category       string
	ExpiringBefore time.Time
	ActiveAt       time.Time // keep only auctions whose ExpirationTime is at or after this instant
	Limit          int
	Offset         int
}

// AuctionStore is the durable source of truth for auctions and their bid
// history. AppendBid and TransitionStatus are conditional writes: they are the
// only concurrency-control primitives in the system, so every racing mutation
// must flow through them.
type AuctionStore interface {
	CreateAuction(a model.Auction) error
	GetAuction(auctionID string) (model.Auction, error)
	ListAuctions(filter ListFilter) ([]model.Auction, error)
	AppendBid(auctionID string, bid model.Bid, expectedCurrentBid float64) (model.Auction, error)
	TransitionStatus(auctionID string, expected, next model.AuctionStatus) (model.Auction, error)
}

// MemoryStore is a concurrency-safe in-memory implementation of AuctionStore
type MemoryStore struct {
	mu       sync.RWMutex
	auctions map[string]*model.Auction // key: auctionID
}

// NewMemoryStore creates a new in-memory store instance
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		auctions: make(map[string]*model.Auction),
	}
}

// CreateAuction persists a new auction after structural validation. The
// business rules (increments, reserve comparisons) belong to the validator;
// only type/range invariants are enforced at the store boundary.
func (s *MemoryStore) CreateAuction(a model.Auction) error {
	if err := checkStructure(a); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.auctions[a.AuctionID]; ok {
		return fmt.Errorf("create auction %s: id already exists: %w", a.AuctionID, auctionerrors.ErrInvalidAuction)
	}

	stored := a.Clone()
	s.auctions[a.AuctionID] = &stored
	return nil
}

// checkStructure enforces the store-boundary invariants on an auction record.
func checkStructure(a model.Auction) error {
	switch {
	case a.AuctionID == "":
		return fmt.Errorf("create auction: missing id: %w", auctionerrors.ErrInvalidAuction)
	case !a.StartTime.Before(a.ExpirationTime):
		return fmt.Errorf("create auction %s: start time is not before expiration: %w", a.AuctionID, auctionerrors.ErrInvalidAuction)
	case a.MinimumIncrement <= 0:
		return fmt.Errorf("create auction %s: minimum increment must be positive: %w", a.AuctionID, auctionerrors.ErrInvalidAuction)
	case a.ReservePrice < 0:
		return fmt.Errorf("create auction %s: negative reserve price: %w", a.AuctionID, auctionerrors.ErrInvalidAuction)
	case a.StartingBid < 0:
		return fmt.Errorf("create auction %s: negative starting bid: %w", a.AuctionID, auctionerrors.ErrInvalidAuction)
	}
	return nil
}

// GetAuction returns a copy of the auction with the given id
func (s *MemoryStore) GetAuction(auctionID string) (model.Auction, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	a, ok := s.auctions[auctionID]
	if !ok {
		return model.Auction{}, fmt.Errorf("get auction %s: %w", auctionID, auctionerrors.ErrAuctionNotFound)
	}
	return a.Clone(), nil
}

// ListAuctions returns auctions matching the filter, ordered by expiration
// time (soonest first), with Offset/Limit pagination applied after filtering.
func (s *MemoryStore) ListAuctions(filter ListFilter) ([]model.Auction, error) {
	s.mu.RLock()
	matched := make([]model.Auction, 0)
	for _, a := range s.auctions {
		if filter.Status != "" && a.Status != filter.Status {
			continue
		}
		if filter.Region != "" && a.AdSlot.Region != filter.Region {
			continue
		}
		if filter.Category != "" && a.AdSlot.Category != filter.Category {
			continue
		}
		if !filter.ExpiringBefore.IsZero() && !a.ExpirationTime.Before(filter.ExpiringBefore) {
			continue
		}
		if !filter.ActiveAt.IsZero() && a.ExpirationTime.Before(filter.ActiveAt) {
			continue
		}
		matched = append(matched, a.Clone())
	}
	s.mu.RUnlock()

	sort.Slice(matched, func(i, j int) bool {
		return matched[i].ExpirationTime.Before(matched[j].ExpirationTime)
	})

	if filter.Offset >= len(matched) {
		return []model.Auction{}, nil
	}
	matched = matched[filter.Offset:]
	if filter.Limit > 0 && filter.Limit < len(matched) {
		matched = matched[:filter.Limit]
	}
	return matched, nil
}

// AppendBid appends a bid under optimistic concurrency control: the write
// succeeds only if the stored current bid still equals expectedCurrentBid and
// the auction is still active. A losing racer gets ErrConflict and must retry
// against freshly read state.
func (s *MemoryStore) AppendBid(auctionID string, bid model.Bid, expectedCurrentBid float64) (model.Auction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	a, ok := s.auctions[auctionID]
	if !ok {
		return model.Auction{}, fmt.Errorf("append bid to auction %s: %w", auctionID, auctionerrors.ErrAuctionNotFound)
	}
	if a.Status != model.StatusActive {
		return model.Auction{}, fmt.Errorf("append bid to auction %s: status is %s: %w", auctionID, a.Status, auctionerrors.ErrConflict)
	}
	if a.CurrentBid != expectedCurrentBid {
		return model.Auction{}, fmt.Errorf("append bid to auction %s: current bid moved from %.2f to %.2f: %w",
			auctionID, expectedCurrentBid, a.CurrentBid, auctionerrors.ErrConflict)
	}

	a.BidHistory = append(a.BidHistory, bid)
	a.CurrentBid = bid.Amount
	a.UpdatedAt = bid.CreatedAt

	return a.Clone(), nil
}

// TransitionStatus conditionally moves an auction between lifecycle states.
// It fails with ErrConflict when the stored status no longer matches expected,
// which gives open/finalize/cancel their exactly-once semantics. A transition
// to completed records the winner from the last accepted bid.
func (s *MemoryStore) TransitionStatus(auctionID string, expected, next model.AuctionStatus) (model.Auction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	a, ok := s.auctions[auctionID]
	if !ok {
		return model.Auction{}, fmt.Errorf("transition auction %s: %w", auctionID, auctionerrors.ErrAuctionNotFound)
	}
	if a.Status != expected {
		return model.Auction{}, fmt.Errorf("transition auction %s: status is %s, expected %s: %w",
			auctionID, a.Status, expected, auctionerrors.ErrConflict)
	}

	a.Status = next
	a.UpdatedAt = time.Now().UTC()
	if next == model.StatusCompleted {
		if winning, ok := a.HighestBid(); ok {
			a.WinnerID = winning.UserID
		}
	}

	return a.Clone(), nil
}
