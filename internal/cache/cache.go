package cache

import (
	model "adslot-auction/internal/models"
	"sync"
	"time"
)

// AuctionCache is the fast read path for single-auction lookups and the
// active-auction listing. It is never authoritative: the engine consults it
// only for reads and always re-reads the store before a conditional write.
type AuctionCache interface {
	GetAuction(auctionID string) (model.Auction, bool)
	PutAuction(a model.Auction)
	Invalidate(auctionID string)
	GetActiveList() ([]model.Auction, bool)
	PutActiveList(auctions []model.Auction)
	InvalidateActiveList()
}

type entry struct {
	auction   model.Auction
	expiresAt time.Time
}

// MemoryCache is a concurrency-safe TTL cache implementing AuctionCache
type MemoryCache struct {
	mu            sync.RWMutex
	entries       map[string]entry // key: auctionID
	activeList    []model.Auction
	activeExpires time.Time
	auctionTTL    time.Duration
	listTTL       time.Duration
	now           func() time.Time
}

// NewMemoryCache creates a cache with the given TTLs for single-auction
// entries and the active-list entry.
func NewMemoryCache(auctionTTL, listTTL time.Duration) *MemoryCache {
	return &MemoryCache{
		entries:    make(map[string]entry),
		auctionTTL: auctionTTL,
		listTTL:    listTTL,
		now:        time.Now,
	}
}

// GetAuction returns the cached auction if present and not expired
func (c *MemoryCache) GetAuction(auctionID string) (model.Auction, bool) {
	c.mu.RLock()
	e, ok := c.entries[auctionID]
	c.mu.RUnlock()

	if !ok || c.now().After(e.expiresAt) {
		return model.Auction{}, false
	}
	return e.auction.Clone(), true
}

// PutAuction stores a copy of the auction with a fresh TTL
func (c *MemoryCache) PutAuction(a model.Auction) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[a.AuctionID] = entry{auction: a.Clone(), expiresAt: c.now().Add(c.auctionTTL)}
}

// Invalidate drops the cached auction and the active list. Both must go: a
// stale listing that still shows the old current bid is as wrong as a stale
// single-auction entry. Redundant invalidation is safe.
func (c *MemoryCache) Invalidate(auctionID string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, auctionID)
	c.activeList = nil
	c.activeExpires = time.Time{}
}

// GetActiveList returns the cached active-auction listing if not expired
func (c *MemoryCache) GetActiveList() ([]model.Auction, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if c.activeList == nil || c.now().After(c.activeExpires) {
		return nil, false
	}
	out := make([]model.Auction, len(c.activeList))
	for i, a := range c.activeList {
		out[i] = a.Clone()
	}
	return out, true
}

// PutActiveList stores a copy of the active-auction listing
func (c *MemoryCache) PutActiveList(auctions []model.Auction) {
	cp := make([]model.Auction, len(auctions))
	for i, a := range auctions {
		cp[i] = a.Clone()
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.activeList = cp
	c.activeExpires = c.now().Add(c.listTTL)
}

// InvalidateActiveList drops the cached listing
func (c *MemoryCache) InvalidateActiveList() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.activeList = nil
	c.activeExpires = time.Time{}
}
