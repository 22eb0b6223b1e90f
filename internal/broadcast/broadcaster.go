package broadcast

import (
	model "adslot-auction/internal/models"
	"adslot-auction/utils"
	"sync"
	"time"
)

// EventType identifies the auction state change being announced.
type EventType string

const (
	EventAuctionOpened    EventType = "auction_opened"
	EventBidAccepted      EventType = "bid_accepted"
	EventAuctionFinalized EventType = "auction_finalized"
)

// Event is the minimal state-change record pushed to real-time subscribers.
// Bid is set only for bid_accepted events.
type Event struct {
	Type       EventType           `json:"event"`
	AuctionID  string              `json:"auction_id"`
	Status     model.AuctionStatus `json:"status"`
	CurrentBid float64             `json:"current_bid"`
	Bid        *model.Bid          `json:"bid,omitempty"`
	Timestamp  time.Time           `json:"timestamp"`
}

// Broadcaster fans auction state changes out to subscribers. Publishing is
// best-effort and must never block or fail the state transition that
// triggered it: by the time Publish runs, the mutation has already committed
// in the store.
type Broadcaster interface {
	Publish(e Event)
}

// Hub is the single shared Broadcaster for the process. It is constructed
// once at startup and injected into every caller; nothing instantiates its
// own fan-out server.
type Hub struct {
	mu      sync.RWMutex
	subs    map[int]chan Event
	nextID  int
	bufSize int
}

// NewHub creates a hub whose subscribers each get a buffered channel of the
// given size.
func NewHub(bufSize int) *Hub {
	if bufSize <= 0 {
		bufSize = 16
	}
	return &Hub{
		subs:    make(map[int]chan Event),
		bufSize: bufSize,
	}
}

// Subscribe registers a new subscriber and returns its event channel along
// with a cancel function. The channel is closed when cancel is called.
func (h *Hub) Subscribe() (<-chan Event, func()) {
	ch := make(chan Event, h.bufSize)

	h.mu.Lock()
	id := h.nextID
	h.nextID++
	h.subs[id] = ch
	h.mu.Unlock()

	cancel := func() {
		h.mu.Lock()
		if c, ok := h.subs[id]; ok {
			delete(h.subs, id)
			close(c)
		}
		h.mu.Unlock()
	}
	return ch, cancel
}

// Publish delivers the event to every connected subscriber without blocking.
// A subscriber whose buffer is full misses the event (at-most-once delivery);
// it is expected to reconcile by re-fetching auction state.
func (h *Hub) Publish(e Event) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for id, ch := range h.subs {
		select {
		case ch <- e:
		default:
			utils.Warn("broadcast: dropping event for slow subscriber", map[string]any{
				"subscriber": id,
				"event":      string(e.Type),
				"auction_id": e.AuctionID,
			})
		}
	}
}

// SubscriberCount returns the number of connected subscribers.
func (h *Hub) SubscriberCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subs)
}
