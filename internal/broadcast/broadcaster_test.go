package broadcast

import (
	model "adslot-auction/internal/models"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func testEvent(id string, bid float64) Event {
	return Event{
		Type:       EventBidAccepted,
		AuctionID:  id,
		Status:     model.StatusActive,
		CurrentBid: bid,
		Timestamp:  time.Now().UTC(),
	}
}

// Test fan-out to all subscribers
func TestHub_PublishFanOut(t *testing.T) {
	t.Parallel()

	hub := NewHub(4)

	ch1, cancel1 := hub.Subscribe()
	defer cancel1()
	ch2, cancel2 := hub.Subscribe()
	defer cancel2()

	require.Equal(t, 2, hub.SubscriberCount())

	hub.Publish(testEvent("a1", 110))

	for _, ch := range []<-chan Event{ch1, ch2} {
		select {
		case e := <-ch:
			require.Equal(t, EventBidAccepted, e.Type)
			require.Equal(t, "a1", e.AuctionID)
			require.Equal(t, 110.0, e.CurrentBid)
		case <-time.After(time.Second):
			t.Fatal("subscriber did not receive event")
		}
	}
}

// A subscriber whose buffer is full must not block Publish; it just misses
// events.
func TestHub_SlowSubscriberNeverBlocksPublish(t *testing.T) {
	t.Parallel()

	hub := NewHub(1)

	slow, cancelSlow := hub.Subscribe()
	defer cancelSlow()
	fast, cancelFast := hub.Subscribe()
	defer cancelFast()

	done := make(chan struct{})
	go func() {
		defer close(done)
		for i := 0; i < 10; i++ {
			hub.Publish(testEvent("a1", float64(100+i)))
		}
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Publish blocked on a slow subscriber")
	}

	// The slow subscriber holds at most its buffer worth of events.
	require.LessOrEqual(t, len(slow), 1)

	// Drain the fast subscriber; it saw at most 10 events, delivered at most
	// once each.
	count := 0
	for {
		select {
		case <-fast:
			count++
			continue
		default:
		}
		break
	}
	require.LessOrEqual(t, count, 10)
}

// Test unsubscribe
func TestHub_Unsubscribe(t *testing.T) {
	t.Parallel()

	hub := NewHub(4)
	ch, cancel := hub.Subscribe()

	cancel()
	require.Equal(t, 0, hub.SubscriberCount())

	_, open := <-ch
	require.False(t, open, "channel should be closed after unsubscribe")

	// Cancel twice is safe; publish to zero subscribers is safe.
	cancel()
	hub.Publish(testEvent("a1", 110))
}
