package engine

import (
	"context"
	"time"

	"adslot-auction/utils"
)

// Sweeper drives the time-based side of the state machine: it runs the
// engine's expiration sweep on a short fixed interval. The interval should be
// seconds, not minutes, so the window between "technically expired" and
// "finalized" stays small.
type Sweeper struct {
	engine   *AuctionEngine
	interval time.Duration
	stop     chan struct{}
	done     chan struct{}
}

// NewSweeper creates a sweeper for the given engine.
func NewSweeper(e *AuctionEngine, interval time.Duration) *Sweeper {
	if interval <= 0 {
		interval = 2 * time.Second
	}
	return &Sweeper{
		engine:   e,
		interval: interval,
		stop:     make(chan struct{}),
		done:     make(chan struct{}),
	}
}

// Start launches the sweep loop in its own goroutine. Overlapping sweeps are
// harmless: finalize is idempotent and conflict-losers treat the other
// sweep's outcome as success.
func (s *Sweeper) Start(ctx context.Context) {
	go func() {
		defer close(s.done)

		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()

		utils.Info("expiration sweeper started", map[string]any{"interval": s.interval.String()})
		for {
			select {
			case <-ctx.Done():
				return
			case <-s.stop:
				return
			case <-ticker.C:
				s.engine.Sweep(ctx)
			}
		}
	}()
}

// Stop terminates the sweep loop and waits for it to exit.
func (s *Sweeper) Stop() {
	close(s.stop)
	<-s.done
}
