package staking

import (
	"context"
	"sync"
	"time"

	"github.com/sorayia-labs/stakectl/internal/logging"
	"github.com/sorayia-labs/stakectl/internal/util"
)

const (
	// DefaultRefreshInterval is the cadence of full on-chain snapshot
	// refreshes.
	DefaultRefreshInterval = 10 * time.Second

	// DefaultCountdownInterval is the cadence of local lock-countdown
	// recomputation.
	DefaultCountdownInterval = 1 * time.Second
)

// Synchronizer keeps a Session's snapshot and countdown current: a
// slow loop refreshes on-chain state, a fast loop recomputes the lock
// countdown between refreshes. Refresh failures are logged and the
// previous snapshot stays visible.
type Synchronizer struct {
	session   *Session
	refresh   time.Duration
	countdown time.Duration

	cancel context.CancelFunc
	wg     sync.WaitGroup
	once   sync.Once
}

// NewSynchronizer creates a stopped synchronizer. Non-positive
// intervals fall back to the defaults.
func NewSynchronizer(session *Session, refresh, countdown time.Duration) *Synchronizer {
	if refresh <= 0 {
		refresh = DefaultRefreshInterval
	}
	if countdown <= 0 {
		countdown = DefaultCountdownInterval
	}
	return &Synchronizer{
		session:   session,
		refresh:   refresh,
		countdown: countdown,
	}
}

// Start launches both loops and performs one immediate refresh so
// callers see state without waiting a full interval. It may be called
// once.
func (sy *Synchronizer) Start(ctx context.Context) {
	ctx, sy.cancel = context.WithCancel(ctx)

	if err := sy.session.Refresh(ctx); err != nil {
		logging.Warn("initial refresh failed", logging.Component("sync"), logging.Err(err))
	}
	sy.session.Tick()

	sy.wg.Add(2)
	util.SafeGoWithName("sync-refresh", func() {
		defer sy.wg.Done()
		sy.refreshLoop(ctx)
	})
	util.SafeGoWithName("sync-countdown", func() {
		defer sy.wg.Done()
		sy.countdownLoop(ctx)
	})
}

func (sy *Synchronizer) refreshLoop(ctx context.Context) {
	ticker := time.NewTicker(sy.refresh)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			// Errors are already logged and counted by the session.
			_ = sy.session.Refresh(ctx)
		}
	}
}

func (sy *Synchronizer) countdownLoop(ctx context.Context) {
	ticker := time.NewTicker(sy.countdown)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			sy.session.Tick()
		}
	}
}

// Close stops both loops and waits for them to exit. Safe to call more
// than once.
func (sy *Synchronizer) Close() {
	sy.once.Do(func() {
		if sy.cancel != nil {
			sy.cancel()
		}
		sy.wg.Wait()
	})
}
