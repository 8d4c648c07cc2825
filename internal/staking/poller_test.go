package staking

import (
	"context"
	"math/big"
	"testing"
	"time"
)

func TestSynchronizer_RefreshesAndCounts(t *testing.T) {
	f := newFixture(t, func(o *Options) {
		// Real clock so ticker-driven ticks observe time moving.
		o.Now = nil
	})
	f.staking.SetMockPosition(testAccount, tok(100), big.NewInt(0), time.Now().Add(time.Hour))

	sy := NewSynchronizer(f.session, 20*time.Millisecond, 5*time.Millisecond)
	sy.Start(context.Background())
	defer sy.Close()

	deadline := time.After(2 * time.Second)
	for {
		snap := f.session.Snapshot()
		if snap != nil && snap.Position.StakedAmount.Cmp(tok(100)) == 0 {
			break
		}
		select {
		case <-deadline:
			t.Fatal("synchronizer never picked up the seeded position")
		case <-time.After(5 * time.Millisecond):
		}
	}

	// The countdown loop should see the one-hour lock.
	deadline = time.After(2 * time.Second)
	for f.session.TimeLeft().Zero() {
		select {
		case <-deadline:
			t.Fatal("countdown never started")
		case <-time.After(5 * time.Millisecond):
		}
	}

	tl := f.session.TimeLeft()
	if tl.Days != 0 || tl.Hours > 1 {
		t.Errorf("unexpected countdown for a one-hour lock: %+v", tl)
	}
}

func TestSynchronizer_CloseIsIdempotent(t *testing.T) {
	f := newFixture(t, nil)

	sy := NewSynchronizer(f.session, 10*time.Millisecond, 10*time.Millisecond)
	sy.Start(context.Background())
	sy.Close()
	sy.Close()
}

func TestSynchronizer_StartPrimesImmediately(t *testing.T) {
	f := newFixture(t, func(o *Options) {
		o.Now = nil
	})
	f.staking.SetMockPosition(testAccount, tok(42), big.NewInt(0), time.Time{})

	// Long intervals: only the immediate refresh can observe the seed.
	sy := NewSynchronizer(f.session, time.Hour, time.Hour)
	sy.Start(context.Background())
	defer sy.Close()

	snap := f.session.Snapshot()
	if snap == nil || snap.Position.StakedAmount.Cmp(tok(42)) != 0 {
		t.Error("start should refresh before returning")
	}
}

func TestSynchronizer_DefaultIntervals(t *testing.T) {
	sy := NewSynchronizer(nil, 0, -time.Second)
	if sy.refresh != DefaultRefreshInterval {
		t.Errorf("expected %v, got %v", DefaultRefreshInterval, sy.refresh)
	}
	if sy.countdown != DefaultCountdownInterval {
		t.Errorf("expected %v, got %v", DefaultCountdownInterval, sy.countdown)
	}
}
