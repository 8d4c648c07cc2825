package types

import (
	"math/big"
	"time"
)

// OperationKind identifies a contract write operation. Throttle cooldowns
// and orchestrator busy flags are tracked per kind.
type OperationKind string

const (
	OpApprove  OperationKind = "approve"
	OpStake    OperationKind = "stake"
	OpWithdraw OperationKind = "withdraw"
	OpClaim    OperationKind = "claim"
)

// StakePosition mirrors the contract's per-user staking state. It is
// refreshed from chain, never mutated locally.
type StakePosition struct {
	StakedAmount   *big.Int
	PendingRewards *big.Int
	LockEndTime    time.Time
}

// Bounds holds the contract's global staking parameters.
type Bounds struct {
	MinStake    *big.Int
	MaxStake    *big.Int
	LockPeriod  time.Duration
	TotalStaked *big.Int
}

// TimeLeft is the countdown until the lock period ends, derived from
// LockEndTime on every tick. All components are non-negative.
type TimeLeft struct {
	Days    int
	Hours   int
	Minutes int
	Seconds int
}

// Zero reports whether the countdown has expired.
func (t TimeLeft) Zero() bool {
	return t.Days == 0 && t.Hours == 0 && t.Minutes == 0 && t.Seconds == 0
}

// Snapshot is the last-known on-chain state for the connected account.
// A refresh cycle replaces it atomically; a failed cycle leaves the
// previous snapshot intact.
type Snapshot struct {
	Balance   *big.Int
	Position  StakePosition
	Allowance *big.Int
	Bounds    Bounds
	UpdatedAt time.Time
}

// Clone returns a deep copy so callers can read without holding the
// session lock.
func (s *Snapshot) Clone() *Snapshot {
	if s == nil {
		return nil
	}
	c := &Snapshot{
		Balance:   cloneBig(s.Balance),
		Allowance: cloneBig(s.Allowance),
		UpdatedAt: s.UpdatedAt,
		Position: StakePosition{
			StakedAmount:   cloneBig(s.Position.StakedAmount),
			PendingRewards: cloneBig(s.Position.PendingRewards),
			LockEndTime:    s.Position.LockEndTime,
		},
		Bounds: Bounds{
			MinStake:    cloneBig(s.Bounds.MinStake),
			MaxStake:    cloneBig(s.Bounds.MaxStake),
			LockPeriod:  s.Bounds.LockPeriod,
			TotalStaked: cloneBig(s.Bounds.TotalStaked),
		},
	}
	return c
}

func cloneBig(v *big.Int) *big.Int {
	if v == nil {
		return nil
	}
	return new(big.Int).Set(v)
}
