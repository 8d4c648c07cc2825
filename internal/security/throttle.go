package security

import (
	"fmt"
	"sync"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/sorayia-labs/stakectl/pkg/types"
)

// DefaultCooldown is the minimum elapsed time between successive write
// attempts for the same account and operation kind.
const DefaultCooldown = 2000 * time.Millisecond

type throttleKey struct {
	account common.Address
	op      types.OperationKind
}

// ThrottleRegistry tracks the last attempt time per (account, operation)
// pair. It is an owned object, not process-wide state, so independent
// sessions (and tests) never share cooldown state. Entries never expire;
// cardinality is bounded by accounts seen in one session.
type ThrottleRegistry struct {
	mu       sync.Mutex
	cooldown time.Duration
	last     map[throttleKey]time.Time
	now      func() time.Time
}

// NewThrottleRegistry creates a registry with the given cooldown.
// A zero or negative cooldown falls back to DefaultCooldown.
func NewThrottleRegistry(cooldown time.Duration) *ThrottleRegistry {
	if cooldown <= 0 {
		cooldown = DefaultCooldown
	}
	return &ThrottleRegistry{
		cooldown: cooldown,
		last:     make(map[throttleKey]time.Time),
		now:      time.Now,
	}
}

// Check admits or rejects a write attempt. A rejected attempt returns
// ErrThrottled and does not move the timestamp; an admitted attempt
// records now immediately, before the asynchronous write completes, so a
// slow-confirming or failed transaction still consumes the window.
// Operation kinds are independent: throttling one never blocks another.
func (r *ThrottleRegistry) Check(account common.Address, op types.OperationKind) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := throttleKey{account: account, op: op}
	now := r.now()

	if last, ok := r.last[key]; ok {
		if elapsed := now.Sub(last); elapsed < r.cooldown {
			return fmt.Errorf("%w (retry in %s)", ErrThrottled, (r.cooldown - elapsed).Round(time.Millisecond))
		}
	}

	r.last[key] = now
	return nil
}

// SetCooldown adjusts the cooldown window. Used for config hot-reload.
func (r *ThrottleRegistry) SetCooldown(cooldown time.Duration) {
	if cooldown <= 0 {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.cooldown = cooldown
}
