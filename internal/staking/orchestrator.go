package staking

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/big"
	"sync"
	"time"

	"github.com/ethereum/go-ethereum/common"
	ethtypes "github.com/ethereum/go-ethereum/core/types"

	"github.com/sorayia-labs/stakectl/internal/logging"
	"github.com/sorayia-labs/stakectl/internal/metrics"
	"github.com/sorayia-labs/stakectl/internal/securestore"
	"github.com/sorayia-labs/stakectl/internal/security"
	"github.com/sorayia-labs/stakectl/pkg/types"
)

// maxUint256 is the unlimited allowance granted by Approve, matching
// the common one-time-approval UX for staking contracts.
var maxUint256 = new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), 256), big.NewInt(1))

// Phase is the lifecycle stage of an operation kind. Exactly one
// operation per kind may be in a non-idle phase at a time.
type Phase string

const (
	PhaseIdle       Phase = "idle"
	PhaseValidating Phase = "validating"
	PhaseSubmitting Phase = "submitting"
	PhaseConfirming Phase = "confirming"
)

// ChainBackend is the narrow connection surface the orchestrator
// needs. *chain.Client and *chain.MockClient both satisfy it.
type ChainBackend interface {
	ChainID(ctx context.Context) (*big.Int, error)
	Address() common.Address
	IsConnected() bool
	WaitForTransaction(ctx context.Context, tx *ethtypes.Transaction) (*ethtypes.Receipt, error)
}

// TokenAPI is the ERC-20 surface used for balance, allowance and
// approval.
type TokenAPI interface {
	BalanceOf(ctx context.Context, owner common.Address) (*big.Int, error)
	Allowance(ctx context.Context, owner, spender common.Address) (*big.Int, error)
	Approve(ctx context.Context, spender common.Address, amount *big.Int) (*ethtypes.Transaction, error)
}

// StakingAPI is the staking contract surface: the three writes plus the
// reads that feed a snapshot.
type StakingAPI interface {
	Address() common.Address
	Stake(ctx context.Context, amount *big.Int) (*ethtypes.Transaction, error)
	Withdraw(ctx context.Context, amount *big.Int) (*ethtypes.Transaction, error)
	ClaimRewards(ctx context.Context) (*ethtypes.Transaction, error)
	GetUserStake(ctx context.Context, account common.Address) (types.StakePosition, error)
	MinStakeAmount(ctx context.Context) (*big.Int, error)
	MaxStakeAmount(ctx context.Context) (*big.Int, error)
	LockPeriod(ctx context.Context) (time.Duration, error)
	TotalStaked(ctx context.Context) (*big.Int, error)
}

// Options configures a Session. Backend, Token and Staking are
// required; everything else has a default.
type Options struct {
	Backend         ChainBackend
	Token           TokenAPI
	Staking         StakingAPI
	ExpectedChainID int64
	Decimals        int
	Throttle        *security.ThrottleRegistry
	Store           *securestore.Store
	Metrics         *metrics.Collector
	Now             func() time.Time
}

// Session orchestrates staking operations for one connected account.
// Every write runs the same pipeline: validate connection, network,
// cooldown and amount, submit, shape-check the returned transaction,
// wait for confirmation, then refresh the snapshot. Reads are served
// from the last good snapshot and never block on the chain.
type Session struct {
	backend ChainBackend
	token   TokenAPI
	staking StakingAPI

	expectedChainID int64
	decimals        int
	throttle        *security.ThrottleRegistry
	store           *securestore.Store
	metrics         *metrics.Collector
	now             func() time.Time
	log             *slog.Logger

	mu       sync.Mutex
	snapshot *types.Snapshot
	timeLeft types.TimeLeft
	phases   map[types.OperationKind]Phase
	lastErr  map[types.OperationKind]error
}

// NewSession wires up an orchestrator for the given contracts.
func NewSession(opts Options) (*Session, error) {
	if opts.Backend == nil || opts.Token == nil || opts.Staking == nil {
		return nil, fmt.Errorf("backend, token and staking contracts are required")
	}
	if opts.ExpectedChainID == 0 {
		opts.ExpectedChainID = 56
	}
	if opts.Decimals <= 0 {
		opts.Decimals = 18
	}
	if opts.Throttle == nil {
		opts.Throttle = security.NewThrottleRegistry(0)
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}

	return &Session{
		backend:         opts.Backend,
		token:           opts.Token,
		staking:         opts.Staking,
		expectedChainID: opts.ExpectedChainID,
		decimals:        opts.Decimals,
		throttle:        opts.Throttle,
		store:           opts.Store,
		metrics:         opts.Metrics,
		now:             opts.Now,
		log:             logging.With(logging.Component("staking")),
		phases:          make(map[types.OperationKind]Phase),
		lastErr:         make(map[types.OperationKind]error),
	}, nil
}

// Address returns the connected account.
func (s *Session) Address() common.Address {
	return s.backend.Address()
}

// Decimals returns the token precision the session validates against.
func (s *Session) Decimals() int {
	return s.decimals
}

// Snapshot returns a copy of the last good on-chain state, or nil if no
// refresh has succeeded yet.
func (s *Session) Snapshot() *types.Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshot.Clone()
}

// TimeLeft returns the lock countdown as of the last tick.
func (s *Session) TimeLeft() types.TimeLeft {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.timeLeft
}

// Phase reports the lifecycle stage of the given operation kind.
func (s *Session) Phase(op types.OperationKind) Phase {
	s.mu.Lock()
	defer s.mu.Unlock()
	if p, ok := s.phases[op]; ok {
		return p
	}
	return PhaseIdle
}

// Busy reports whether an operation of the given kind is in flight.
func (s *Session) Busy(op types.OperationKind) bool {
	return s.Phase(op) != PhaseIdle
}

// LastError returns the most recent failure for the operation kind, or
// nil after a success.
func (s *Session) LastError(op types.OperationKind) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastErr[op]
}

// NeedsApproval reports whether the current allowance cannot cover the
// given base-unit amount. With no snapshot yet, approval is assumed
// necessary.
func (s *Session) NeedsApproval(amount *big.Int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.snapshot == nil || s.snapshot.Allowance == nil {
		return true
	}
	return s.snapshot.Allowance.Cmp(amount) < 0
}

// Approve grants the staking contract an unlimited allowance.
func (s *Session) Approve(ctx context.Context) error {
	return s.run(ctx, types.OpApprove, nil, func(ctx context.Context) (*ethtypes.Transaction, error) {
		return s.token.Approve(ctx, s.staking.Address(), new(big.Int).Set(maxUint256))
	})
}

// Stake validates the human-readable amount against balance and
// contract bounds, then submits a stake.
func (s *Session) Stake(ctx context.Context, amount string) error {
	amount = security.SanitizeAmount(amount)

	var wei *big.Int
	return s.run(ctx, types.OpStake, func() error {
		snap := s.Snapshot()
		if snap == nil {
			return fmt.Errorf("no on-chain state yet: %w", security.ErrNotConnected)
		}
		if !security.IsValidAmount(amount, snap.Balance, snap.Bounds.MinStake, snap.Bounds.MaxStake, s.decimals) {
			return security.ErrInvalidAmount
		}
		w, err := security.ParseAmount(amount, s.decimals)
		if err != nil {
			return fmt.Errorf("%w: %v", security.ErrInvalidAmount, err)
		}
		if s.NeedsApproval(w) {
			return security.ErrInsufficientAllowance
		}
		wei = w
		return nil
	}, func(ctx context.Context) (*ethtypes.Transaction, error) {
		return s.staking.Stake(ctx, wei)
	})
}

// Withdraw validates the amount against the staked position, then
// submits a withdrawal. The lock period is enforced by the contract;
// a withdrawal during the countdown is submitted and may revert.
func (s *Session) Withdraw(ctx context.Context, amount string) error {
	amount = security.SanitizeAmount(amount)

	var wei *big.Int
	return s.run(ctx, types.OpWithdraw, func() error {
		snap := s.Snapshot()
		if snap == nil {
			return fmt.Errorf("no on-chain state yet: %w", security.ErrNotConnected)
		}
		w, err := security.ParseAmount(amount, s.decimals)
		if err != nil {
			return fmt.Errorf("%w: %v", security.ErrInvalidAmount, err)
		}
		staked := snap.Position.StakedAmount
		if w.Sign() <= 0 || staked == nil || w.Cmp(staked) > 0 {
			return security.ErrInvalidAmount
		}
		if lockEnd := snap.Position.LockEndTime; !lockEnd.IsZero() && s.now().Before(lockEnd) {
			s.log.Warn("lock period still active, the contract may revert", "unlocks_at", lockEnd)
		}
		wei = w
		return nil
	}, func(ctx context.Context) (*ethtypes.Transaction, error) {
		return s.staking.Withdraw(ctx, wei)
	})
}

// Claim collects all pending rewards.
func (s *Session) Claim(ctx context.Context) error {
	return s.run(ctx, types.OpClaim, nil, func(ctx context.Context) (*ethtypes.Transaction, error) {
		return s.staking.ClaimRewards(ctx)
	})
}

// run is the shared write pipeline: connection, network and cooldown
// guards first, then the operation's amount checks, then submit. An
// attempt that reaches the cooldown guard consumes the window even if
// its amount is later rejected.
func (s *Session) run(ctx context.Context, op types.OperationKind, checkAmount func() error, submit func(context.Context) (*ethtypes.Transaction, error)) error {
	if !s.enter(op) {
		// Already in flight; repeated clicks must not double-submit.
		s.log.Debug("operation already in progress", logging.Operation(string(op)))
		return nil
	}
	defer s.exit(op)

	start := s.now()
	account := s.backend.Address()
	log := s.log.With(logging.Operation(string(op)), logging.Account(account.Hex()))

	if err := s.validate(ctx, op, account); err != nil {
		return s.fail(op, err)
	}
	if checkAmount != nil {
		if err := checkAmount(); err != nil {
			return s.fail(op, err)
		}
	}

	s.setPhase(op, PhaseSubmitting)
	tx, err := submit(ctx)
	if err != nil {
		return s.fail(op, fmt.Errorf("submit failed: %w", err))
	}
	if err := security.ValidateTransaction(tx); err != nil {
		return s.fail(op, err)
	}
	if s.metrics != nil {
		s.metrics.RecordSubmitted(string(op))
	}
	log.Info("transaction submitted", logging.TxHash(tx.Hash().Hex()))

	s.setPhase(op, PhaseConfirming)
	receipt, err := s.backend.WaitForTransaction(ctx, tx)
	if err != nil {
		return s.fail(op, fmt.Errorf("confirmation failed: %w", err))
	}
	if receipt.Status != ethtypes.ReceiptStatusSuccessful {
		return s.fail(op, fmt.Errorf("transaction reverted: %s", tx.Hash().Hex()))
	}

	if s.metrics != nil {
		s.metrics.RecordConfirmed(string(op), s.now().Sub(start))
	}
	log.Info("transaction confirmed", logging.TxHash(tx.Hash().Hex()))
	logging.Audit(logging.AuditEvent{
		Operation: string(op),
		Actor:     account.Hex(),
		Target:    s.staking.Address().Hex(),
		Result:    "success",
		Details:   tx.Hash().Hex(),
	})

	// Pull fresh state immediately rather than waiting for the next
	// poll cycle. A failed refresh here is not an operation failure.
	if err := s.Refresh(ctx); err != nil {
		log.Warn("post-confirmation refresh failed", logging.Err(err))
	}

	return nil
}

// validate runs the pre-submit guards in a fixed order: connection,
// network, cooldown. Amount guards run in the per-operation wrappers
// because they need operation-specific context.
func (s *Session) validate(ctx context.Context, op types.OperationKind, account common.Address) error {
	s.setPhase(op, PhaseValidating)

	if !s.backend.IsConnected() {
		return security.ErrNotConnected
	}
	if !security.ValidateNetwork(ctx, s.backend, s.expectedChainID) {
		return security.ErrWrongNetwork
	}
	if err := s.throttle.Check(account, op); err != nil {
		if s.metrics != nil {
			s.metrics.RecordThrottled(string(op))
		}
		return err
	}
	return nil
}

// Refresh reads the full on-chain state and replaces the snapshot
// atomically. If any read fails the previous snapshot stays in effect.
func (s *Session) Refresh(ctx context.Context) error {
	account := s.backend.Address()

	snap, err := s.fetchSnapshot(ctx, account)
	if s.metrics != nil {
		s.metrics.RecordRefresh(err == nil)
	}
	if err != nil {
		s.log.Warn("refresh failed, keeping previous state", logging.Err(err))
		return err
	}

	s.mu.Lock()
	s.snapshot = snap
	s.timeLeft = CalculateTimeLeft(snap.Position.LockEndTime, s.now())
	s.mu.Unlock()

	if s.metrics != nil {
		until := time.Duration(0)
		if end := snap.Position.LockEndTime; !end.IsZero() {
			until = end.Sub(s.now())
		}
		s.metrics.SetPosition(snap.Position.StakedAmount, snap.Position.PendingRewards, s.decimals, until)
	}

	if s.store != nil {
		s.store.Set(securestore.LastConnectedAddressKey, account.Hex())
	}

	return nil
}

func (s *Session) fetchSnapshot(ctx context.Context, account common.Address) (*types.Snapshot, error) {
	balance, err := s.token.BalanceOf(ctx, account)
	if err != nil {
		return nil, fmt.Errorf("balance: %w", err)
	}
	allowance, err := s.token.Allowance(ctx, account, s.staking.Address())
	if err != nil {
		return nil, fmt.Errorf("allowance: %w", err)
	}
	position, err := s.staking.GetUserStake(ctx, account)
	if err != nil {
		return nil, fmt.Errorf("position: %w", err)
	}
	minStake, err := s.staking.MinStakeAmount(ctx)
	if err != nil {
		return nil, fmt.Errorf("min stake: %w", err)
	}
	maxStake, err := s.staking.MaxStakeAmount(ctx)
	if err != nil {
		return nil, fmt.Errorf("max stake: %w", err)
	}
	lockPeriod, err := s.staking.LockPeriod(ctx)
	if err != nil {
		return nil, fmt.Errorf("lock period: %w", err)
	}
	totalStaked, err := s.staking.TotalStaked(ctx)
	if err != nil {
		return nil, fmt.Errorf("total staked: %w", err)
	}

	return &types.Snapshot{
		Balance:   balance,
		Allowance: allowance,
		Position:  position,
		Bounds: types.Bounds{
			MinStake:    minStake,
			MaxStake:    maxStake,
			LockPeriod:  lockPeriod,
			TotalStaked: totalStaked,
		},
		UpdatedAt: s.now(),
	}, nil
}

// Tick recomputes the lock countdown from the current snapshot. It is
// pure local arithmetic and safe to call every second.
func (s *Session) Tick() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.snapshot == nil {
		s.timeLeft = types.TimeLeft{}
		return
	}
	s.timeLeft = CalculateTimeLeft(s.snapshot.Position.LockEndTime, s.now())
}

// RememberedAddress returns the account persisted by the last
// successful refresh, for reconnect hints across restarts.
func (s *Session) RememberedAddress() (common.Address, bool) {
	if s.store == nil {
		return common.Address{}, false
	}
	var hex string
	if !s.store.Get(securestore.LastConnectedAddressKey, &hex) {
		return common.Address{}, false
	}
	if !security.ValidateAddress(hex) {
		return common.Address{}, false
	}
	return common.HexToAddress(hex), true
}

// Forget drops the persisted account identity, e.g. on explicit
// disconnect.
func (s *Session) Forget() {
	if s.store != nil {
		s.store.Delete(securestore.LastConnectedAddressKey)
	}
}

func (s *Session) enter(op types.OperationKind) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if p, ok := s.phases[op]; ok && p != PhaseIdle {
		return false
	}
	s.phases[op] = PhaseValidating
	// Each attempt starts with a clean error slate; a stale failure
	// must not outlive the attempt that replaced it.
	delete(s.lastErr, op)
	return true
}

func (s *Session) exit(op types.OperationKind) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.phases[op] = PhaseIdle
}

func (s *Session) setPhase(op types.OperationKind, p Phase) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.phases[op] = p
}

func (s *Session) fail(op types.OperationKind, err error) error {
	s.mu.Lock()
	s.lastErr[op] = err
	s.mu.Unlock()
	if errors.Is(err, security.ErrNotConnected) && !s.backend.IsConnected() {
		// A dead wallet connection invalidates the remembered identity.
		s.Forget()
	}
	if s.metrics != nil && !errors.Is(err, security.ErrThrottled) {
		s.metrics.RecordFailed(string(op))
	}
	s.log.Warn("operation failed", logging.Operation(string(op)), logging.Err(err))
	logging.Audit(logging.AuditEvent{
		Operation: string(op),
		Actor:     s.backend.Address().Hex(),
		Target:    s.staking.Address().Hex(),
		Result:    "failure",
		Details:   err.Error(),
	})
	return err
}
