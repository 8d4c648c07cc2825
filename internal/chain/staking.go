package chain

import (
	"context"
	"fmt"
	"math/big"
	"strings"
	"sync"
	"time"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	ethtypes "github.com/ethereum/go-ethereum/core/types"

	"github.com/sorayia-labs/stakectl/pkg/types"
)

// StakingContract provides the fixed typed interface to the SORAYIA
// staking contract: exactly the four writes (stake, withdraw,
// claimRewards, plus approve on the token side) and four parameter
// reads the controller needs. The contract's reward math and lock
// enforcement are opaque behind this surface.
type StakingContract struct {
	client       *Client
	contract     *bind.BoundContract
	contractABI  abi.ABI
	contractAddr common.Address
	mockMode     bool

	// Mock state
	mockMu       sync.RWMutex
	mockOwner    common.Address
	mockStakes   map[common.Address]*big.Int
	mockRewards  map[common.Address]*big.Int
	mockLockEnds map[common.Address]time.Time
	mockMin      *big.Int
	mockMax      *big.Int
	mockLock     time.Duration
	mockErr      error // forced failure for revert-path tests
}

// NewStakingContract creates a new staking contract client
func NewStakingContract(client *Client, contractAddr common.Address) (*StakingContract, error) {
	if client == nil {
		return nil, fmt.Errorf("client is required (use NewMockStakingContract for testing)")
	}
	if !client.IsConnected() {
		return nil, fmt.Errorf("client not connected to RPC")
	}

	sc := &StakingContract{
		client:       client,
		contractAddr: contractAddr,
	}

	parsedABI, err := abi.JSON(strings.NewReader(StakingABI))
	if err != nil {
		return nil, fmt.Errorf("failed to parse staking ABI: %w", err)
	}
	sc.contractABI = parsedABI

	backend := client.Backend()
	sc.contract = bind.NewBoundContract(contractAddr, parsedABI, backend, backend, backend)

	return sc, nil
}

// NewMockStakingContract creates a mock staking contract for testing
func NewMockStakingContract(contractAddr common.Address) *StakingContract {
	return &StakingContract{
		mockMode:     true,
		contractAddr: contractAddr,
		mockStakes:   make(map[common.Address]*big.Int),
		mockRewards:  make(map[common.Address]*big.Int),
		mockLockEnds: make(map[common.Address]time.Time),
		mockMin:      big.NewInt(0),
		mockMax:      big.NewInt(0),
		mockLock:     90 * 24 * time.Hour,
	}
}

// Address returns the staking contract address.
func (sc *StakingContract) Address() common.Address {
	return sc.contractAddr
}

// Stake submits a stake write for the given base-unit amount.
func (sc *StakingContract) Stake(ctx context.Context, amount *big.Int) (*ethtypes.Transaction, error) {
	if sc.mockMode {
		return sc.mockStake(amount)
	}
	return sc.transact(ctx, "stake", amount)
}

// Withdraw submits a withdraw write for the given base-unit amount.
func (sc *StakingContract) Withdraw(ctx context.Context, amount *big.Int) (*ethtypes.Transaction, error) {
	if sc.mockMode {
		return sc.mockWithdraw(amount)
	}
	return sc.transact(ctx, "withdraw", amount)
}

// ClaimRewards submits a claim write for all pending rewards.
func (sc *StakingContract) ClaimRewards(ctx context.Context) (*ethtypes.Transaction, error) {
	if sc.mockMode {
		return sc.mockClaim()
	}
	return sc.transact(ctx, "claimRewards")
}

func (sc *StakingContract) transact(ctx context.Context, method string, args ...interface{}) (*ethtypes.Transaction, error) {
	auth, err := sc.client.GetTransactOpts(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get transaction options: %w", err)
	}

	tx, err := sc.contract.Transact(auth, method, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to %s: %w", method, err)
	}
	return tx, nil
}

// GetUserStake returns the caller's position: staked amount, pending
// rewards, and lock end time.
func (sc *StakingContract) GetUserStake(ctx context.Context, account common.Address) (types.StakePosition, error) {
	if sc.mockMode {
		sc.mockMu.RLock()
		defer sc.mockMu.RUnlock()
		pos := types.StakePosition{
			StakedAmount:   big.NewInt(0),
			PendingRewards: big.NewInt(0),
		}
		if v, ok := sc.mockStakes[account]; ok {
			pos.StakedAmount = new(big.Int).Set(v)
		}
		if v, ok := sc.mockRewards[account]; ok {
			pos.PendingRewards = new(big.Int).Set(v)
		}
		pos.LockEndTime = sc.mockLockEnds[account]
		return pos, nil
	}

	if err := sc.client.WaitRPC(ctx); err != nil {
		return types.StakePosition{}, err
	}
	var result []interface{}
	err := sc.contract.Call(&bind.CallOpts{Context: ctx}, &result, "getUserStake", account)
	if err != nil {
		return types.StakePosition{}, fmt.Errorf("failed to get user stake: %w", err)
	}
	if len(result) < 3 {
		return types.StakePosition{}, fmt.Errorf("unexpected getUserStake result arity: %d", len(result))
	}

	pos := types.StakePosition{
		StakedAmount:   big.NewInt(0),
		PendingRewards: big.NewInt(0),
	}
	if v, ok := result[0].(*big.Int); ok && v != nil {
		pos.StakedAmount = v
	}
	if v, ok := result[1].(*big.Int); ok && v != nil {
		pos.PendingRewards = v
	}
	if v, ok := result[2].(*big.Int); ok && v != nil && v.Sign() > 0 {
		pos.LockEndTime = time.Unix(v.Int64(), 0)
	}
	return pos, nil
}

// MinStakeAmount returns the contract's minimum stake in base units.
func (sc *StakingContract) MinStakeAmount(ctx context.Context) (*big.Int, error) {
	if sc.mockMode {
		sc.mockMu.RLock()
		defer sc.mockMu.RUnlock()
		return new(big.Int).Set(sc.mockMin), nil
	}
	return sc.callUint(ctx, "minStakeAmount")
}

// MaxStakeAmount returns the contract's maximum stake in base units.
func (sc *StakingContract) MaxStakeAmount(ctx context.Context) (*big.Int, error) {
	if sc.mockMode {
		sc.mockMu.RLock()
		defer sc.mockMu.RUnlock()
		return new(big.Int).Set(sc.mockMax), nil
	}
	return sc.callUint(ctx, "maxStakeAmount")
}

// LockPeriod returns the contract's lock duration.
func (sc *StakingContract) LockPeriod(ctx context.Context) (time.Duration, error) {
	if sc.mockMode {
		sc.mockMu.RLock()
		defer sc.mockMu.RUnlock()
		return sc.mockLock, nil
	}
	secs, err := sc.callUint(ctx, "lockPeriod")
	if err != nil {
		return 0, err
	}
	return time.Duration(secs.Int64()) * time.Second, nil
}

// TotalStaked returns the total staked across all accounts.
func (sc *StakingContract) TotalStaked(ctx context.Context) (*big.Int, error) {
	if sc.mockMode {
		sc.mockMu.RLock()
		defer sc.mockMu.RUnlock()
		total := big.NewInt(0)
		for _, stake := range sc.mockStakes {
			total.Add(total, stake)
		}
		return total, nil
	}
	return sc.callUint(ctx, "totalStaked")
}

func (sc *StakingContract) callUint(ctx context.Context, method string) (*big.Int, error) {
	if err := sc.client.WaitRPC(ctx); err != nil {
		return nil, err
	}
	var result []interface{}
	err := sc.contract.Call(&bind.CallOpts{Context: ctx}, &result, method)
	if err != nil {
		return nil, fmt.Errorf("failed to call %s: %w", method, err)
	}
	return firstBigInt(result), nil
}

// ─── Mock behavior ───────────────────────────────────────────────────────────

func (sc *StakingContract) mockStake(amount *big.Int) (*ethtypes.Transaction, error) {
	sc.mockMu.Lock()
	defer sc.mockMu.Unlock()

	if sc.mockErr != nil {
		return nil, sc.mockErr
	}

	current, exists := sc.mockStakes[sc.mockOwner]
	if !exists {
		sc.mockStakes[sc.mockOwner] = new(big.Int).Set(amount)
	} else {
		sc.mockStakes[sc.mockOwner] = new(big.Int).Add(current, amount)
	}
	sc.mockLockEnds[sc.mockOwner] = time.Now().Add(sc.mockLock)

	return mockTx(sc.contractAddr), nil
}

func (sc *StakingContract) mockWithdraw(amount *big.Int) (*ethtypes.Transaction, error) {
	sc.mockMu.Lock()
	defer sc.mockMu.Unlock()

	if sc.mockErr != nil {
		return nil, sc.mockErr
	}

	current, exists := sc.mockStakes[sc.mockOwner]
	if !exists || current.Cmp(amount) < 0 {
		return nil, fmt.Errorf("execution reverted: insufficient stake")
	}
	sc.mockStakes[sc.mockOwner] = new(big.Int).Sub(current, amount)

	return mockTx(sc.contractAddr), nil
}

func (sc *StakingContract) mockClaim() (*ethtypes.Transaction, error) {
	sc.mockMu.Lock()
	defer sc.mockMu.Unlock()

	if sc.mockErr != nil {
		return nil, sc.mockErr
	}

	sc.mockRewards[sc.mockOwner] = big.NewInt(0)
	return mockTx(sc.contractAddr), nil
}

// SetMockOwner sets the address mock writes are attributed to.
func (sc *StakingContract) SetMockOwner(owner common.Address) {
	if !sc.mockMode {
		return
	}
	sc.mockMu.Lock()
	defer sc.mockMu.Unlock()
	sc.mockOwner = owner
}

// SetMockPosition seeds a staking position for testing.
func (sc *StakingContract) SetMockPosition(account common.Address, staked, rewards *big.Int, lockEnd time.Time) {
	if !sc.mockMode {
		return
	}
	sc.mockMu.Lock()
	defer sc.mockMu.Unlock()
	sc.mockStakes[account] = new(big.Int).Set(staked)
	sc.mockRewards[account] = new(big.Int).Set(rewards)
	sc.mockLockEnds[account] = lockEnd
}

// SetMockBounds seeds the contract parameters for testing.
func (sc *StakingContract) SetMockBounds(min, max *big.Int, lock time.Duration) {
	if !sc.mockMode {
		return
	}
	sc.mockMu.Lock()
	defer sc.mockMu.Unlock()
	sc.mockMin = new(big.Int).Set(min)
	sc.mockMax = new(big.Int).Set(max)
	sc.mockLock = lock
}

// SetMockError forces every mock write to fail, simulating a revert.
func (sc *StakingContract) SetMockError(err error) {
	if !sc.mockMode {
		return
	}
	sc.mockMu.Lock()
	defer sc.mockMu.Unlock()
	sc.mockErr = err
}
