package chain

import (
	"context"
	"fmt"
	"math/big"
	"strings"
	"sync"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	ethtypes "github.com/ethereum/go-ethereum/core/types"
)

// TokenContract provides the narrow interface to the SORAYIA ERC-20
// token contract: balance and allowance reads, and the approval write.
type TokenContract struct {
	client       *Client
	contract     *bind.BoundContract
	contractABI  abi.ABI
	contractAddr common.Address
	mockMode     bool

	// Mock state
	mockOwner      common.Address
	mockBalances   map[common.Address]*big.Int
	mockAllowances map[common.Address]map[common.Address]*big.Int
	mockMu         sync.RWMutex
}

// NewTokenContract creates a new token contract client
func NewTokenContract(client *Client, contractAddr common.Address) (*TokenContract, error) {
	if client == nil {
		return nil, fmt.Errorf("client is required (use NewMockTokenContract for testing)")
	}
	if !client.IsConnected() {
		return nil, fmt.Errorf("client not connected to RPC")
	}

	tc := &TokenContract{
		client:       client,
		contractAddr: contractAddr,
	}

	parsedABI, err := abi.JSON(strings.NewReader(ERC20ABI))
	if err != nil {
		return nil, fmt.Errorf("failed to parse token ABI: %w", err)
	}
	tc.contractABI = parsedABI

	backend := client.Backend()
	tc.contract = bind.NewBoundContract(contractAddr, parsedABI, backend, backend, backend)

	return tc, nil
}

// NewMockTokenContract creates a mock token contract for testing
func NewMockTokenContract(contractAddr common.Address) *TokenContract {
	return &TokenContract{
		mockMode:       true,
		contractAddr:   contractAddr,
		mockBalances:   make(map[common.Address]*big.Int),
		mockAllowances: make(map[common.Address]map[common.Address]*big.Int),
	}
}

// Address returns the token contract address.
func (tc *TokenContract) Address() common.Address {
	return tc.contractAddr
}

// BalanceOf returns the token balance for an address
func (tc *TokenContract) BalanceOf(ctx context.Context, account common.Address) (*big.Int, error) {
	if tc.mockMode {
		tc.mockMu.RLock()
		defer tc.mockMu.RUnlock()
		balance, exists := tc.mockBalances[account]
		if !exists {
			return big.NewInt(0), nil
		}
		return new(big.Int).Set(balance), nil
	}

	if err := tc.client.WaitRPC(ctx); err != nil {
		return nil, err
	}
	var result []interface{}
	err := tc.contract.Call(&bind.CallOpts{Context: ctx}, &result, "balanceOf", account)
	if err != nil {
		return nil, fmt.Errorf("failed to get balance: %w", err)
	}

	return firstBigInt(result), nil
}

// Allowance returns the amount the spender may pull from owner's balance
func (tc *TokenContract) Allowance(ctx context.Context, owner, spender common.Address) (*big.Int, error) {
	if tc.mockMode {
		tc.mockMu.RLock()
		defer tc.mockMu.RUnlock()
		if ownerAllowances, exists := tc.mockAllowances[owner]; exists {
			if allowance, ok := ownerAllowances[spender]; ok {
				return new(big.Int).Set(allowance), nil
			}
		}
		return big.NewInt(0), nil
	}

	if err := tc.client.WaitRPC(ctx); err != nil {
		return nil, err
	}
	var result []interface{}
	err := tc.contract.Call(&bind.CallOpts{Context: ctx}, &result, "allowance", owner, spender)
	if err != nil {
		return nil, fmt.Errorf("failed to get allowance: %w", err)
	}

	return firstBigInt(result), nil
}

// Approve approves a spender to spend tokens
func (tc *TokenContract) Approve(ctx context.Context, spender common.Address, amount *big.Int) (*ethtypes.Transaction, error) {
	if tc.mockMode {
		return tc.mockApprove(ctx, spender, amount)
	}

	auth, err := tc.client.GetTransactOpts(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get transaction options: %w", err)
	}

	tx, err := tc.contract.Transact(auth, "approve", spender, amount)
	if err != nil {
		return nil, fmt.Errorf("failed to approve: %w", err)
	}

	return tx, nil
}

// mockApprove handles approval in mock mode
func (tc *TokenContract) mockApprove(_ context.Context, spender common.Address, amount *big.Int) (*ethtypes.Transaction, error) {
	tc.mockMu.Lock()
	defer tc.mockMu.Unlock()

	owner := tc.mockOwner
	if _, exists := tc.mockAllowances[owner]; !exists {
		tc.mockAllowances[owner] = make(map[common.Address]*big.Int)
	}
	tc.mockAllowances[owner][spender] = new(big.Int).Set(amount)

	return mockTx(tc.contractAddr), nil
}

// SetMockBalance sets a mock balance for testing
func (tc *TokenContract) SetMockBalance(account common.Address, amount *big.Int) {
	if !tc.mockMode {
		return
	}
	tc.mockMu.Lock()
	defer tc.mockMu.Unlock()
	tc.mockBalances[account] = new(big.Int).Set(amount)
}

// SetMockAllowance sets a mock allowance for testing
func (tc *TokenContract) SetMockAllowance(owner, spender common.Address, amount *big.Int) {
	if !tc.mockMode {
		return
	}
	tc.mockMu.Lock()
	defer tc.mockMu.Unlock()
	if _, exists := tc.mockAllowances[owner]; !exists {
		tc.mockAllowances[owner] = make(map[common.Address]*big.Int)
	}
	tc.mockAllowances[owner][spender] = new(big.Int).Set(amount)
}

// SetMockOwner sets the address mock approvals are attributed to.
func (tc *TokenContract) SetMockOwner(owner common.Address) {
	if !tc.mockMode {
		return
	}
	tc.mockMu.Lock()
	defer tc.mockMu.Unlock()
	tc.mockOwner = owner
}

// firstBigInt extracts the single uint256 return of a contract call.
func firstBigInt(result []interface{}) *big.Int {
	if len(result) == 0 {
		return big.NewInt(0)
	}
	if v, ok := result[0].(*big.Int); ok && v != nil {
		return v
	}
	return big.NewInt(0)
}
