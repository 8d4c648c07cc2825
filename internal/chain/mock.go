package chain

import (
	"context"
	"fmt"
	"math/big"
	"sync"

	"github.com/ethereum/go-ethereum/common"
	ethtypes "github.com/ethereum/go-ethereum/core/types"
)

// mockTx fabricates a well-formed transaction descriptor aimed at the
// contract so downstream shape validation behaves as it would against a
// live provider.
func mockTx(to common.Address) *ethtypes.Transaction {
	return ethtypes.NewTx(&ethtypes.LegacyTx{
		Nonce:    0,
		To:       &to,
		Value:    big.NewInt(0),
		Gas:      60000,
		GasPrice: big.NewInt(0),
	})
}

// MockClient is an in-memory stand-in for Client used by orchestrator
// tests. Chain identity and connection state are settable; confirmation
// waits succeed immediately.
type MockClient struct {
	mu        sync.RWMutex
	address   common.Address
	chainID   *big.Int
	connected bool
	waitErr   error
}

// NewMockClient creates a mock connection with the given account and
// chain identity.
func NewMockClient(address common.Address, chainID int64) *MockClient {
	return &MockClient{
		address:   address,
		chainID:   big.NewInt(chainID),
		connected: true,
	}
}

// ChainID returns the configured chain identity.
func (m *MockClient) ChainID(_ context.Context) (*big.Int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if !m.connected {
		return nil, fmt.Errorf("not connected")
	}
	return new(big.Int).Set(m.chainID), nil
}

// Address returns the mock account.
func (m *MockClient) Address() common.Address {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.address
}

// IsConnected reports the settable connection state.
func (m *MockClient) IsConnected() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.connected
}

// WaitForTransaction returns a successful receipt immediately, or the
// configured error.
func (m *MockClient) WaitForTransaction(_ context.Context, tx *ethtypes.Transaction) (*ethtypes.Receipt, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.waitErr != nil {
		return nil, m.waitErr
	}
	return &ethtypes.Receipt{
		Status:      ethtypes.ReceiptStatusSuccessful,
		TxHash:      tx.Hash(),
		BlockNumber: big.NewInt(1),
	}, nil
}

// SetConnected flips the connection state.
func (m *MockClient) SetConnected(connected bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.connected = connected
}

// SetChainID switches the reported chain identity, simulating the user
// changing networks in the wallet.
func (m *MockClient) SetChainID(id int64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.chainID = big.NewInt(id)
}

// SetWaitError forces confirmation waits to fail.
func (m *MockClient) SetWaitError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.waitErr = err
}
