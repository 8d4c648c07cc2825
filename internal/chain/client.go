package chain

import (
	"context"
	"crypto/ecdsa"
	"fmt"
	"math/big"
	"sync"
	"time"

	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	ethtypes "github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/ethclient"
	"golang.org/x/time/rate"

	"github.com/sorayia-labs/stakectl/internal/logging"
	"github.com/sorayia-labs/stakectl/internal/util"
)

// ClientConfig holds configuration for the BSC network client
type ClientConfig struct {
	RPCURL             string
	ChainID            int64
	BlockConfirmations int
	MaxGasPrice        *big.Int
	RetryConfig        *util.RetryConfig

	// RPC request smoothing; public BSC endpoints rate-limit aggressively.
	RPCRequestsPerSec float64
	RPCBurst          int
}

// DefaultClientConfig returns sensible defaults for BSC mainnet
func DefaultClientConfig() *ClientConfig {
	return &ClientConfig{
		RPCURL:             "https://bsc-dataseed.binance.org",
		ChainID:            56, // BSC mainnet
		BlockConfirmations: 3,
		MaxGasPrice:        big.NewInt(20e9), // 20 gwei max
		RetryConfig:        util.DefaultRetryConfig(),
		RPCRequestsPerSec:  10,
		RPCBurst:           20,
	}
}

// Client provides access to the BSC network for the staking controller.
// It owns the signing key, nonce management, and the confirmation wait.
type Client struct {
	config     *ClientConfig
	client     *ethclient.Client
	privateKey *ecdsa.PrivateKey
	address    common.Address
	chainID    *big.Int
	limiter    *rate.Limiter

	// Nonce management
	nonceMu      sync.Mutex
	pendingNonce uint64

	// Connection state
	connected bool
	mu        sync.RWMutex
}

// NewClient creates a new BSC network client. privateKey may be nil for
// read-only use.
func NewClient(config *ClientConfig, privateKey *ecdsa.PrivateKey) *Client {
	if config == nil {
		config = DefaultClientConfig()
	}

	c := &Client{
		config:     config,
		privateKey: privateKey,
		chainID:    big.NewInt(config.ChainID),
		limiter:    rate.NewLimiter(rate.Limit(config.RPCRequestsPerSec), config.RPCBurst),
	}

	if privateKey != nil {
		c.address = crypto.PubkeyToAddress(privateKey.PublicKey)
	}

	return c
}

// Connect dials the RPC endpoint and verifies the chain identity.
func (c *Client) Connect(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	client, result := util.RetryWithValue(ctx, c.config.RetryConfig, func() (*ethclient.Client, error) {
		return ethclient.DialContext(ctx, c.config.RPCURL)
	})
	if result.LastError != nil {
		return fmt.Errorf("failed to connect to BSC RPC: %w", result.LastError)
	}
	c.client = client

	chainID, err := client.ChainID(ctx)
	if err != nil {
		return fmt.Errorf("failed to get chain ID: %w", err)
	}
	if chainID.Cmp(c.chainID) != 0 {
		return fmt.Errorf("chain ID mismatch: expected %d, got %d", c.chainID, chainID)
	}

	if c.privateKey != nil {
		nonce, err := client.PendingNonceAt(ctx, c.address)
		if err != nil {
			return fmt.Errorf("failed to get nonce: %w", err)
		}
		c.pendingNonce = nonce
	}

	c.connected = true
	logging.Info("connected to BSC", logging.ChainID(c.config.ChainID), logging.Account(c.address.Hex()))
	return nil
}

// MaxReconnectAttempts bounds automatic reconnection after a dropped
// session before the stored identity is considered stale.
const MaxReconnectAttempts = 3

// Reconnect tears down the current connection and re-dials, giving up
// after MaxReconnectAttempts.
func (c *Client) Reconnect(ctx context.Context) error {
	var lastErr error
	for attempt := 1; attempt <= MaxReconnectAttempts; attempt++ {
		c.Close()
		if err := c.Connect(ctx); err != nil {
			lastErr = err
			logging.Warn("reconnect attempt failed", "attempt", attempt, logging.Err(err))
			continue
		}
		return nil
	}
	return fmt.Errorf("giving up after %d reconnect attempts: %w", MaxReconnectAttempts, lastErr)
}

// Close closes the connection
func (c *Client) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.client != nil {
		c.client.Close()
		c.client = nil
	}
	c.connected = false
}

// IsConnected returns true if connected to the network
func (c *Client) IsConnected() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.connected
}

// Address returns the wallet address
func (c *Client) Address() common.Address {
	return c.address
}

// ExpectedChainID returns the chain ID the client was configured for.
func (c *Client) ExpectedChainID() *big.Int {
	return new(big.Int).Set(c.chainID)
}

// ChainID queries the live chain identity of the connection. The result
// is intentionally never cached: network validation must observe a chain
// switch that happens between calls.
func (c *Client) ChainID(ctx context.Context) (*big.Int, error) {
	c.mu.RLock()
	client := c.client
	c.mu.RUnlock()

	if client == nil {
		return nil, fmt.Errorf("not connected")
	}
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}
	return client.ChainID(ctx)
}

// Backend returns the underlying bind backend for contract construction.
func (c *Client) Backend() *ethclient.Client {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.client
}

// WaitRPC blocks until the RPC rate limiter admits another request.
func (c *Client) WaitRPC(ctx context.Context) error {
	return c.limiter.Wait(ctx)
}

// GetTransactOpts creates transaction options for signing
func (c *Client) GetTransactOpts(ctx context.Context) (*bind.TransactOpts, error) {
	if c.privateKey == nil {
		return nil, fmt.Errorf("no private key configured")
	}

	c.mu.RLock()
	client := c.client
	c.mu.RUnlock()

	if client == nil {
		return nil, fmt.Errorf("not connected")
	}

	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}
	gasPrice, err := client.SuggestGasPrice(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get gas price: %w", err)
	}

	if c.config.MaxGasPrice != nil && gasPrice.Cmp(c.config.MaxGasPrice) > 0 {
		gasPrice = c.config.MaxGasPrice
	}

	auth, err := bind.NewKeyedTransactorWithChainID(c.privateKey, c.chainID)
	if err != nil {
		return nil, fmt.Errorf("failed to create transactor: %w", err)
	}

	auth.Context = ctx
	auth.GasPrice = gasPrice

	c.nonceMu.Lock()
	auth.Nonce = big.NewInt(int64(c.pendingNonce))
	c.pendingNonce++
	c.nonceMu.Unlock()

	return auth, nil
}

// WaitForTransaction waits for a transaction to be mined and confirmed.
// Once broadcast a transaction cannot be cancelled, only awaited; the
// context only abandons the wait, not the network effect.
func (c *Client) WaitForTransaction(ctx context.Context, tx *ethtypes.Transaction) (*ethtypes.Receipt, error) {
	c.mu.RLock()
	client := c.client
	c.mu.RUnlock()

	if client == nil {
		return nil, fmt.Errorf("not connected")
	}

	receipt, err := bind.WaitMined(ctx, client, tx)
	if err != nil {
		return nil, fmt.Errorf("failed waiting for transaction: %w", err)
	}

	if receipt.Status == ethtypes.ReceiptStatusFailed {
		return receipt, fmt.Errorf("transaction failed: %s", tx.Hash().Hex())
	}

	if c.config.BlockConfirmations > 0 {
		targetBlock := receipt.BlockNumber.Uint64() + uint64(c.config.BlockConfirmations)

		for {
			select {
			case <-ctx.Done():
				return receipt, ctx.Err()
			case <-time.After(2 * time.Second):
				currentBlock, err := client.BlockNumber(ctx)
				if err != nil {
					continue // Retry
				}
				if currentBlock >= targetBlock {
					return receipt, nil
				}
			}
		}
	}

	return receipt, nil
}

// SyncNonce synchronizes the nonce with the network
func (c *Client) SyncNonce(ctx context.Context) error {
	c.mu.RLock()
	client := c.client
	c.mu.RUnlock()

	if client == nil {
		return fmt.Errorf("not connected")
	}

	nonce, err := client.PendingNonceAt(ctx, c.address)
	if err != nil {
		return fmt.Errorf("failed to get nonce: %w", err)
	}

	c.nonceMu.Lock()
	c.pendingNonce = nonce
	c.nonceMu.Unlock()

	return nil
}
