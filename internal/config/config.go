package config

import (
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config represents the complete controller configuration
type Config struct {
	Chain     ChainConfig     `yaml:"chain"`
	Contracts ContractsConfig `yaml:"contracts"`
	Wallet    WalletConfig    `yaml:"wallet"`
	Token     TokenConfig     `yaml:"token"`
	Safety    SafetyConfig    `yaml:"safety"`
	Sync      SyncConfig      `yaml:"sync"`
	Log       LogConfig       `yaml:"log"`
	Metrics   MetricsConfig   `yaml:"metrics"`
	Store     StoreConfig     `yaml:"store"`
}

// ChainConfig contains RPC endpoint settings
type ChainConfig struct {
	RPCURL             string `yaml:"rpc_url"`
	ChainID            int64  `yaml:"chain_id"`
	BlockConfirmations uint64 `yaml:"block_confirmations"`
	MaxGasPriceGwei    int64  `yaml:"max_gas_price_gwei"`

	// RPC client-side rate limiting
	RPCRequestsPerSec float64 `yaml:"rpc_requests_per_sec"`
	RPCBurst          int     `yaml:"rpc_burst"`
}

// ContractsConfig contains the deployed contract addresses
type ContractsConfig struct {
	TokenAddress   string `yaml:"token_address"`
	StakingAddress string `yaml:"staking_address"`
}

// WalletConfig contains signing key settings
type WalletConfig struct {
	KeyFile      string `yaml:"key_file"`      // Path to encrypted keystore file
	PasswordFile string `yaml:"password_file"` // Path to file containing keystore password
}

// TokenConfig describes the staked asset
type TokenConfig struct {
	Symbol   string `yaml:"symbol"`
	Decimals int    `yaml:"decimals"`
}

// SafetyConfig contains the transaction-safety tunables
type SafetyConfig struct {
	ThrottleCooldownMs int `yaml:"throttle_cooldown_ms"` // Min gap between writes per account+operation (default: 2000)
}

// SyncConfig contains the state refresh tunables
type SyncConfig struct {
	RefreshIntervalSecs   int `yaml:"refresh_interval_secs"`   // Full on-chain snapshot cadence (default: 10)
	CountdownIntervalSecs int `yaml:"countdown_interval_secs"` // Lock countdown recompute cadence (default: 1)
}

// LogConfig contains logging settings
type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"` // "json" or "text"
}

// MetricsConfig contains the Prometheus endpoint settings
type MetricsConfig struct {
	Enabled    bool   `yaml:"enabled"`
	ListenAddr string `yaml:"listen_addr"`
}

// StoreConfig locates the obfuscated local session store
type StoreConfig struct {
	Path string `yaml:"path"`
}

// DefaultConfig returns a configuration with sane defaults for BSC mainnet
func DefaultConfig() *Config {
	homeDir, _ := os.UserHomeDir()
	dataDir := filepath.Join(homeDir, ".stakectl")

	return &Config{
		Chain: ChainConfig{
			RPCURL:             "https://bsc-dataseed.binance.org",
			ChainID:            56,
			BlockConfirmations: 3,
			MaxGasPriceGwei:    20,
			RPCRequestsPerSec:  10,
			RPCBurst:           20,
		},
		Wallet: WalletConfig{
			KeyFile:      filepath.Join(dataDir, "keystore.json"),
			PasswordFile: filepath.Join(dataDir, "password"),
		},
		Token: TokenConfig{
			Symbol:   "SORAYIA",
			Decimals: 18,
		},
		Safety: SafetyConfig{
			ThrottleCooldownMs: 2000,
		},
		Sync: SyncConfig{
			RefreshIntervalSecs:   10,
			CountdownIntervalSecs: 1,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
		Metrics: MetricsConfig{
			Enabled:    false,
			ListenAddr: "127.0.0.1:9464",
		},
		Store: StoreConfig{
			Path: filepath.Join(dataDir, "session.json"),
		},
	}
}

// Load loads configuration from file
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()
	path = expandPath(path)

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	cfg.expandPaths()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// Save saves configuration to file
func (c *Config) Save(path string) error {
	path = expandPath(path)

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	// Chain validation
	if c.Chain.RPCURL == "" {
		return fmt.Errorf("rpc_url is required")
	}
	if c.Chain.ChainID <= 0 {
		return fmt.Errorf("invalid chain_id: %d", c.Chain.ChainID)
	}
	if c.Chain.MaxGasPriceGwei <= 0 {
		return fmt.Errorf("max_gas_price_gwei must be positive, got %d", c.Chain.MaxGasPriceGwei)
	}
	if c.Chain.RPCRequestsPerSec <= 0 {
		return fmt.Errorf("rpc_requests_per_sec must be positive")
	}

	// Contract address validation
	if err := validateEthAddress("token_address", c.Contracts.TokenAddress); err != nil {
		return err
	}
	if err := validateEthAddress("staking_address", c.Contracts.StakingAddress); err != nil {
		return err
	}

	// Token validation
	if c.Token.Decimals < 0 || c.Token.Decimals > 18 {
		return fmt.Errorf("invalid decimals: %d", c.Token.Decimals)
	}

	// Safety validation
	if c.Safety.ThrottleCooldownMs < 0 {
		return fmt.Errorf("throttle_cooldown_ms must not be negative, got %d", c.Safety.ThrottleCooldownMs)
	}

	// Sync validation
	if c.Sync.RefreshIntervalSecs < 1 {
		return fmt.Errorf("refresh_interval_secs must be at least 1")
	}
	if c.Sync.CountdownIntervalSecs < 1 {
		return fmt.Errorf("countdown_interval_secs must be at least 1")
	}

	// Log validation
	switch c.Log.Format {
	case "json", "text":
	default:
		return fmt.Errorf("invalid log format: %s", c.Log.Format)
	}

	return nil
}

// validateEthAddress checks that an Ethereum address is 0x-prefixed, 40 hex chars, and non-zero.
func validateEthAddress(name, addr string) error {
	if addr == "" {
		return fmt.Errorf("%s is required", name)
	}
	if !strings.HasPrefix(addr, "0x") && !strings.HasPrefix(addr, "0X") {
		return fmt.Errorf("%s must start with 0x, got %q", name, addr)
	}
	hexPart := addr[2:]
	if len(hexPart) != 40 {
		return fmt.Errorf("%s must be 42 characters (0x + 40 hex), got %d", name, len(addr))
	}
	if _, err := hex.DecodeString(hexPart); err != nil {
		return fmt.Errorf("%s contains invalid hex characters: %w", name, err)
	}
	allZero := true
	for _, c := range hexPart {
		if c != '0' {
			allZero = false
			break
		}
	}
	if allZero {
		return fmt.Errorf("%s must not be the zero address", name)
	}
	return nil
}

// expandPaths expands ~ in all path fields
func (c *Config) expandPaths() {
	c.Wallet.KeyFile = expandPath(c.Wallet.KeyFile)
	c.Wallet.PasswordFile = expandPath(c.Wallet.PasswordFile)
	c.Store.Path = expandPath(c.Store.Path)
}

// expandPath expands ~ to home directory
func expandPath(path string) string {
	if strings.HasPrefix(path, "~/") {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return path
		}
		return filepath.Join(homeDir, path[2:])
	}
	return path
}

// DefaultConfigPath returns the default config file path
func DefaultConfigPath() string {
	homeDir, _ := os.UserHomeDir()
	return filepath.Join(homeDir, ".stakectl", "config.yaml")
}
