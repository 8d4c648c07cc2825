package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const validAddr = "0x1234567890abcdef1234567890abcdef12345678"

func validConfig() *Config {
	cfg := DefaultConfig()
	cfg.Contracts.TokenAddress = validAddr
	cfg.Contracts.StakingAddress = validAddr
	return cfg
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Chain.ChainID != 56 {
		t.Errorf("default chain_id should be 56, got %d", cfg.Chain.ChainID)
	}
	if cfg.Token.Decimals != 18 {
		t.Errorf("default decimals should be 18, got %d", cfg.Token.Decimals)
	}
	if cfg.Safety.ThrottleCooldownMs != 2000 {
		t.Errorf("default throttle cooldown should be 2000ms, got %d", cfg.Safety.ThrottleCooldownMs)
	}
	if cfg.Sync.RefreshIntervalSecs != 10 {
		t.Errorf("default refresh interval should be 10s, got %d", cfg.Sync.RefreshIntervalSecs)
	}
	if cfg.Sync.CountdownIntervalSecs != 1 {
		t.Errorf("default countdown interval should be 1s, got %d", cfg.Sync.CountdownIntervalSecs)
	}
}

func TestLoad_MissingFileReturnsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "does-not-exist.yaml"))
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Chain.ChainID != 56 {
		t.Errorf("expected defaults, got chain_id %d", cfg.Chain.ChainID)
	}
}

func TestLoadSaveRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")

	cfg := validConfig()
	cfg.Chain.RPCURL = "https://example.invalid/rpc"
	cfg.Safety.ThrottleCooldownMs = 5000
	if err := cfg.Save(path); err != nil {
		t.Fatal(err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if loaded.Chain.RPCURL != "https://example.invalid/rpc" {
		t.Errorf("rpc_url not preserved: %s", loaded.Chain.RPCURL)
	}
	if loaded.Safety.ThrottleCooldownMs != 5000 {
		t.Errorf("cooldown not preserved: %d", loaded.Safety.ThrottleCooldownMs)
	}
}

func TestLoad_PartialFileKeepsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	partial := "contracts:\n  token_address: " + validAddr + "\n  staking_address: " + validAddr + "\nlog:\n  level: debug\n"
	if err := os.WriteFile(path, []byte(partial), 0600); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Log.Level != "debug" {
		t.Errorf("expected overridden level, got %s", cfg.Log.Level)
	}
	if cfg.Chain.ChainID != 56 {
		t.Errorf("unset fields should keep defaults, got chain_id %d", cfg.Chain.ChainID)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"valid", func(c *Config) {}, ""},
		{"missing rpc url", func(c *Config) { c.Chain.RPCURL = "" }, "rpc_url"},
		{"zero chain id", func(c *Config) { c.Chain.ChainID = 0 }, "chain_id"},
		{"missing token address", func(c *Config) { c.Contracts.TokenAddress = "" }, "token_address"},
		{"short staking address", func(c *Config) { c.Contracts.StakingAddress = "0x1234" }, "staking_address"},
		{"zero staking address", func(c *Config) {
			c.Contracts.StakingAddress = "0x0000000000000000000000000000000000000000"
		}, "zero address"},
		{"bad hex", func(c *Config) {
			c.Contracts.TokenAddress = "0xZZ34567890abcdef1234567890abcdef12345678"
		}, "invalid hex"},
		{"negative cooldown", func(c *Config) { c.Safety.ThrottleCooldownMs = -1 }, "throttle_cooldown_ms"},
		{"zero refresh", func(c *Config) { c.Sync.RefreshIntervalSecs = 0 }, "refresh_interval_secs"},
		{"bad decimals", func(c *Config) { c.Token.Decimals = 19 }, "decimals"},
		{"bad log format", func(c *Config) { c.Log.Format = "xml" }, "log format"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Fatalf("expected error containing %q, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestLoad_RejectsInvalidFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	bad := "chain:\n  chain_id: -5\n"
	if err := os.WriteFile(path, []byte(bad), 0600); err != nil {
		t.Fatal(err)
	}

	if _, err := Load(path); err == nil {
		t.Error("expected validation failure")
	}
}
