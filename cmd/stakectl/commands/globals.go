package commands

import (
	"context"
	"fmt"
	"log/slog"
	"math/big"
	"os"
	"runtime"
	"runtime/debug"
	"time"

	"github.com/ethereum/go-ethereum/common"

	"github.com/sorayia-labs/stakectl/internal/chain"
	"github.com/sorayia-labs/stakectl/internal/config"
	"github.com/sorayia-labs/stakectl/internal/logging"
	"github.com/sorayia-labs/stakectl/internal/metrics"
	"github.com/sorayia-labs/stakectl/internal/securestore"
	"github.com/sorayia-labs/stakectl/internal/security"
	"github.com/sorayia-labs/stakectl/internal/staking"
)

// ConfigPath is the --config flag value; empty means the default path.
var ConfigPath string

// runtimeEnv bundles everything a command needs once the chain
// connection is up.
type runtimeEnv struct {
	cfg      *config.Config
	client   *chain.Client
	session  *staking.Session
	metrics  *metrics.Collector
	throttle *security.ThrottleRegistry
}

func (r *runtimeEnv) Close() {
	if r.client != nil {
		r.client.Close()
	}
}

func configPath() string {
	if ConfigPath != "" {
		return ConfigPath
	}
	return config.DefaultConfigPath()
}

func loadConfig() (*config.Config, error) {
	return config.Load(configPath())
}

func setupLogging(cfg *config.Config) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(cfg.Log.Level)); err != nil {
		level = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{Level: level}
	var handler slog.Handler
	if cfg.Log.Format == "text" {
		handler = slog.NewTextHandler(os.Stderr, opts)
	} else {
		handler = slog.NewJSONHandler(os.Stderr, opts)
	}
	logging.SetLogger(slog.New(logging.NewRedactingHandler(handler)))
}

// openSession loads config, connects to the RPC endpoint, decrypts the
// wallet key and wires up the staking session. Callers must Close the
// returned environment.
func openSession(ctx context.Context) (*runtimeEnv, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	setupLogging(cfg)

	key, err := chain.LoadPrivateKey(cfg.Wallet.KeyFile, cfg.Wallet.PasswordFile)
	if err != nil {
		// A wallet failure invalidates the remembered identity.
		securestore.Open(cfg.Store.Path).Delete(securestore.LastConnectedAddressKey)
		return nil, fmt.Errorf("failed to load wallet: %w", err)
	}

	client := chain.NewClient(&chain.ClientConfig{
		RPCURL:             cfg.Chain.RPCURL,
		ChainID:            cfg.Chain.ChainID,
		BlockConfirmations: int(cfg.Chain.BlockConfirmations),
		MaxGasPrice:        new(big.Int).Mul(big.NewInt(cfg.Chain.MaxGasPriceGwei), big.NewInt(1e9)),
		RPCRequestsPerSec:  cfg.Chain.RPCRequestsPerSec,
		RPCBurst:           cfg.Chain.RPCBurst,
	}, key)
	if err := client.Connect(ctx); err != nil {
		return nil, fmt.Errorf("failed to connect to %s: %w", cfg.Chain.RPCURL, err)
	}

	token, err := chain.NewTokenContract(client, common.HexToAddress(cfg.Contracts.TokenAddress))
	if err != nil {
		client.Close()
		return nil, err
	}
	stakingC, err := chain.NewStakingContract(client, common.HexToAddress(cfg.Contracts.StakingAddress))
	if err != nil {
		client.Close()
		return nil, err
	}

	collector := metrics.NewCollector()
	throttle := security.NewThrottleRegistry(time.Duration(cfg.Safety.ThrottleCooldownMs) * time.Millisecond)
	session, err := staking.NewSession(staking.Options{
		Backend:         client,
		Token:           token,
		Staking:         stakingC,
		ExpectedChainID: cfg.Chain.ChainID,
		Decimals:        cfg.Token.Decimals,
		Throttle:        throttle,
		Store:           securestore.Open(cfg.Store.Path),
		Metrics:         collector,
	})
	if err != nil {
		client.Close()
		return nil, err
	}

	return &runtimeEnv{cfg: cfg, client: client, session: session, metrics: collector, throttle: throttle}, nil
}

// Version information (set at build time)
var (
	Version   = "dev"
	Commit    = "unknown"
	BuildDate = "unknown"
)

// GetVersion returns the version string
func GetVersion() string {
	if Version != "dev" {
		return Version
	}
	if info, ok := debug.ReadBuildInfo(); ok {
		if info.Main.Version != "" && info.Main.Version != "(devel)" {
			return info.Main.Version
		}
	}
	return "dev"
}

// GetCommit returns the git commit
func GetCommit() string {
	if Commit != "unknown" {
		return Commit
	}
	if info, ok := debug.ReadBuildInfo(); ok {
		for _, setting := range info.Settings {
			if setting.Key == "vcs.revision" {
				if len(setting.Value) > 8 {
					return setting.Value[:8]
				}
				return setting.Value
			}
		}
	}
	return "unknown"
}

// GetGoVersion returns the Go version
func GetGoVersion() string {
	return runtime.Version()
}
