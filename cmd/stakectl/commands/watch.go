package commands

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/sorayia-labs/stakectl/internal/config"
	"github.com/sorayia-labs/stakectl/internal/logging"
	"github.com/sorayia-labs/stakectl/internal/staking"
	"github.com/sorayia-labs/stakectl/internal/util"
)

// NewWatchCmd creates the continuous sync command.
func NewWatchCmd() *cobra.Command {
	var interval time.Duration

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Continuously sync and display the staking position",
		Long:  "Keep the on-chain snapshot fresh, tick the lock countdown every second and print the position on each refresh. Reloads tunables when the config file changes. Ctrl-C to stop.",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWatch(cmd, interval)
		},
	}
	cmd.Flags().DurationVar(&interval, "interval", 0, "Refresh interval (default: from config)")
	return cmd
}

func runWatch(cmd *cobra.Command, interval time.Duration) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	env, err := openSession(ctx)
	if err != nil {
		return err
	}
	defer env.Close()

	if interval <= 0 {
		interval = time.Duration(env.cfg.Sync.RefreshIntervalSecs) * time.Second
	}
	countdown := time.Duration(env.cfg.Sync.CountdownIntervalSecs) * time.Second

	sy := staking.NewSynchronizer(env.session, interval, countdown)
	sy.Start(ctx)
	defer sy.Close()

	if env.cfg.Metrics.Enabled {
		startMetricsServer(ctx, env)
	}

	// Cooldown changes apply without restarting in-flight sessions.
	util.SafeGoWithName("config-watch", func() {
		err := config.Watch(ctx, configPath(), func(cfg *config.Config) {
			env.throttle.SetCooldown(time.Duration(cfg.Safety.ThrottleCooldownMs) * time.Millisecond)
		})
		if err != nil && !errors.Is(err, context.Canceled) {
			logging.Warn("config watch stopped", logging.Err(err))
		}
	})

	if remembered, ok := env.session.RememberedAddress(); ok && remembered != env.session.Address() {
		Warning(fmt.Sprintf("keystore account differs from last session (%s)", FormatAddress(remembered.Hex())))
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	printPosition(env)
	for {
		select {
		case <-ctx.Done():
			fmt.Println()
			Info("stopped")
			return nil
		case <-ticker.C:
			printPosition(env)

			// A snapshot stale for several cycles means the RPC session
			// dropped; re-dial, and drop the stored identity if the
			// endpoint stays unreachable.
			if snap := env.session.Snapshot(); snap != nil && time.Since(snap.UpdatedAt) > 3*interval {
				Warning("state is stale, reconnecting")
				if err := env.client.Reconnect(ctx); err != nil {
					env.session.Forget()
					return err
				}
			}
		}
	}
}

func printPosition(env *runtimeEnv) {
	snap := env.session.Snapshot()
	if snap == nil {
		Warning("no on-chain state yet")
		return
	}
	decimals := env.session.Decimals()
	fmt.Printf("%s  balance %s  staked %s  rewards %s  lock %s\n",
		snap.UpdatedAt.Format("15:04:05"),
		FormatToken(snap.Balance, decimals),
		FormatToken(snap.Position.StakedAmount, decimals),
		FormatToken(snap.Position.PendingRewards, decimals),
		FormatTimeLeft(env.session.TimeLeft()),
	)
}

func startMetricsServer(ctx context.Context, env *runtimeEnv) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", env.metrics.Handler())
	srv := &http.Server{
		Addr:              env.cfg.Metrics.ListenAddr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	util.SafeGoWithName("metrics-server", func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logging.Warn("metrics server stopped", logging.Err(err))
		}
	})
	util.SafeGoWithName("metrics-shutdown", func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	})

	logging.Info("metrics endpoint listening", "addr", env.cfg.Metrics.ListenAddr)
}
