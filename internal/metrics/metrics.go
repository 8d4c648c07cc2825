package metrics

import (
	"math/big"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Collector tracks staking operation outcomes and the synchronized
// on-chain position. Metrics are registered in a dedicated registry so
// they do not interfere with the default global registry.
type Collector struct {
	registry *prometheus.Registry

	opsSubmitted  *prometheus.CounterVec
	opsConfirmed  *prometheus.CounterVec
	opsFailed     *prometheus.CounterVec
	opDuration    *prometheus.HistogramVec
	throttleDrops *prometheus.CounterVec

	refreshTotal  prometheus.Counter
	refreshFailed prometheus.Counter

	stakedTokens      prometheus.Gauge
	pendingRewards    prometheus.Gauge
	unlockSeconds     prometheus.Gauge
	lastRefreshUnixTS prometheus.Gauge
}

// NewCollector creates a collector with all staking metrics registered.
func NewCollector() *Collector {
	reg := prometheus.NewRegistry()

	opsSubmitted := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "stakectl",
		Name:      "operations_submitted_total",
		Help:      "Transactions submitted to the chain by operation.",
	}, []string{"operation"})

	opsConfirmed := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "stakectl",
		Name:      "operations_confirmed_total",
		Help:      "Transactions confirmed on chain by operation.",
	}, []string{"operation"})

	opsFailed := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "stakectl",
		Name:      "operations_failed_total",
		Help:      "Operations that ended in error by operation.",
	}, []string{"operation"})

	opDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "stakectl",
		Name:      "operation_duration_seconds",
		Help:      "End-to-end operation latency from validation to confirmation.",
		Buckets:   []float64{0.5, 1, 2.5, 5, 10, 30, 60, 120},
	}, []string{"operation"})

	throttleDrops := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "stakectl",
		Name:      "throttle_rejections_total",
		Help:      "Operation attempts rejected by the per-account cooldown.",
	}, []string{"operation"})

	refreshTotal := prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "stakectl",
		Name:      "refresh_total",
		Help:      "On-chain snapshot refresh attempts.",
	})

	refreshFailed := prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "stakectl",
		Name:      "refresh_failed_total",
		Help:      "Snapshot refreshes that failed and kept the previous state.",
	})

	stakedTokens := prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "stakectl",
		Name:      "staked_tokens",
		Help:      "Currently staked amount in whole tokens.",
	})

	pendingRewards := prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "stakectl",
		Name:      "pending_reward_tokens",
		Help:      "Claimable rewards in whole tokens.",
	})

	unlockSeconds := prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "stakectl",
		Name:      "unlock_seconds",
		Help:      "Seconds until the stake lock expires, zero when unlocked.",
	})

	lastRefresh := prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "stakectl",
		Name:      "last_refresh_timestamp_seconds",
		Help:      "Unix time of the last successful snapshot refresh.",
	})

	reg.MustRegister(opsSubmitted)
	reg.MustRegister(opsConfirmed)
	reg.MustRegister(opsFailed)
	reg.MustRegister(opDuration)
	reg.MustRegister(throttleDrops)
	reg.MustRegister(refreshTotal)
	reg.MustRegister(refreshFailed)
	reg.MustRegister(stakedTokens)
	reg.MustRegister(pendingRewards)
	reg.MustRegister(unlockSeconds)
	reg.MustRegister(lastRefresh)

	return &Collector{
		registry:          reg,
		opsSubmitted:      opsSubmitted,
		opsConfirmed:      opsConfirmed,
		opsFailed:         opsFailed,
		opDuration:        opDuration,
		throttleDrops:     throttleDrops,
		refreshTotal:      refreshTotal,
		refreshFailed:     refreshFailed,
		stakedTokens:      stakedTokens,
		pendingRewards:    pendingRewards,
		unlockSeconds:     unlockSeconds,
		lastRefreshUnixTS: lastRefresh,
	}
}

// Registry returns the Prometheus registry used by this collector.
func (c *Collector) Registry() *prometheus.Registry {
	return c.registry
}

// RecordSubmitted counts a transaction handed to the chain.
func (c *Collector) RecordSubmitted(operation string) {
	c.opsSubmitted.WithLabelValues(operation).Inc()
}

// RecordConfirmed counts a confirmed operation and its latency.
func (c *Collector) RecordConfirmed(operation string, duration time.Duration) {
	c.opsConfirmed.WithLabelValues(operation).Inc()
	c.opDuration.WithLabelValues(operation).Observe(duration.Seconds())
}

// RecordFailed counts an operation that ended in error.
func (c *Collector) RecordFailed(operation string) {
	c.opsFailed.WithLabelValues(operation).Inc()
}

// RecordThrottled counts an attempt rejected by the cooldown.
func (c *Collector) RecordThrottled(operation string) {
	c.throttleDrops.WithLabelValues(operation).Inc()
}

// RecordRefresh counts a snapshot refresh attempt and its outcome.
func (c *Collector) RecordRefresh(ok bool) {
	c.refreshTotal.Inc()
	if !ok {
		c.refreshFailed.Inc()
	} else {
		c.lastRefreshUnixTS.SetToCurrentTime()
	}
}

// SetPosition updates the position gauges from base-unit amounts.
func (c *Collector) SetPosition(staked, rewards *big.Int, decimals int, untilUnlock time.Duration) {
	c.stakedTokens.Set(tokensFloat(staked, decimals))
	c.pendingRewards.Set(tokensFloat(rewards, decimals))
	if untilUnlock < 0 {
		untilUnlock = 0
	}
	c.unlockSeconds.Set(untilUnlock.Seconds())
}

// tokensFloat converts a base-unit amount to whole tokens. Gauge
// precision is fine for dashboards; exact amounts stay in big.Int
// everywhere else.
func tokensFloat(amount *big.Int, decimals int) float64 {
	if amount == nil {
		return 0
	}
	f := new(big.Float).SetInt(amount)
	scale := new(big.Float).SetInt(new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(decimals)), nil))
	out, _ := new(big.Float).Quo(f, scale).Float64()
	return out
}

// Handler returns an http.Handler serving the Prometheus text
// exposition format.
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{})
}
