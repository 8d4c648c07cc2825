package metrics

import (
	"math/big"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestOperationCounters(t *testing.T) {
	c := NewCollector()

	c.RecordSubmitted("stake")
	c.RecordSubmitted("stake")
	c.RecordConfirmed("stake", 3*time.Second)
	c.RecordFailed("withdraw")
	c.RecordThrottled("stake")

	if got := testutil.ToFloat64(c.opsSubmitted.WithLabelValues("stake")); got != 2 {
		t.Errorf("expected 2 submitted, got %v", got)
	}
	if got := testutil.ToFloat64(c.opsConfirmed.WithLabelValues("stake")); got != 1 {
		t.Errorf("expected 1 confirmed, got %v", got)
	}
	if got := testutil.ToFloat64(c.opsFailed.WithLabelValues("withdraw")); got != 1 {
		t.Errorf("expected 1 failed, got %v", got)
	}
	if got := testutil.ToFloat64(c.throttleDrops.WithLabelValues("stake")); got != 1 {
		t.Errorf("expected 1 throttled, got %v", got)
	}
}

func TestRefreshCounters(t *testing.T) {
	c := NewCollector()

	c.RecordRefresh(true)
	c.RecordRefresh(true)
	c.RecordRefresh(false)

	if got := testutil.ToFloat64(c.refreshTotal); got != 3 {
		t.Errorf("expected 3 refreshes, got %v", got)
	}
	if got := testutil.ToFloat64(c.refreshFailed); got != 1 {
		t.Errorf("expected 1 failed refresh, got %v", got)
	}
}

func TestSetPosition(t *testing.T) {
	c := NewCollector()

	// 1.5 tokens at 18 decimals
	staked, _ := new(big.Int).SetString("1500000000000000000", 10)
	c.SetPosition(staked, big.NewInt(0), 18, 90*time.Second)

	if got := testutil.ToFloat64(c.stakedTokens); got != 1.5 {
		t.Errorf("expected 1.5 staked tokens, got %v", got)
	}
	if got := testutil.ToFloat64(c.unlockSeconds); got != 90 {
		t.Errorf("expected 90 unlock seconds, got %v", got)
	}

	// Expired locks clamp to zero.
	c.SetPosition(staked, big.NewInt(0), 18, -5*time.Second)
	if got := testutil.ToFloat64(c.unlockSeconds); got != 0 {
		t.Errorf("expected clamped unlock, got %v", got)
	}
}

func TestSetPosition_NilAmounts(t *testing.T) {
	c := NewCollector()
	c.SetPosition(nil, nil, 18, 0)

	if got := testutil.ToFloat64(c.stakedTokens); got != 0 {
		t.Errorf("expected 0 for nil amount, got %v", got)
	}
}

func TestHandlerServesExposition(t *testing.T) {
	c := NewCollector()
	c.RecordSubmitted("claim")

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	rec := httptest.NewRecorder()
	c.Handler().ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "stakectl_operations_submitted_total") {
		t.Error("exposition output missing operation counter")
	}
}
