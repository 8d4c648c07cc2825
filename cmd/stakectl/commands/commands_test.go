package commands

import (
	"math/big"
	"strings"
	"testing"

	"github.com/sorayia-labs/stakectl/pkg/types"
)

func TestCommandConstructors(t *testing.T) {
	tests := []struct {
		name string
		cmd  interface{ Name() string }
		use  string
	}{
		{"status", NewStatusCmd(), "status"},
		{"approve", NewApproveCmd(), "approve"},
		{"stake", NewStakeCmd(), "stake"},
		{"withdraw", NewWithdrawCmd(), "withdraw"},
		{"claim", NewClaimCmd(), "claim"},
		{"watch", NewWatchCmd(), "watch"},
		{"config", NewConfigCmd(), "config"},
		{"version", NewVersionCmd(), "version"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.cmd == nil {
				t.Fatal("constructor returned nil")
			}
			if tt.cmd.Name() != tt.use {
				t.Errorf("Use mismatch: got %s, want %s", tt.cmd.Name(), tt.use)
			}
		})
	}
}

func TestFormatToken(t *testing.T) {
	wei := func(s string) *big.Int {
		v, _ := new(big.Int).SetString(s, 10)
		return v
	}

	tests := []struct {
		amount *big.Int
		want   string
	}{
		{nil, "0 SORAYIA"},
		{big.NewInt(0), "0 SORAYIA"},
		{wei("1000000000000000000"), "1 SORAYIA"},
		{wei("1500000000000000000"), "1.5 SORAYIA"},
		{wei("1234567000000000000000000"), "1,234,567 SORAYIA"},
	}

	for _, tt := range tests {
		if got := FormatToken(tt.amount, 18); got != tt.want {
			t.Errorf("FormatToken(%v) = %q, want %q", tt.amount, got, tt.want)
		}
	}
}

func TestFormatAddress(t *testing.T) {
	addr := "0x1234567890abcdef1234567890abcdef12345678"
	got := FormatAddress(addr)
	if got != "0x1234...5678" {
		t.Errorf("got %q", got)
	}
	if FormatAddress("0xshort") != "0xshort" {
		t.Error("short strings should pass through")
	}
}

func TestFormatTimeLeft(t *testing.T) {
	if got := FormatTimeLeft(types.TimeLeft{}); got != "unlocked" {
		t.Errorf("expected unlocked, got %q", got)
	}
	got := FormatTimeLeft(types.TimeLeft{Days: 89, Hours: 23, Minutes: 59, Seconds: 59})
	if got != "89d 23h 59m 59s" {
		t.Errorf("got %q", got)
	}
}

func TestStatusBoxPlain(t *testing.T) {
	out := statusBoxPlain("Position", [][2]string{{"Staked", "100 SORAYIA"}})
	if !strings.Contains(out, "Position") || !strings.Contains(out, "Staked:") {
		t.Errorf("unexpected output: %q", out)
	}
}
