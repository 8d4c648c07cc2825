package security

import (
	"math/big"
	"testing"
)

func tokens(n int64) *big.Int {
	scale := new(big.Int).Exp(big.NewInt(10), big.NewInt(18), nil)
	return new(big.Int).Mul(big.NewInt(n), scale)
}

func TestSanitizeAmount(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"clean number", "123.45", "123.45"},
		{"whitespace", "  100  ", "100"},
		{"letters stripped", "1a2b3c", "123"},
		{"currency symbols", "$1,000.50", "1000.50"},
		{"script injection", "<script>9</script>", "9"},
		{"empty", "", ""},
		{"only garbage", "abc-+e", ""},
		{"negative sign stripped", "-5", "5"},
		{"exponent stripped", "1e18", "118"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := SanitizeAmount(tt.in); got != tt.want {
				t.Errorf("SanitizeAmount(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestSanitizeAmount_Idempotent(t *testing.T) {
	inputs := []string{"123.45", "  1a2 ", "$5.00", "", "....", "abc", "1e18"}
	for _, in := range inputs {
		once := SanitizeAmount(in)
		twice := SanitizeAmount(once)
		if once != twice {
			t.Errorf("not idempotent for %q: first %q, second %q", in, once, twice)
		}
	}
}

func TestParseAmount(t *testing.T) {
	tests := []struct {
		name    string
		in      string
		want    *big.Int
		wantErr bool
	}{
		{"whole", "5", tokens(5), false},
		{"fraction", "0.5", big.NewInt(5e17), false},
		{"full precision", "1.000000000000000001", new(big.Int).Add(tokens(1), big.NewInt(1)), false},
		{"zero", "0", big.NewInt(0), false},
		{"empty", "", nil, true},
		{"two dots", "1.2.3", nil, true},
		{"leading dot", ".5", nil, true},
		{"trailing dot", "5.", nil, true},
		{"too many decimals", "1.0000000000000000001", nil, true},
		{"non numeric", "abc", nil, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseAmount(tt.in, 18)
			if tt.wantErr {
				if err == nil {
					t.Errorf("ParseAmount(%q) expected error, got %s", tt.in, got)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseAmount(%q) unexpected error: %v", tt.in, err)
			}
			if got.Cmp(tt.want) != 0 {
				t.Errorf("ParseAmount(%q) = %s, want %s", tt.in, got, tt.want)
			}
		})
	}
}

func TestFormatAmount(t *testing.T) {
	tests := []struct {
		name string
		in   *big.Int
		want string
	}{
		{"nil", nil, "0"},
		{"zero", big.NewInt(0), "0"},
		{"whole", tokens(1000), "1000"},
		{"half", big.NewInt(5e17), "0.5"},
		{"trims trailing zeros", big.NewInt(1230000000000000000), "1.23"},
		{"dust below display precision", big.NewInt(123456789), "0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := FormatAmount(tt.in, 18); got != tt.want {
				t.Errorf("FormatAmount(%v) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestParseFormatRoundTrip(t *testing.T) {
	for _, s := range []string{"1", "0.5", "1234.25", "0.0001"} {
		parsed, err := ParseAmount(s, 18)
		if err != nil {
			t.Fatalf("ParseAmount(%q): %v", s, err)
		}
		if got := FormatAmount(parsed, 18); got != s {
			t.Errorf("round trip %q -> %s -> %q", s, parsed, got)
		}
	}
}

// Scenario from the validation design: balance 1000, min 10, max 500.
func TestIsValidAmount_Bounds(t *testing.T) {
	balance := tokens(1000)
	min := tokens(10)
	max := tokens(500)

	tests := []struct {
		amount string
		want   bool
		reason string
	}{
		{"5", false, "below min"},
		{"10", true, "equal to min is inclusive"},
		{"500", true, "equal to max is inclusive"},
		{"501", false, "above max"},
		{"1000", false, "above max even though <= balance"},
		{"0", false, "zero"},
		{"250", true, "inside bounds"},
	}

	for _, tt := range tests {
		t.Run(tt.amount, func(t *testing.T) {
			if got := IsValidAmount(tt.amount, balance, min, max, 18); got != tt.want {
				t.Errorf("IsValidAmount(%s) = %v, want %v (%s)", tt.amount, got, tt.want, tt.reason)
			}
		})
	}
}

func TestIsValidAmount_ExceedsBalance(t *testing.T) {
	balance := tokens(100)
	min := tokens(1)
	max := tokens(1000)

	if IsValidAmount("101", balance, min, max, 18) {
		t.Error("amount above balance should be invalid")
	}
	if !IsValidAmount("100", balance, min, max, 18) {
		t.Error("amount equal to balance should be valid")
	}
}

func TestIsValidAmount_MalformedNeverPanics(t *testing.T) {
	balance := tokens(1000)
	min := tokens(10)
	max := tokens(500)

	for _, bad := range []string{"", "abc", "1.2.3", ".", "..", "1e18", "-5", "1.0000000000000000001"} {
		if IsValidAmount(bad, balance, min, max, 18) {
			t.Errorf("malformed amount %q should be invalid", bad)
		}
	}
}

func TestIsValidAmount_NilBounds(t *testing.T) {
	if IsValidAmount("100", nil, nil, nil, 18) {
		t.Error("nil bounds should be invalid, not panic")
	}
}
