package security

import (
	"fmt"
	"math/big"
	"strings"
)

// SanitizeAmount strips every character outside [0-9.] from raw user
// input and trims surrounding whitespace. It never fails; input with no
// usable characters yields an empty string. Idempotent.
func SanitizeAmount(raw string) string {
	var b strings.Builder
	for _, r := range strings.TrimSpace(raw) {
		if (r >= '0' && r <= '9') || r == '.' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// ParseAmount parses a decimal amount string into base units at the given
// token precision. Inputs with more fractional digits than decimals are
// rejected rather than truncated, to avoid silent precision loss.
func ParseAmount(amount string, decimals int) (*big.Int, error) {
	if decimals < 0 {
		return nil, fmt.Errorf("negative decimals: %d", decimals)
	}
	if amount == "" {
		return nil, fmt.Errorf("empty amount")
	}

	parts := strings.Split(amount, ".")
	if len(parts) > 2 {
		return nil, fmt.Errorf("invalid amount: %s", amount)
	}
	if parts[0] == "" {
		return nil, fmt.Errorf("missing whole part: %s", amount)
	}

	whole, ok := new(big.Int).SetString(parts[0], 10)
	if !ok || whole.Sign() < 0 {
		return nil, fmt.Errorf("invalid amount: %s", amount)
	}

	scale := new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(decimals)), nil)
	result := new(big.Int).Mul(whole, scale)

	if len(parts) == 2 {
		fracStr := parts[1]
		if fracStr == "" {
			return nil, fmt.Errorf("missing fraction: %s", amount)
		}
		if len(fracStr) > decimals {
			return nil, fmt.Errorf("too many decimal places: %s (max %d)", amount, decimals)
		}
		frac, ok := new(big.Int).SetString(fracStr, 10)
		if !ok || frac.Sign() < 0 {
			return nil, fmt.Errorf("invalid fraction: %s", parts[1])
		}
		// Pad to full precision: "5" at 18 decimals is 5*10^17
		for i := len(fracStr); i < decimals; i++ {
			frac.Mul(frac, big.NewInt(10))
		}
		result.Add(result, frac)
	}

	return result, nil
}

// FormatAmount renders a base-unit amount as a decimal string at the
// given precision, trimming trailing zeros and capping the fraction at
// four digits for display.
func FormatAmount(amount *big.Int, decimals int) string {
	if amount == nil || decimals < 0 {
		return "0"
	}

	scale := new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(decimals)), nil)
	whole := new(big.Int).Div(amount, scale)
	frac := new(big.Int).Mod(amount, scale)

	if frac.Sign() == 0 {
		return whole.String()
	}

	fracStr := frac.String()
	for len(fracStr) < decimals {
		fracStr = "0" + fracStr
	}
	for len(fracStr) > 0 && fracStr[len(fracStr)-1] == '0' {
		fracStr = fracStr[:len(fracStr)-1]
	}
	if len(fracStr) > 4 {
		fracStr = fracStr[:4]
		for len(fracStr) > 0 && fracStr[len(fracStr)-1] == '0' {
			fracStr = fracStr[:len(fracStr)-1]
		}
	}
	if len(fracStr) == 0 {
		return whole.String()
	}
	return whole.String() + "." + fracStr
}

// IsValidAmount reports whether amount parses cleanly at the given
// precision and satisfies 0 < amount <= balance && min <= amount <= max
// (inclusive bounds). Any parse failure yields false; it never panics.
func IsValidAmount(amount string, balance, min, max *big.Int, decimals int) bool {
	if balance == nil || min == nil || max == nil {
		return false
	}

	parsed, err := ParseAmount(amount, decimals)
	if err != nil {
		return false
	}

	return parsed.Sign() > 0 &&
		parsed.Cmp(balance) <= 0 &&
		parsed.Cmp(min) >= 0 &&
		parsed.Cmp(max) <= 0
}
