package commands

import (
	"fmt"
	"math/big"
	"strings"

	"github.com/sorayia-labs/stakectl/internal/security"
	"github.com/sorayia-labs/stakectl/pkg/types"
)

// StatusBox renders a titled box with key-value fields.
//
//	StatusBox("Position", [][2]string{{"Staked", "100 SORAYIA"}})
func StatusBox(title string, fields [][2]string) string {
	if !isTTY() {
		return statusBoxPlain(title, fields)
	}

	var sb strings.Builder
	sb.WriteString(StyleHeader.Render(title))
	sb.WriteString("\n")
	for _, f := range fields {
		sb.WriteString(StyleLabel.Render(f[0]) + StyleValue.Render(f[1]) + "\n")
	}

	return StyleBox.Render(strings.TrimRight(sb.String(), "\n"))
}

func statusBoxPlain(title string, fields [][2]string) string {
	var sb strings.Builder
	sb.WriteString(title + "\n")
	sb.WriteString(strings.Repeat("=", len(title)) + "\n")
	for _, f := range fields {
		sb.WriteString(fmt.Sprintf("%-14s %s\n", f[0]+":", f[1]))
	}
	return sb.String()
}

// Success prints a success message with a checkmark.
func Success(msg string) {
	if isTTY() {
		fmt.Println(StyleSuccess.Render("  " + msg))
	} else {
		fmt.Println("[OK] " + msg)
	}
}

// Error prints an error message with an X.
func Error(msg string) {
	if isTTY() {
		fmt.Println(StyleError.Render("  " + msg))
	} else {
		fmt.Println("[ERROR] " + msg)
	}
}

// Warning prints a warning message.
func Warning(msg string) {
	if isTTY() {
		fmt.Println(StyleWarning.Render("  " + msg))
	} else {
		fmt.Println("[WARN] " + msg)
	}
}

// Info prints an informational message.
func Info(msg string) {
	if isTTY() {
		fmt.Println(StyleInfo.Render("  " + msg))
	} else {
		fmt.Println("[INFO] " + msg)
	}
}

// Hint renders a dim hint/suggestion message.
func Hint(msg string) string {
	if !isTTY() {
		return "  " + msg
	}
	return "  " + StyleDim.Render(msg)
}

// FormatToken renders a base-unit amount as "1,234.56 SORAYIA".
func FormatToken(amount *big.Int, decimals int) string {
	if amount == nil {
		return "0 SORAYIA"
	}
	s := security.FormatAmount(amount, decimals)

	whole, frac, hasFrac := strings.Cut(s, ".")
	out := addThousandsSep(whole)
	if hasFrac {
		out += "." + frac
	}
	return out + " SORAYIA"
}

func addThousandsSep(s string) string {
	if len(s) <= 3 {
		return s
	}

	negative := false
	if s[0] == '-' {
		negative = true
		s = s[1:]
	}

	var result strings.Builder
	for i, c := range s {
		if i > 0 && (len(s)-i)%3 == 0 {
			result.WriteRune(',')
		}
		result.WriteRune(c)
	}

	if negative {
		return "-" + result.String()
	}
	return result.String()
}

// FormatAddress truncates an Ethereum address for display.
func FormatAddress(addr string) string {
	if len(addr) <= 12 {
		return addr
	}
	return addr[:6] + "..." + addr[len(addr)-4:]
}

// FormatTimeLeft renders the lock countdown, or "unlocked".
func FormatTimeLeft(tl types.TimeLeft) string {
	if tl.Zero() {
		return "unlocked"
	}
	return fmt.Sprintf("%dd %02dh %02dm %02ds", tl.Days, tl.Hours, tl.Minutes, tl.Seconds)
}
