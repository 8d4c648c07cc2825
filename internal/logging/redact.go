package logging

import (
	"context"
	"log/slog"
	"regexp"
	"strings"
)

// sensitiveKeyPatterns lists substrings that indicate a log attribute key
// holds a secret value. Values logged under these keys are fully redacted.
var sensitiveKeyPatterns = []string{
	"password",
	"secret",
	"private_key",
	"mnemonic",
	"credential",
}

// ethPrivateKeyPattern matches Ethereum-style private keys (0x followed by 64 hex chars).
var ethPrivateKeyPattern = regexp.MustCompile(`\b0x[0-9a-fA-F]{64}\b`)

// longHexPattern matches bare hex strings long enough to be key material.
// Addresses (40 hex chars) and tx hashes (64 chars with 0x prefix handled
// above) stay visible; anything 65+ chars is treated as a secret.
var longHexPattern = regexp.MustCompile(`\b[0-9a-fA-F]{65,}\b`)

// RedactingHandler wraps an slog.Handler and redacts sensitive values
// before they are passed to the inner handler. Wallet addresses and tx
// hashes are public chain data and pass through untouched.
type RedactingHandler struct {
	inner slog.Handler
}

// NewRedactingHandler creates a RedactingHandler that wraps the given inner handler.
func NewRedactingHandler(inner slog.Handler) *RedactingHandler {
	return &RedactingHandler{inner: inner}
}

// Enabled reports whether the inner handler handles records at the given level.
func (h *RedactingHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.inner.Enabled(ctx, level)
}

// Handle redacts sensitive attribute values and forwards the record to the inner handler.
func (h *RedactingHandler) Handle(ctx context.Context, r slog.Record) error {
	var redacted []slog.Attr
	r.Attrs(func(a slog.Attr) bool {
		redacted = append(redacted, redactAttr(a))
		return true
	})

	newRecord := slog.NewRecord(r.Time, r.Level, r.Message, r.PC)
	newRecord.AddAttrs(redacted...)

	return h.inner.Handle(ctx, newRecord)
}

// WithAttrs returns a new handler with the given attributes redacted.
func (h *RedactingHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	redacted := make([]slog.Attr, len(attrs))
	for i, a := range attrs {
		redacted[i] = redactAttr(a)
	}
	return &RedactingHandler{inner: h.inner.WithAttrs(redacted)}
}

// WithGroup returns a new handler with the given group name.
func (h *RedactingHandler) WithGroup(name string) slog.Handler {
	return &RedactingHandler{inner: h.inner.WithGroup(name)}
}

// redactAttr returns a copy of the attribute with its value redacted if necessary.
func redactAttr(a slog.Attr) slog.Attr {
	key := strings.ToLower(a.Key)

	for _, pattern := range sensitiveKeyPatterns {
		if strings.Contains(key, pattern) {
			return slog.String(a.Key, "[REDACTED]")
		}
	}

	// For string values, scan and redact key material inline.
	if a.Value.Kind() == slog.KindString {
		val := a.Value.String()
		redacted := redactString(val)
		if redacted != val {
			return slog.String(a.Key, redacted)
		}
	}

	return a
}

// redactString scans a string value and replaces anything that looks like
// private key material.
func redactString(val string) string {
	val = ethPrivateKeyPattern.ReplaceAllString(val, "[REDACTED]")
	val = longHexPattern.ReplaceAllString(val, "[REDACTED]")
	return val
}
