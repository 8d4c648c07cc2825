package logging

import (
	"bytes"
	"errors"
	"log/slog"
	"strings"
	"testing"
)

func TestSetAndGetLogger(t *testing.T) {
	// Save original logger
	original := Logger()
	defer SetLogger(original)

	var buf bytes.Buffer
	customLogger := slog.New(slog.NewJSONHandler(&buf, nil))

	SetLogger(customLogger)

	got := Logger()
	if got != customLogger {
		t.Error("Logger() did not return the logger set by SetLogger()")
	}
}

func TestSetOutput(t *testing.T) {
	original := Logger()
	defer SetLogger(original)

	var buf bytes.Buffer
	SetOutput(&buf)

	Info("test message", "key", "value")

	output := buf.String()
	if output == "" {
		t.Error("expected log output to be written to buffer")
	}
	if !strings.Contains(output, "test message") {
		t.Errorf("expected output to contain 'test message', got: %s", output)
	}
	if !strings.Contains(output, `"key"`) {
		t.Errorf("expected output to contain key, got: %s", output)
	}
}

func TestFieldHelpers(t *testing.T) {
	original := Logger()
	defer SetLogger(original)

	var buf bytes.Buffer
	SetOutput(&buf)

	Info("op",
		Account("0xA0b86991c6218b36c1d19D4a2e9Eb0cE3606eB48"),
		Operation("stake"),
		TxHash("0xabc"),
		Err(errors.New("boom")),
	)

	output := buf.String()
	for _, want := range []string{"account", "0xA0b86991", "operation", "stake", "tx_hash", "boom"} {
		if !strings.Contains(output, want) {
			t.Errorf("expected output to contain %q, got: %s", want, output)
		}
	}
}

func TestErrNil(t *testing.T) {
	attr := Err(nil)
	if attr.Value.String() != "" {
		t.Errorf("Err(nil) should produce empty string, got %q", attr.Value.String())
	}
}

func TestAudit(t *testing.T) {
	original := Logger()
	defer SetLogger(original)

	var buf bytes.Buffer
	SetOutput(&buf)

	Audit(AuditEvent{
		Operation: "stake",
		Actor:     "0x1234567890123456789012345678901234567890",
		Target:    "0x0987654321098765432109876543210987654321",
		Result:    "success",
		Details:   "amount=100",
	})

	output := buf.String()
	for _, want := range []string{`"audit":true`, `"operation":"stake"`, `"result":"success"`} {
		if !strings.Contains(output, want) {
			t.Errorf("expected audit output to contain %q, got: %s", want, output)
		}
	}
}
