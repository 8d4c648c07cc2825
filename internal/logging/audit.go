package logging

// AuditEvent represents a state-changing wallet operation that should be
// logged for later review.
type AuditEvent struct {
	Operation string // e.g., "stake", "withdraw", "claim", "approve"
	Actor     string // Wallet address that performed the action
	Target    string // Contract address affected
	Result    string // "success" or "failure"
	Details   string // Additional context (amount, tx hash, failure reason)
}

// Audit logs a state-changing operation with structured fields.
// Audit events are logged at Info level with a special "audit" attribute
// to distinguish them from regular application logs.
func Audit(event AuditEvent) {
	Logger().Info("audit",
		"audit", true,
		"operation", event.Operation,
		"actor", event.Actor,
		"target", event.Target,
		"result", event.Result,
		"details", event.Details,
	)
}
