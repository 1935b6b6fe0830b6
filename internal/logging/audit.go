package logging

// AuditEvent records a ledger write attempt for operational traceability.
// This log stream is observability only; the ledger itself is the audit
// record of truth.
type AuditEvent struct {
	Operation string // contract method, e.g. "logNodeMetrics"
	Actor     string // signing address performing the write
	Target    string // subject node ID
	TxHash    string // transaction hash, empty if the submission never broadcast
	Result    string // "success" or "failure"
	Details   string // failure reason or additional context
}

// Audit logs a ledger write event with structured fields. Events are logged
// at Info level with an "audit" attribute to distinguish them from regular
// application logs.
func Audit(event AuditEvent) {
	Logger().Info("audit",
		"audit", true,
		"operation", event.Operation,
		"actor", event.Actor,
		"target", event.Target,
		"tx_hash", event.TxHash,
		"result", event.Result,
		"details", event.Details,
	)
}
