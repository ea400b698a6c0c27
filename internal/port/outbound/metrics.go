package outbound

// WebhookMetricsPort receives pipeline counters.
type WebhookMetricsPort interface {
	RecordEvent(kind, outcome string)
	RecordLedgerWrite(result string)
	RecordSideEffect(effect, result string)
}
