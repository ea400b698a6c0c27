package model

import (
	"time"

	"github.com/google/uuid"
)

// Audit statuses for deliveries that never reach the provider status.
const (
	AuditStatusReceived         = "received"
	AuditStatusInvalidSignature = "invalid_signature"
	AuditStatusProviderError    = "provider_error"
)

// WebhookAuditEvent is an append-only record of one inbound delivery.
type WebhookAuditEvent struct {
	ID        uuid.UUID `json:"id" gorm:"type:uuid;primaryKey"`
	Provider  string    `json:"provider" gorm:"not null;index"`
	EventType string    `json:"event_type" gorm:"not null"`
	SubjectID string    `json:"subject_id" gorm:"index"`
	Status    string    `json:"status"`
	RequestID string    `json:"request_id"`
	Payload   string    `json:"payload" gorm:"type:text"`
	Hints     string    `json:"hints" gorm:"type:jsonb"`
	CreatedAt time.Time `json:"created_at"`
}

// TableName returns the database table name.
func (WebhookAuditEvent) TableName() string {
	return "webhook_audit_events"
}
