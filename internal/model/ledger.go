package model

import (
	"time"

	"github.com/google/uuid"
)

// FulfillmentStatus records what happened to a ledger entry after it was
// written. Skipped marks a payment first seen in a non-approved state.
type FulfillmentStatus string

const (
	FulfillmentPending    FulfillmentStatus = "pending"
	FulfillmentFulfilled  FulfillmentStatus = "fulfilled"
	FulfillmentSoftFailed FulfillmentStatus = "soft_failed"
	FulfillmentFailed     FulfillmentStatus = "failed"
	FulfillmentSkipped    FulfillmentStatus = "skipped"
)

// PaymentLedgerEntry asserts that a provider payment has been processed.
// (provider, provider_payment_id) is unique.
type PaymentLedgerEntry struct {
	ID                uuid.UUID         `json:"id" gorm:"type:uuid;primaryKey"`
	Provider          string            `json:"provider" gorm:"not null;uniqueIndex:idx_ledger_provider_payment"`
	ProviderPaymentID string            `json:"provider_payment_id" gorm:"not null;uniqueIndex:idx_ledger_provider_payment"`
	Status            string            `json:"status" gorm:"not null"`
	StatusDetail      string            `json:"status_detail,omitempty"`
	Amount            float64           `json:"amount" gorm:"type:numeric(14,2)"`
	Currency          string            `json:"currency"`
	UserExternalID    string            `json:"user_external_id,omitempty"`
	UserID            *string           `json:"user_id,omitempty"`
	ProductType       string            `json:"product_type"`
	Intent            string            `json:"intent" gorm:"type:jsonb"`
	FulfillmentStatus FulfillmentStatus `json:"fulfillment_status" gorm:"not null;default:pending"`
	FulfillmentError  string            `json:"fulfillment_error,omitempty"`
	FulfilledAt       *time.Time        `json:"fulfilled_at,omitempty"`
	CreatedAt         time.Time         `json:"created_at"`
	UpdatedAt         time.Time         `json:"updated_at"`
}

// TableName returns the database table name.
func (PaymentLedgerEntry) TableName() string {
	return "payment_ledger_entries"
}
