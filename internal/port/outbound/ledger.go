package outbound

import (
	"context"

	"github.com/learnhub/server/internal/model"
)

// LedgerRecord is the attribute set written for one provider payment.
type LedgerRecord struct {
	Provider          string
	ProviderPaymentID string
	Status            string
	StatusDetail      string
	Amount            float64
	Currency          string
	UserExternalID    string
	UserID            string
	ProductType       string
	Intent            string // JSON snapshot of the resolved intent
}

// LedgerResult reports the outcome of RecordPayment.
type LedgerResult struct {
	// Inserted is true for the single caller that created the row.
	Inserted bool

	// Claimed is true for the single caller that first recorded the payment
	// as approved, either by inserting it approved or by moving an existing
	// non-approved row to approved. Fulfillment runs only when Claimed.
	Claimed bool
}

// PaymentLedgerPort is the idempotent payment ledger.
type PaymentLedgerPort interface {
	// RecordPayment inserts the entry if (provider, provider payment id) is
	// new. It never fails because of a duplicate.
	RecordPayment(ctx context.Context, rec *LedgerRecord) (*LedgerResult, error)

	// MarkFulfillment stamps the fulfillment outcome on an entry.
	MarkFulfillment(ctx context.Context, provider, providerPaymentID string, status model.FulfillmentStatus, detail string) error
}
