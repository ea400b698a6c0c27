package model

import "encoding/json"

// Provider payment statuses that drive fulfillment.
const (
	ExternalStatusApproved = "approved"
	ExternalStatusPending  = "pending"
)

// ExternalRecord is a payment or merchant order as read back from the
// payment provider, normalized to the fields reconciliation needs.
type ExternalRecord struct {
	ID                string
	Status            string
	StatusDetail      string
	Amount            float64
	CurrencyCode      string
	ExternalReference string
	Metadata          map[string]any
	RawPayload        json.RawMessage

	// Payments is only populated for merchant orders.
	Payments []ExternalPayment
}

// ExternalPayment is one payment attempt inside a merchant order.
type ExternalPayment struct {
	ID           string
	Status       string
	StatusDetail string
	Amount       float64
	CurrencyCode string
}

// FirstApprovedPayment returns the first approved payment of a merchant
// order, or nil.
func (r *ExternalRecord) FirstApprovedPayment() *ExternalPayment {
	for i := range r.Payments {
		if r.Payments[i].Status == ExternalStatusApproved && r.Payments[i].ID != "" {
			return &r.Payments[i]
		}
	}
	return nil
}
