package webhook

import (
	"net/url"
	"time"
)

// InboundEvent is one webhook delivery as received over HTTP.
type InboundEvent struct {
	Method      string
	Body        []byte
	ContentType string
	Query       url.Values
	Signature   string // x-signature header
	RequestID   string // x-request-id header
	ReceivedAt  time.Time
}

// Kind tags the event family.
type Kind string

const (
	KindPayment       Kind = "payment"
	KindMerchantOrder Kind = "merchant_order"
	KindUnknown       Kind = "unknown"
)

// EventKind is the classification of an inbound event. Exactly one Kind is
// set; SubjectID is always present for payment and merchant order events.
type EventKind struct {
	Kind      Kind
	SubjectID string
	// Type is the raw event type, "unknown" when none was supplied.
	Type string
}
