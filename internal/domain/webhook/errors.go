package webhook

import "errors"

var (
	// ErrInvalidSignature is returned when the delivery signature is missing
	// or does not match.
	ErrInvalidSignature = errors.New("invalid signature")

	// ErrProviderUnavailable is returned when the payment provider cannot be
	// read. The delivery should be retried.
	ErrProviderUnavailable = errors.New("payment provider unavailable")

	// ErrLedgerUnavailable is returned when the ledger write fails.
	ErrLedgerUnavailable = errors.New("payment ledger unavailable")

	// ErrFulfillmentFailed is returned when a lookup or side effect fails
	// because of storage, not because of missing data.
	ErrFulfillmentFailed = errors.New("fulfillment failed")
)
