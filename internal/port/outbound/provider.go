package outbound

import (
	"context"

	"github.com/learnhub/server/internal/model"
)

// PaymentProviderPort reads payments and merchant orders from the payment
// provider. Implementations return an error for any failed or non-2xx read.
type PaymentProviderPort interface {
	// Name returns the provider name used as the ledger key prefix.
	Name() string

	// FetchPayment reads a single payment by id.
	FetchPayment(ctx context.Context, id string) (*model.ExternalRecord, error)

	// FetchMerchantOrder reads a merchant order, including its payments.
	FetchMerchantOrder(ctx context.Context, id string) (*model.ExternalRecord, error)
}
