package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/learnhub/server/internal/model"
	"github.com/learnhub/server/internal/port/outbound"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// paymentLedgerAdapter implements outbound.PaymentLedgerPort.
type paymentLedgerAdapter struct {
	db *gorm.DB
}

// NewPaymentLedgerAdapter creates a new payment ledger adapter.
func NewPaymentLedgerAdapter(db *gorm.DB) outbound.PaymentLedgerPort {
	return &paymentLedgerAdapter{db: db}
}

// RecordPayment inserts the entry or, for an existing one, applies a
// conditional status update. Claims are decided by the database: the insert
// is ON CONFLICT DO NOTHING and the approve transition only matches a row
// that is not yet approved (or whose fulfillment failed), so concurrent
// callers see at most one claim.
func (a *paymentLedgerAdapter) RecordPayment(ctx context.Context, rec *outbound.LedgerRecord) (*outbound.LedgerResult, error) {
	approved := rec.Status == model.ExternalStatusApproved

	entry := &model.PaymentLedgerEntry{
		ID:                uuid.New(),
		Provider:          rec.Provider,
		ProviderPaymentID: rec.ProviderPaymentID,
		Status:            rec.Status,
		StatusDetail:      rec.StatusDetail,
		Amount:            rec.Amount,
		Currency:          rec.Currency,
		UserExternalID:    rec.UserExternalID,
		UserID:            optionalString(rec.UserID),
		ProductType:       rec.ProductType,
		Intent:            jsonOrEmpty(rec.Intent),
		FulfillmentStatus: model.FulfillmentPending,
	}

	res := a.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "provider"}, {Name: "provider_payment_id"}},
			DoNothing: true,
		}).
		Create(entry)
	if res.Error != nil {
		return nil, fmt.Errorf("insert ledger entry: %w", res.Error)
	}
	if res.RowsAffected > 0 {
		return &outbound.LedgerResult{Inserted: true, Claimed: approved}, nil
	}

	now := time.Now()
	if !approved {
		// Never move an approved payment back.
		err := a.entry(ctx, rec.Provider, rec.ProviderPaymentID).
			Where("status <> ?", model.ExternalStatusApproved).
			Updates(map[string]interface{}{
				"status":        rec.Status,
				"status_detail": rec.StatusDetail,
				"updated_at":    now,
			}).Error
		if err != nil {
			return nil, fmt.Errorf("update ledger status: %w", err)
		}
		return &outbound.LedgerResult{}, nil
	}

	res = a.entry(ctx, rec.Provider, rec.ProviderPaymentID).
		Where("(status <> ? OR fulfillment_status = ?)", model.ExternalStatusApproved, model.FulfillmentFailed).
		Updates(map[string]interface{}{
			"status":             rec.Status,
			"status_detail":      rec.StatusDetail,
			"amount":             rec.Amount,
			"currency":           rec.Currency,
			"user_external_id":   rec.UserExternalID,
			"user_id":            optionalString(rec.UserID),
			"product_type":       rec.ProductType,
			"intent":             jsonOrEmpty(rec.Intent),
			"fulfillment_status": model.FulfillmentPending,
			"fulfillment_error":  "",
			"updated_at":         now,
		})
	if res.Error != nil {
		return nil, fmt.Errorf("claim ledger entry: %w", res.Error)
	}
	return &outbound.LedgerResult{Claimed: res.RowsAffected > 0}, nil
}

func (a *paymentLedgerAdapter) MarkFulfillment(ctx context.Context, provider, providerPaymentID string, status model.FulfillmentStatus, detail string) error {
	now := time.Now()
	updates := map[string]interface{}{
		"fulfillment_status": status,
		"fulfillment_error":  detail,
		"updated_at":         now,
	}
	if status == model.FulfillmentFulfilled {
		updates["fulfilled_at"] = now
	}

	err := a.entry(ctx, provider, providerPaymentID).Updates(updates).Error
	if err != nil {
		return fmt.Errorf("mark ledger fulfillment: %w", err)
	}
	return nil
}

func (a *paymentLedgerAdapter) entry(ctx context.Context, provider, providerPaymentID string) *gorm.DB {
	return a.db.WithContext(ctx).
		Model(&model.PaymentLedgerEntry{}).
		Where("provider = ? AND provider_payment_id = ?", provider, providerPaymentID)
}

func optionalString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func jsonOrEmpty(s string) string {
	if s == "" {
		return "{}"
	}
	return s
}

// Compile-time check
var _ outbound.PaymentLedgerPort = (*paymentLedgerAdapter)(nil)
