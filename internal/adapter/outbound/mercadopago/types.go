package mercadopago

import (
	"encoding/json"

	"github.com/learnhub/server/internal/model"
)

type paymentResponse struct {
	ID                json.Number    `json:"id"`
	Status            string         `json:"status"`
	StatusDetail      string         `json:"status_detail"`
	TransactionAmount float64        `json:"transaction_amount"`
	CurrencyID        string         `json:"currency_id"`
	ExternalReference string         `json:"external_reference"`
	Metadata          map[string]any `json:"metadata"`
}

func (p *paymentResponse) toRecord(raw []byte) *model.ExternalRecord {
	return &model.ExternalRecord{
		ID:                p.ID.String(),
		Status:            p.Status,
		StatusDetail:      p.StatusDetail,
		Amount:            p.TransactionAmount,
		CurrencyCode:      p.CurrencyID,
		ExternalReference: p.ExternalReference,
		Metadata:          p.Metadata,
		RawPayload:        raw,
	}
}

type merchantOrderPayment struct {
	ID                json.Number `json:"id"`
	Status            string      `json:"status"`
	StatusDetail      string      `json:"status_detail"`
	TransactionAmount float64     `json:"transaction_amount"`
	CurrencyID        string      `json:"currency_id"`
}

type merchantOrderResponse struct {
	ID                json.Number            `json:"id"`
	Status            string                 `json:"status"`
	OrderStatus       string                 `json:"order_status"`
	TotalAmount       float64                `json:"total_amount"`
	ExternalReference string                 `json:"external_reference"`
	Metadata          map[string]any         `json:"metadata"`
	Payments          []merchantOrderPayment `json:"payments"`
}

func (o *merchantOrderResponse) toRecord(raw []byte) *model.ExternalRecord {
	status := o.OrderStatus
	if status == "" {
		status = o.Status
	}

	var currency string
	payments := make([]model.ExternalPayment, 0, len(o.Payments))
	for _, p := range o.Payments {
		payments = append(payments, model.ExternalPayment{
			ID:           p.ID.String(),
			Status:       p.Status,
			StatusDetail: p.StatusDetail,
			Amount:       p.TransactionAmount,
			CurrencyCode: p.CurrencyID,
		})
		if currency == "" {
			currency = p.CurrencyID
		}
	}

	return &model.ExternalRecord{
		ID:                o.ID.String(),
		Status:            status,
		Amount:            o.TotalAmount,
		CurrencyCode:      currency,
		ExternalReference: o.ExternalReference,
		Metadata:          o.Metadata,
		RawPayload:        raw,
		Payments:          payments,
	}
}
