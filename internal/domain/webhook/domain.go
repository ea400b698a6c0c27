package webhook

import (
	"context"
	"errors"
	"fmt"

	"github.com/learnhub/server/internal/model"
	"github.com/learnhub/server/internal/port/outbound"
	"github.com/learnhub/server/internal/shared/requestctx"
	"go.uber.org/zap"
)

// Event outcomes reported to metrics.
const (
	outcomeInvalidSignature = "invalid_signature"
	outcomeProviderError    = "provider_error"
	outcomeReceived         = "received"
	outcomeNotApproved      = "not_approved"
	outcomeNoApprovedPay    = "no_approved_payment"
	outcomeDuplicate        = "duplicate"
	outcomeSoftFailure      = "soft_failure"
	outcomeFulfilled        = "fulfilled"
	outcomeLedgerError      = "ledger_error"
	outcomeFulfillmentError = "fulfillment_error"
)

// WebhookDomain reconciles payment provider webhooks into exactly-once
// business effects.
type WebhookDomain interface {
	// Process runs one delivery through the pipeline. Soft business failures
	// come back as a result with Processed "error"; returned errors mean the
	// delivery should be retried (or, for ErrInvalidSignature, rejected).
	Process(ctx context.Context, evt *InboundEvent) (*model.WebhookResult, error)
}

type webhookDomain struct {
	provider outbound.PaymentProviderPort
	ledger   outbound.PaymentLedgerPort
	identity IdentityResolver
	router   *FulfillmentRouter
	audit    *AuditRecorder
	verifier *SignatureVerifier
	metrics  outbound.WebhookMetricsPort
	logger   *zap.Logger
}

// NewWebhookDomain creates the webhook domain service. metrics may be nil.
func NewWebhookDomain(
	provider outbound.PaymentProviderPort,
	ledger outbound.PaymentLedgerPort,
	identity IdentityResolver,
	router *FulfillmentRouter,
	audit *AuditRecorder,
	verifier *SignatureVerifier,
	metrics outbound.WebhookMetricsPort,
	logger *zap.Logger,
) WebhookDomain {
	if metrics == nil {
		metrics = nopMetrics{}
	}
	return &webhookDomain{
		provider: provider,
		ledger:   ledger,
		identity: identity,
		router:   router,
		audit:    audit,
		verifier: verifier,
		metrics:  metrics,
		logger:   logger,
	}
}

// settlement carries everything needed to write the ledger and fulfill one
// provider payment, whichever event family it came from.
type settlement struct {
	kind              EventKind
	providerPaymentID string
	status            string
	statusDetail      string
	amount            float64
	currency          string
	intent            Intent
	identity          ResolvedIdentity
}

func (d *webhookDomain) Process(ctx context.Context, evt *InboundEvent) (*model.WebhookResult, error) {
	body := DecodeBody(evt.Body)
	kind := Classify(body, evt.Query)
	log := d.logger.With(
		zap.String("event_type", kind.Type),
		zap.String("subject_id", kind.SubjectID),
		zap.String("request_id", correlationID(ctx, evt)),
	)

	if err := d.verifier.Verify(evt, body); err != nil {
		log.Warn("webhook signature rejected", zap.Error(err))
		d.record(ctx, evt, kind, model.AuditStatusInvalidSignature, nil)
		d.metrics.RecordEvent(string(kind.Kind), outcomeInvalidSignature)
		return nil, err
	}

	switch kind.Kind {
	case KindPayment:
		return d.processPayment(ctx, evt, kind, log)
	case KindMerchantOrder:
		return d.processMerchantOrder(ctx, evt, kind, log)
	default:
		log.Info("webhook event not handled")
		d.record(ctx, evt, kind, model.AuditStatusReceived, nil)
		d.metrics.RecordEvent(string(kind.Kind), outcomeReceived)
		return &model.WebhookResult{OK: true, Processed: model.ProcessedReceived, ID: kind.SubjectID}, nil
	}
}

func (d *webhookDomain) processPayment(ctx context.Context, evt *InboundEvent, kind EventKind, log *zap.Logger) (*model.WebhookResult, error) {
	record, err := d.provider.FetchPayment(ctx, kind.SubjectID)
	if err != nil {
		return nil, d.providerFailure(ctx, evt, kind, log, err)
	}

	intent := ResolveIntent(record)
	identity := d.identity.Resolve(ctx, intent.UserExternalID)
	d.record(ctx, evt, kind, record.Status, auditHints(&intent, identity, record.ID))

	providerPaymentID := record.ID
	if providerPaymentID == "" {
		providerPaymentID = kind.SubjectID
	}

	return d.settle(ctx, log, &settlement{
		kind:              kind,
		providerPaymentID: providerPaymentID,
		status:            record.Status,
		statusDetail:      record.StatusDetail,
		amount:            record.Amount,
		currency:          record.CurrencyCode,
		intent:            intent,
		identity:          identity,
	})
}

func (d *webhookDomain) processMerchantOrder(ctx context.Context, evt *InboundEvent, kind EventKind, log *zap.Logger) (*model.WebhookResult, error) {
	order, err := d.provider.FetchMerchantOrder(ctx, kind.SubjectID)
	if err != nil {
		return nil, d.providerFailure(ctx, evt, kind, log, err)
	}

	intent := ResolveIntent(order)
	identity := d.identity.Resolve(ctx, intent.UserExternalID)
	approved := order.FirstApprovedPayment()

	status := order.Status
	paymentID := ""
	if approved != nil {
		status = approved.Status
		paymentID = approved.ID
	}
	d.record(ctx, evt, kind, status, auditHints(&intent, identity, paymentID))

	if approved == nil {
		log.Info("merchant order has no approved payment", zap.Int("payments", len(order.Payments)))
		d.metrics.RecordEvent(string(kind.Kind), outcomeNoApprovedPay)
		return &model.WebhookResult{OK: true, Processed: model.ProcessedMerchantOrder, ID: kind.SubjectID}, nil
	}

	amount := approved.Amount
	if amount == 0 {
		amount = order.Amount
	}
	currency := firstNonEmpty(approved.CurrencyCode, order.CurrencyCode)

	return d.settle(ctx, log, &settlement{
		kind:              kind,
		providerPaymentID: approved.ID,
		status:            approved.Status,
		statusDetail:      approved.StatusDetail,
		amount:            amount,
		currency:          currency,
		intent:            intent,
		identity:          identity,
	})
}

// settle routes the payment, writes the ledger and, for the claim holder
// only, applies the side effects.
func (d *webhookDomain) settle(ctx context.Context, log *zap.Logger, s *settlement) (*model.WebhookResult, error) {
	kindLabel := string(s.kind.Kind)
	log = log.With(zap.String("provider_payment_id", s.providerPaymentID), zap.String("status", s.status))

	// Lookups run before the ledger write so a storage failure here leaves
	// the payment unrecorded and the redelivery starts from scratch.
	plan, err := d.router.Route(ctx, s.status, &s.intent, s.identity)
	if err != nil {
		log.Error("fulfillment routing failed", zap.Error(err))
		d.metrics.RecordEvent(kindLabel, outcomeFulfillmentError)
		return nil, err
	}

	provider := d.provider.Name()
	res, err := d.ledger.RecordPayment(ctx, &outbound.LedgerRecord{
		Provider:          provider,
		ProviderPaymentID: s.providerPaymentID,
		Status:            s.status,
		StatusDetail:      s.statusDetail,
		Amount:            s.amount,
		Currency:          s.currency,
		UserExternalID:    s.identity.ExternalUserID,
		UserID:            s.identity.InternalUserID,
		ProductType:       string(s.intent.ProductType),
		Intent:            s.intent.JSON(),
	})
	if err != nil {
		log.Error("ledger write failed", zap.Error(err))
		d.metrics.RecordLedgerWrite("error")
		d.metrics.RecordEvent(kindLabel, outcomeLedgerError)
		return nil, fmt.Errorf("%w: %v", ErrLedgerUnavailable, err)
	}
	d.metrics.RecordLedgerWrite(ledgerResultLabel(res))

	ack := &model.WebhookResult{OK: true, Processed: kindLabel, ID: s.kind.SubjectID}

	if plan.Route == RouteNotApproved {
		log.Info("payment not approved, nothing to fulfill")
		if res.Inserted {
			d.markFulfillment(ctx, log, provider, s.providerPaymentID, model.FulfillmentSkipped, s.status)
		}
		d.metrics.RecordEvent(kindLabel, outcomeNotApproved)
		return ack, nil
	}

	if plan.SoftFailure != "" {
		log.Warn("payment approved but cannot be fulfilled",
			zap.String("reason", plan.SoftFailure),
			zap.Bool("claimed", res.Claimed))
		if res.Claimed {
			d.markFulfillment(ctx, log, provider, s.providerPaymentID, model.FulfillmentSoftFailed, plan.SoftFailure)
		}
		d.metrics.RecordEvent(kindLabel, outcomeSoftFailure)
		return &model.WebhookResult{OK: true, Processed: model.ProcessedError, ID: plan.SoftFailure}, nil
	}

	if !res.Claimed {
		log.Info("payment already fulfilled, skipping side effects")
		d.metrics.RecordEvent(kindLabel, outcomeDuplicate)
		return ack, nil
	}

	err = d.router.Apply(ctx, plan, PaymentRef{
		ProviderPaymentID: s.providerPaymentID,
		Amount:            s.amount,
		Currency:          s.currency,
	})
	if err != nil {
		log.Error("fulfillment failed", zap.String("route", string(plan.Route)), zap.Error(err))
		d.markFulfillment(ctx, log, provider, s.providerPaymentID, model.FulfillmentFailed, err.Error())
		d.metrics.RecordEvent(kindLabel, outcomeFulfillmentError)
		return nil, err
	}

	d.markFulfillment(ctx, log, provider, s.providerPaymentID, model.FulfillmentFulfilled, "")
	d.metrics.RecordEvent(kindLabel, outcomeFulfilled)
	log.Info("payment fulfilled", zap.String("route", string(plan.Route)))
	return ack, nil
}

func (d *webhookDomain) providerFailure(ctx context.Context, evt *InboundEvent, kind EventKind, log *zap.Logger, err error) error {
	log.Error("provider fetch failed", zap.Error(err))
	d.record(ctx, evt, kind, model.AuditStatusProviderError, map[string]any{"error": err.Error()})
	d.metrics.RecordEvent(string(kind.Kind), outcomeProviderError)
	if errors.Is(err, ErrProviderUnavailable) {
		return err
	}
	return fmt.Errorf("%w: %v", ErrProviderUnavailable, err)
}

func (d *webhookDomain) markFulfillment(ctx context.Context, log *zap.Logger, provider, providerPaymentID string, status model.FulfillmentStatus, detail string) {
	if err := d.ledger.MarkFulfillment(ctx, provider, providerPaymentID, status, detail); err != nil {
		log.Warn("failed to stamp fulfillment status", zap.String("fulfillment_status", string(status)), zap.Error(err))
	}
}

func (d *webhookDomain) record(ctx context.Context, evt *InboundEvent, kind EventKind, status string, hints map[string]any) {
	if hints == nil {
		hints = map[string]any{}
	}
	hints["kind"] = string(kind.Kind)
	if evt.Method != "" {
		hints["method"] = evt.Method
	}

	d.audit.Record(ctx, &AuditEntry{
		Provider:    d.provider.Name(),
		EventType:   kind.Type,
		SubjectID:   kind.SubjectID,
		Status:      status,
		RequestID:   evt.RequestID,
		Payload:     evt.Body,
		ContentType: evt.ContentType,
		Hints:       hints,
	})
}

func auditHints(intent *Intent, identity ResolvedIdentity, providerPaymentID string) map[string]any {
	hints := map[string]any{
		"product_type": string(intent.ProductType),
		"user_known":   identity.Known(),
	}
	if providerPaymentID != "" {
		hints["provider_payment_id"] = providerPaymentID
	}
	if intent.UserExternalID != "" {
		hints["user_external_id"] = intent.UserExternalID
	}
	if intent.CourseSlug != "" {
		hints["course_slug"] = intent.CourseSlug
	}
	if intent.OrganizationID != "" {
		hints["organization_id"] = intent.OrganizationID
	}
	return hints
}

func ledgerResultLabel(res *outbound.LedgerResult) string {
	switch {
	case res.Claimed:
		return "claimed"
	case res.Inserted:
		return "inserted"
	default:
		return "duplicate"
	}
}

// correlationID prefers the sender's request id and falls back to the one
// generated for the request.
func correlationID(ctx context.Context, evt *InboundEvent) string {
	if evt.RequestID != "" {
		return evt.RequestID
	}
	return requestctx.RequestID(ctx)
}
