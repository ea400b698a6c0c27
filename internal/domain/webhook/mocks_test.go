package webhook

import (
	"context"
	"sync"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/learnhub/server/internal/model"
	"github.com/learnhub/server/internal/port/outbound"
)

// ===== Mock Implementations =====

type MockProvider struct {
	mock.Mock
}

func (m *MockProvider) Name() string {
	return "mercadopago"
}

func (m *MockProvider) FetchPayment(ctx context.Context, id string) (*model.ExternalRecord, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.ExternalRecord), args.Error(1)
}

func (m *MockProvider) FetchMerchantOrder(ctx context.Context, id string) (*model.ExternalRecord, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.ExternalRecord), args.Error(1)
}

type MockIdentityStore struct {
	mock.Mock
}

func (m *MockIdentityStore) TranslateIdentity(ctx context.Context, externalUserID string) (string, error) {
	args := m.Called(ctx, externalUserID)
	return args.String(0), args.Error(1)
}

type MockIdentityCache struct {
	mock.Mock
}

func (m *MockIdentityCache) Get(ctx context.Context, externalUserID string) (string, bool, error) {
	args := m.Called(ctx, externalUserID)
	return args.String(0), args.Bool(1), args.Error(2)
}

func (m *MockIdentityCache) Set(ctx context.Context, externalUserID, internalUserID string, ttl time.Duration) error {
	args := m.Called(ctx, externalUserID, internalUserID, ttl)
	return args.Error(0)
}

type MockPlanLookup struct {
	mock.Mock
}

func (m *MockPlanLookup) ResolvePlanIDBySlug(ctx context.Context, slug string) (string, error) {
	args := m.Called(ctx, slug)
	return args.String(0), args.Error(1)
}

type MockCourseLookup struct {
	mock.Mock
}

func (m *MockCourseLookup) ResolveCourseIDBySlug(ctx context.Context, slug string) (string, error) {
	args := m.Called(ctx, slug)
	return args.String(0), args.Error(1)
}

type MockOrganizations struct {
	mock.Mock
}

func (m *MockOrganizations) UpgradeOrganizationPlan(ctx context.Context, upgrade *outbound.PlanUpgrade) error {
	args := m.Called(ctx, upgrade)
	return args.Error(0)
}

type MockEnrollments struct {
	mock.Mock
}

func (m *MockEnrollments) UpsertEnrollment(ctx context.Context, userID, courseID string, months int) (*model.Enrollment, error) {
	args := m.Called(ctx, userID, courseID, months)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Enrollment), args.Error(1)
}

type MockCoupons struct {
	mock.Mock
}

func (m *MockCoupons) ResolveCouponIDByCode(ctx context.Context, code string) (string, error) {
	args := m.Called(ctx, code)
	return args.String(0), args.Error(1)
}

func (m *MockCoupons) MarkCouponUsed(ctx context.Context, couponID string) error {
	args := m.Called(ctx, couponID)
	return args.Error(0)
}

type MockAuditLog struct {
	mock.Mock
}

func (m *MockAuditLog) AppendEvent(ctx context.Context, event *model.WebhookAuditEvent) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}

type MockArchive struct {
	mock.Mock
}

func (m *MockArchive) Archive(ctx context.Context, key string, payload []byte, contentType string) error {
	args := m.Called(ctx, key, payload, contentType)
	return args.Error(0)
}

type MockLedger struct {
	mock.Mock
}

func (m *MockLedger) RecordPayment(ctx context.Context, rec *outbound.LedgerRecord) (*outbound.LedgerResult, error) {
	args := m.Called(ctx, rec)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*outbound.LedgerResult), args.Error(1)
}

func (m *MockLedger) MarkFulfillment(ctx context.Context, provider, providerPaymentID string, status model.FulfillmentStatus, detail string) error {
	args := m.Called(ctx, provider, providerPaymentID, status, detail)
	return args.Error(0)
}

// memoryLedger mirrors the conditional writes of the postgres ledger under a
// mutex, so concurrent deliveries race the same way they do in the database.
type memoryLedger struct {
	mu      sync.Mutex
	entries map[string]*model.PaymentLedgerEntry
}

func newMemoryLedger() *memoryLedger {
	return &memoryLedger{entries: make(map[string]*model.PaymentLedgerEntry)}
}

func (l *memoryLedger) RecordPayment(_ context.Context, rec *outbound.LedgerRecord) (*outbound.LedgerResult, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	key := rec.Provider + "/" + rec.ProviderPaymentID
	approved := rec.Status == model.ExternalStatusApproved

	entry, ok := l.entries[key]
	if !ok {
		l.entries[key] = &model.PaymentLedgerEntry{
			Provider:          rec.Provider,
			ProviderPaymentID: rec.ProviderPaymentID,
			Status:            rec.Status,
			Amount:            rec.Amount,
			Currency:          rec.Currency,
			ProductType:       rec.ProductType,
			Intent:            rec.Intent,
			FulfillmentStatus: model.FulfillmentPending,
		}
		return &outbound.LedgerResult{Inserted: true, Claimed: approved}, nil
	}

	if !approved {
		if entry.Status != model.ExternalStatusApproved {
			entry.Status = rec.Status
		}
		return &outbound.LedgerResult{}, nil
	}
	if entry.Status != model.ExternalStatusApproved || entry.FulfillmentStatus == model.FulfillmentFailed {
		entry.Status = rec.Status
		entry.FulfillmentStatus = model.FulfillmentPending
		entry.FulfillmentError = ""
		return &outbound.LedgerResult{Claimed: true}, nil
	}
	return &outbound.LedgerResult{}, nil
}

func (l *memoryLedger) MarkFulfillment(_ context.Context, provider, providerPaymentID string, status model.FulfillmentStatus, detail string) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if entry, ok := l.entries[provider+"/"+providerPaymentID]; ok {
		entry.FulfillmentStatus = status
		entry.FulfillmentError = detail
	}
	return nil
}

// lookup returns a copy of the stored entry, or nil.
func (l *memoryLedger) lookup(provider, providerPaymentID string) *model.PaymentLedgerEntry {
	l.mu.Lock()
	defer l.mu.Unlock()
	entry, ok := l.entries[provider+"/"+providerPaymentID]
	if !ok {
		return nil
	}
	cp := *entry
	return &cp
}

func (l *memoryLedger) len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.entries)
}

type recordingMetrics struct {
	mu     sync.Mutex
	events map[string]int
}

func newRecordingMetrics() *recordingMetrics {
	return &recordingMetrics{events: make(map[string]int)}
}

func (r *recordingMetrics) RecordEvent(kind, outcome string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events[kind+"/"+outcome]++
}

func (r *recordingMetrics) RecordLedgerWrite(string)        {}
func (r *recordingMetrics) RecordSideEffect(string, string) {}

func (r *recordingMetrics) count(kind, outcome string) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.events[kind+"/"+outcome]
}
