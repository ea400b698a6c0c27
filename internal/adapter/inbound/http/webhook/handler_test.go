package webhookhttp

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/learnhub/server/internal/domain/webhook"
	"github.com/learnhub/server/internal/model"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type MockWebhookDomain struct {
	mock.Mock
}

func (m *MockWebhookDomain) Process(ctx context.Context, evt *webhook.InboundEvent) (*model.WebhookResult, error) {
	args := m.Called(ctx, evt)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.WebhookResult), args.Error(1)
}

func setupRouter(domain webhook.WebhookDomain) *gin.Engine {
	r := gin.New()
	h := NewHandler(domain, zap.NewNop())
	h.RegisterRoutes(r.Group("/api/v1"))
	h.RegisterRoutes(&r.RouterGroup)
	return r
}

func TestHandler_Methods(t *testing.T) {
	tests := []struct {
		name   string
		method string
		target string
		status int
		body   string
	}{
		{name: "ping", method: http.MethodGet, target: "/api/v1/webhooks/mercadopago?ping", status: http.StatusOK, body: `{"ok":true,"processed":"ping"}`},
		{name: "plain get", method: http.MethodGet, target: "/webhooks/mercadopago", status: http.StatusOK, body: `{"ok":true}`},
		{name: "options", method: http.MethodOptions, target: "/api/v1/webhooks/mercadopago", status: http.StatusNoContent},
		{name: "put", method: http.MethodPut, target: "/api/v1/webhooks/mercadopago", status: http.StatusMethodNotAllowed, body: `{"ok":false,"error":"method not allowed"}`},
		{name: "delete", method: http.MethodDelete, target: "/webhooks/mercadopago", status: http.StatusMethodNotAllowed, body: `{"ok":false,"error":"method not allowed"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			domain := new(MockWebhookDomain)
			w := httptest.NewRecorder()
			setupRouter(domain).ServeHTTP(w, httptest.NewRequest(tt.method, tt.target, nil))

			assert.Equal(t, tt.status, w.Code)
			if tt.body != "" {
				assert.JSONEq(t, tt.body, w.Body.String())
			}
			domain.AssertNotCalled(t, "Process", mock.Anything, mock.Anything)
		})
	}
}

func TestHandler_Post(t *testing.T) {
	domain := new(MockWebhookDomain)
	domain.On("Process", mock.Anything, mock.MatchedBy(func(evt *webhook.InboundEvent) bool {
		return evt.Method == http.MethodPost &&
			string(evt.Body) == `{"type":"payment","data":{"id":"123"}}` &&
			evt.ContentType == "application/json" &&
			evt.Query.Get("data.id") == "123" &&
			evt.Signature == "ts=1,v1=abc" &&
			evt.RequestID == "req-1"
	})).Return(&model.WebhookResult{OK: true, Processed: model.ProcessedPayment, ID: "123"}, nil)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/webhooks/mercadopago?data.id=123&type=payment",
		strings.NewReader(`{"type":"payment","data":{"id":"123"}}`))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-signature", "ts=1,v1=abc")
	req.Header.Set("x-request-id", "req-1")
	w := httptest.NewRecorder()
	setupRouter(domain).ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"ok":true,"processed":"payment","id":"123"}`, w.Body.String())
	domain.AssertExpectations(t)
}

func TestHandler_SoftFailureIsOK(t *testing.T) {
	domain := new(MockWebhookDomain)
	domain.On("Process", mock.Anything, mock.Anything).
		Return(&model.WebhookResult{OK: true, Processed: model.ProcessedError, ID: model.SoftFailureUserNotFound}, nil)

	w := httptest.NewRecorder()
	setupRouter(domain).ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/webhooks/mercadopago", strings.NewReader(`{}`)))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"ok":true,"processed":"error","id":"user_not_found"}`, w.Body.String())
}

func TestHandler_OversizedBody(t *testing.T) {
	domain := new(MockWebhookDomain)

	body := `{"type":"payment","data":{"id":"123"},"pad":"` + strings.Repeat("x", maxBodyBytes) + `"}`
	w := httptest.NewRecorder()
	setupRouter(domain).ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/v1/webhooks/mercadopago", strings.NewReader(body)))

	assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
	assert.JSONEq(t, `{"ok":false,"error":"payload too large"}`, w.Body.String())
	domain.AssertNotCalled(t, "Process", mock.Anything, mock.Anything)
}

func TestHandler_Errors(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
		body   string
	}{
		{
			name:   "invalid signature",
			err:    fmt.Errorf("%w: mismatch", webhook.ErrInvalidSignature),
			status: http.StatusUnauthorized,
			body:   `{"ok":false,"error":"invalid signature"}`,
		},
		{
			name:   "provider unavailable",
			err:    fmt.Errorf("%w: 503", webhook.ErrProviderUnavailable),
			status: http.StatusInternalServerError,
			body:   `{"ok":false,"error":"payment provider unavailable"}`,
		},
		{
			name:   "ledger unavailable",
			err:    fmt.Errorf("%w: conn reset", webhook.ErrLedgerUnavailable),
			status: http.StatusInternalServerError,
			body:   `{"ok":false,"error":"payment ledger unavailable"}`,
		},
		{
			name:   "fulfillment failed",
			err:    fmt.Errorf("%w: deadlock", webhook.ErrFulfillmentFailed),
			status: http.StatusInternalServerError,
			body:   `{"ok":false,"error":"fulfillment failed"}`,
		},
		{
			name:   "unexpected",
			err:    errors.New("boom"),
			status: http.StatusInternalServerError,
			body:   `{"ok":false,"error":"internal server error"}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			domain := new(MockWebhookDomain)
			domain.On("Process", mock.Anything, mock.Anything).Return(nil, tt.err)

			w := httptest.NewRecorder()
			setupRouter(domain).ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/v1/webhooks/mercadopago", strings.NewReader(`{}`)))

			assert.Equal(t, tt.status, w.Code)
			assert.JSONEq(t, tt.body, w.Body.String())
		})
	}
}
