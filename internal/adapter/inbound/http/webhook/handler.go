package webhookhttp

import (
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/learnhub/server/internal/domain/webhook"
	"github.com/learnhub/server/internal/model"
	apperrors "github.com/learnhub/server/internal/shared/errors"
)

const (
	signatureHeader = "x-signature"
	requestIDHeader = "x-request-id"

	maxBodyBytes = 1 << 20
)

// Handler handles MercadoPago webhook deliveries.
type Handler struct {
	domain webhook.WebhookDomain
	logger *zap.Logger
}

// NewHandler creates a new webhook handler.
func NewHandler(domain webhook.WebhookDomain, logger *zap.Logger) *Handler {
	return &Handler{domain: domain, logger: logger}
}

// RegisterRoutes registers the webhook route on r. Every method is routed
// here so that unsupported ones get the JSON 405 body.
func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	r.Any("/webhooks/mercadopago", h.Handle)
}

// Handle dispatches on the request method.
//
//	@Summary		Receive a MercadoPago webhook
//	@Tags			webhooks
//	@Accept			json
//	@Produce		json
//	@Param			x-signature	header		string	true	"ts=<unix>,v1=<hmac>"
//	@Success		200			{object}	model.WebhookResult
//	@Failure		401			{object}	model.WebhookResult
//	@Failure		413			{object}	model.WebhookResult
//	@Failure		500			{object}	model.WebhookResult
//	@Router			/webhooks/mercadopago [post]
func (h *Handler) Handle(c *gin.Context) {
	switch c.Request.Method {
	case http.MethodPost:
		h.receive(c)
	case http.MethodGet:
		if _, ok := c.GetQuery("ping"); ok {
			c.JSON(http.StatusOK, model.WebhookResult{OK: true, Processed: model.ProcessedPing})
			return
		}
		c.JSON(http.StatusOK, model.WebhookResult{OK: true})
	case http.MethodOptions:
		c.Status(http.StatusNoContent)
	default:
		writeError(c, apperrors.MethodNotAllowed())
	}
}

func (h *Handler) receive(c *gin.Context) {
	body, err := io.ReadAll(http.MaxBytesReader(c.Writer, c.Request.Body, maxBodyBytes))
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		h.logger.Warn("webhook body over limit", zap.Int64("limit", tooLarge.Limit))
		writeError(c, apperrors.TooLarge(err))
		return
	}
	if err != nil {
		h.logger.Error("read webhook body", zap.Error(err))
		writeError(c, apperrors.Internal("failed to read body", err))
		return
	}

	evt := &webhook.InboundEvent{
		Method:      c.Request.Method,
		Body:        body,
		ContentType: c.ContentType(),
		Query:       c.Request.URL.Query(),
		Signature:   c.GetHeader(signatureHeader),
		RequestID:   c.GetHeader(requestIDHeader),
		ReceivedAt:  time.Now(),
	}

	result, err := h.domain.Process(c.Request.Context(), evt)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// handleError maps webhook domain errors to HTTP responses. Anything but a
// bad signature answers 500 so the provider redelivers.
func (h *Handler) handleError(c *gin.Context, err error) {
	var appErr *apperrors.AppError

	switch {
	case errors.Is(err, webhook.ErrInvalidSignature):
		appErr = apperrors.Unauthorized("invalid signature", err)
	case errors.Is(err, webhook.ErrProviderUnavailable):
		appErr = apperrors.Unavailable("payment provider unavailable", err)
	case errors.Is(err, webhook.ErrLedgerUnavailable):
		appErr = apperrors.Unavailable("payment ledger unavailable", err)
	case errors.Is(err, webhook.ErrFulfillmentFailed):
		appErr = apperrors.Internal("fulfillment failed", err)
	default:
		appErr = apperrors.Internal("", err)
	}

	if appErr.StatusCode() >= http.StatusInternalServerError {
		h.logger.Error("webhook processing failed", zap.Stringer("kind", appErr.Kind), zap.Error(err))
	}
	writeError(c, appErr)
}

func writeError(c *gin.Context, err *apperrors.AppError) {
	c.JSON(err.StatusCode(), model.WebhookResult{OK: false, Error: err.Message})
}
