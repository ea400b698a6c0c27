package mercadopago

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/learnhub/server/internal/model"
	"github.com/learnhub/server/internal/port/outbound"
	"github.com/learnhub/server/internal/shared/config"
	"github.com/sony/gobreaker/v2"
	"go.uber.org/zap"
)

const (
	resourcePayment       = "payment"
	resourceMerchantOrder = "merchant_order"

	maxResponseBytes = 1 << 20
)

// StatusError is returned for non-2xx provider responses.
type StatusError struct {
	Resource   string
	ID         string
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("mercadopago %s %s: status %d", e.Resource, e.ID, e.StatusCode)
}

// FetchRecorder observes provider reads.
type FetchRecorder interface {
	RecordProviderFetch(resource string, duration time.Duration, err error)
}

// Client reads payments and merchant orders from the MercadoPago REST API.
type Client struct {
	httpClient  *http.Client
	baseURL     string
	accessToken string
	name        string
	breaker     *gobreaker.CircuitBreaker[any]
	metrics     FetchRecorder
	logger      *zap.Logger
}

// NewClient creates a MercadoPago client. metrics may be nil.
func NewClient(
	httpClient *http.Client,
	cfg *config.MercadoPagoConfig,
	breakerCfg config.BreakerConfig,
	metrics FetchRecorder,
	logger *zap.Logger,
) *Client {
	name := cfg.ProviderName
	if name == "" {
		name = "mercadopago"
	}
	threshold := breakerCfg.FailureThreshold
	if threshold == 0 {
		threshold = 5
	}

	settings := gobreaker.Settings{
		Name:        name,
		MaxRequests: breakerCfg.MaxRequests,
		Interval:    breakerCfg.Interval,
		Timeout:     breakerCfg.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= threshold
		},
		// 4xx answers mean the provider is up.
		IsSuccessful: func(err error) bool {
			var statusErr *StatusError
			if errors.As(err, &statusErr) {
				return statusErr.StatusCode < http.StatusInternalServerError
			}
			return err == nil
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn("provider circuit breaker state changed",
				zap.String("breaker", name),
				zap.String("from", from.String()),
				zap.String("to", to.String()))
		},
	}

	return &Client{
		httpClient:  httpClient,
		baseURL:     strings.TrimRight(cfg.BaseURL, "/"),
		accessToken: cfg.AccessToken,
		name:        name,
		breaker:     gobreaker.NewCircuitBreaker[any](settings),
		metrics:     metrics,
		logger:      logger,
	}
}

// Name returns the provider name used in the ledger.
func (c *Client) Name() string {
	return c.name
}

// FetchPayment reads GET /v1/payments/{id}.
func (c *Client) FetchPayment(ctx context.Context, id string) (*model.ExternalRecord, error) {
	raw, err := c.fetch(ctx, resourcePayment, "/v1/payments/"+url.PathEscape(id), id)
	if err != nil {
		return nil, err
	}

	var p paymentResponse
	if err := decodeJSON(raw, &p); err != nil {
		return nil, fmt.Errorf("decode payment %s: %w", id, err)
	}
	return p.toRecord(raw), nil
}

// FetchMerchantOrder reads GET /merchant_orders/{id}.
func (c *Client) FetchMerchantOrder(ctx context.Context, id string) (*model.ExternalRecord, error) {
	raw, err := c.fetch(ctx, resourceMerchantOrder, "/merchant_orders/"+url.PathEscape(id), id)
	if err != nil {
		return nil, err
	}

	var o merchantOrderResponse
	if err := decodeJSON(raw, &o); err != nil {
		return nil, fmt.Errorf("decode merchant order %s: %w", id, err)
	}
	return o.toRecord(raw), nil
}

// decodeJSON keeps metadata numbers as json.Number so large ids survive.
func decodeJSON(raw []byte, v any) error {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	return dec.Decode(v)
}

func (c *Client) fetch(ctx context.Context, resource, path, id string) ([]byte, error) {
	start := time.Now()
	res, err := c.breaker.Execute(func() (any, error) {
		return c.get(ctx, resource, path, id)
	})
	if c.metrics != nil {
		c.metrics.RecordProviderFetch(resource, time.Since(start), err)
	}
	if err != nil {
		return nil, err
	}
	return res.([]byte), nil
}

func (c *Client) get(ctx context.Context, resource, path, id string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.accessToken)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("mercadopago %s %s: %w", resource, id, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, fmt.Errorf("read %s %s: %w", resource, id, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		c.logger.Warn("provider returned non-2xx",
			zap.String("resource", resource),
			zap.String("id", id),
			zap.Int("status", resp.StatusCode))
		return nil, &StatusError{Resource: resource, ID: id, StatusCode: resp.StatusCode}
	}
	return body, nil
}

// Compile-time check
var _ outbound.PaymentProviderPort = (*Client)(nil)
