package metrics

import (
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func newTestMetrics() *Metrics {
	return NewWithRegistry("test", prometheus.NewRegistry())
}

func TestRecordHTTPRequest(t *testing.T) {
	m := newTestMetrics()

	m.RecordHTTPRequest("POST", "/api/v1/webhooks/mercadopago", 200, 15*time.Millisecond)
	m.RecordHTTPRequest("POST", "/api/v1/webhooks/mercadopago", 500, 5*time.Millisecond)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.HTTPRequestsTotal.WithLabelValues("POST", "/api/v1/webhooks/mercadopago", "2xx")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.HTTPRequestsTotal.WithLabelValues("POST", "/api/v1/webhooks/mercadopago", "5xx")))
}

func TestWebhookCounters(t *testing.T) {
	m := newTestMetrics()

	m.RecordEvent("payment", "processed")
	m.RecordEvent("payment", "processed")
	m.RecordLedgerWrite("claimed")
	m.RecordSideEffect("enrollment", "applied")

	assert.Equal(t, 2.0, testutil.ToFloat64(m.WebhookEventsTotal.WithLabelValues("payment", "processed")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.LedgerWritesTotal.WithLabelValues("claimed")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.SideEffectsTotal.WithLabelValues("enrollment", "applied")))
}

func TestRecordProviderFetch(t *testing.T) {
	m := newTestMetrics()

	m.RecordProviderFetch("payment", 100*time.Millisecond, nil)
	m.RecordProviderFetch("payment", 100*time.Millisecond, errors.New("timeout"))

	assert.Equal(t, 1.0, testutil.ToFloat64(m.ProviderFetchErrorTotal.WithLabelValues("payment")))
	assert.Equal(t, 1, testutil.CollectAndCount(m.ProviderFetchDuration))
}

func TestCacheCounters(t *testing.T) {
	m := newTestMetrics()

	m.RecordCacheHit("identity")
	m.RecordCacheMiss("identity")
	m.RecordCacheMiss("identity")

	assert.Equal(t, 1.0, testutil.ToFloat64(m.CacheHitsTotal.WithLabelValues("identity")))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.CacheMissesTotal.WithLabelValues("identity")))
}

func TestStatusCodeToString(t *testing.T) {
	assert.Equal(t, "2xx", statusCodeToString(204))
	assert.Equal(t, "3xx", statusCodeToString(302))
	assert.Equal(t, "4xx", statusCodeToString(405))
	assert.Equal(t, "5xx", statusCodeToString(503))
	assert.Equal(t, "unknown", statusCodeToString(100))
}
