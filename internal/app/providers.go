package app

import (
	"context"
	"fmt"
	"net/http"

	"github.com/google/wire"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	goredis "github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/gorm"

	// Domains
	"github.com/learnhub/server/internal/domain/webhook"

	// Inbound adapters
	webhookhttp "github.com/learnhub/server/internal/adapter/inbound/http/webhook"

	// Ports
	"github.com/learnhub/server/internal/port/outbound"

	// Outbound adapters
	"github.com/learnhub/server/internal/adapter/outbound/mercadopago"
	"github.com/learnhub/server/internal/adapter/outbound/postgres"
	redisadapter "github.com/learnhub/server/internal/adapter/outbound/redis"
	s3adapter "github.com/learnhub/server/internal/adapter/outbound/s3"

	// Infrastructure
	"github.com/learnhub/server/internal/infra/httpclient"
	sharedcache "github.com/learnhub/server/internal/shared/cache"
	"github.com/learnhub/server/internal/shared/config"
	"github.com/learnhub/server/internal/shared/database"
	"github.com/learnhub/server/internal/shared/logger"
	"github.com/learnhub/server/internal/shared/metrics"
)

// ===== Infrastructure Providers =====

// InfraSet provides infrastructure dependencies.
var InfraSet = wire.NewSet(
	ProvideDatabase,
	ProvideRedisClient,
	ProvideHTTPClient,
	ProvideLogger,
	ProvideZapLogger,
	ProvideMetricsRegistry,
	ProvideMetrics,
)

// ProvideDatabase creates a database connection.
func ProvideDatabase(cfg *config.Config) (*gorm.DB, func(), error) {
	db, err := database.New(context.Background(), &cfg.Database, cfg.Log.Level == "debug")
	if err != nil {
		return nil, nil, err
	}
	return db, func() { _ = database.Close(db) }, nil
}

// ProvideRedisClient creates a Redis client. Redis only backs the identity
// cache, so a failed connection degrades to no cache.
func ProvideRedisClient(cfg *config.Config, zapLog *zap.Logger) (*goredis.Client, func()) {
	if cfg.Redis.Address == "" {
		return nil, func() {}
	}
	client, err := sharedcache.NewRedisClient(context.Background(), &cfg.Redis)
	if err != nil {
		zapLog.Warn("Redis connection failed, continuing without cache", zap.Error(err))
		return nil, func() {}
	}
	return client, func() { _ = client.Close() }
}

// ProvideLogger creates a logger instance.
func ProvideLogger(cfg *config.Config) *logger.Logger {
	return logger.New(&logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
	})
}

// ProvideZapLogger creates a zap logger instance.
func ProvideZapLogger(cfg *config.Config) (*zap.Logger, error) {
	return logger.NewZapLogger(&logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
	})
}

// ProvideHTTPClient creates a shared HTTP client with connection pooling.
func ProvideHTTPClient(cfg *config.Config) *http.Client {
	return httpclient.New(cfg.HTTPClient)
}

// ProvideMetricsRegistry creates the registry served on the metrics path.
func ProvideMetricsRegistry() *prometheus.Registry {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return reg
}

// ProvideMetrics creates a metrics instance.
func ProvideMetrics(cfg *config.Config, reg *prometheus.Registry) *metrics.Metrics {
	return metrics.NewWithRegistry(cfg.Metrics.Namespace, reg)
}

// ===== Outbound Adapter Providers =====

// AdapterSet provides outbound adapters.
var AdapterSet = wire.NewSet(
	postgres.NewPaymentLedgerAdapter,
	postgres.NewIdentityAdapter,
	postgres.NewPlanAdapter,
	postgres.NewCourseAdapter,
	postgres.NewOrganizationAdapter,
	postgres.NewEnrollmentAdapter,
	postgres.NewCouponAdapter,
	postgres.NewAuditLogAdapter,
	ProvidePaymentProvider,
	ProvideIdentityCache,
	ProvidePayloadArchive,
)

// ProvidePaymentProvider creates the MercadoPago client.
func ProvidePaymentProvider(cfg *config.Config, client *http.Client, m *metrics.Metrics, zapLog *zap.Logger) outbound.PaymentProviderPort {
	return mercadopago.NewClient(client, &cfg.MercadoPago, cfg.Breaker, m, zapLog.Named("mercadopago"))
}

// ProvideIdentityCache creates the identity cache, or nil without Redis.
func ProvideIdentityCache(client *goredis.Client, m *metrics.Metrics) outbound.IdentityCachePort {
	if client == nil {
		return nil
	}
	return redisadapter.NewIdentityCacheAdapter(client, m)
}

// ProvidePayloadArchive creates the S3 payload archive, or nil when no
// bucket is configured.
func ProvidePayloadArchive(cfg *config.Config) (outbound.PayloadArchivePort, error) {
	if !cfg.Storage.Enabled() {
		return nil, nil
	}
	client, err := s3adapter.NewClient(context.Background(), &cfg.Storage)
	if err != nil {
		return nil, fmt.Errorf("init payload archive: %w", err)
	}
	return s3adapter.NewPayloadArchiveAdapter(client, cfg.Storage.Bucket, cfg.Storage.Prefix), nil
}

// ===== Domain Providers =====

// DomainSet provides the webhook domain and its collaborators.
var DomainSet = wire.NewSet(
	ProvideIdentityResolver,
	ProvideFulfillmentRouter,
	ProvideAuditRecorder,
	ProvideSignatureVerifier,
	ProvideWebhookDomain,
)

// ProvideIdentityResolver creates the identity resolver.
func ProvideIdentityResolver(cfg *config.Config, store outbound.IdentityPort, cache outbound.IdentityCachePort, zapLog *zap.Logger) webhook.IdentityResolver {
	return webhook.NewIdentityResolver(store, cache, cfg.Redis.IdentityTTL, zapLog.Named("identity"))
}

// ProvideFulfillmentRouter creates the fulfillment router.
func ProvideFulfillmentRouter(
	plans outbound.PlanLookupPort,
	courses outbound.CourseLookupPort,
	organizations outbound.OrganizationPort,
	enrollments outbound.EnrollmentPort,
	coupons outbound.CouponPort,
	m *metrics.Metrics,
	zapLog *zap.Logger,
) *webhook.FulfillmentRouter {
	return webhook.NewFulfillmentRouter(plans, courses, organizations, enrollments, coupons, m, zapLog.Named("fulfillment"))
}

// ProvideAuditRecorder creates the audit recorder.
func ProvideAuditRecorder(log outbound.AuditLogPort, archive outbound.PayloadArchivePort, zapLog *zap.Logger) *webhook.AuditRecorder {
	return webhook.NewAuditRecorder(log, archive, zapLog.Named("audit"))
}

// ProvideSignatureVerifier creates the webhook signature verifier.
func ProvideSignatureVerifier(cfg *config.Config) *webhook.SignatureVerifier {
	return webhook.NewSignatureVerifier(cfg.MercadoPago.WebhookSecret, cfg.MercadoPago.SignatureTolerance)
}

// ProvideWebhookDomain creates the webhook domain.
func ProvideWebhookDomain(
	provider outbound.PaymentProviderPort,
	ledger outbound.PaymentLedgerPort,
	identity webhook.IdentityResolver,
	router *webhook.FulfillmentRouter,
	audit *webhook.AuditRecorder,
	verifier *webhook.SignatureVerifier,
	m *metrics.Metrics,
	zapLog *zap.Logger,
) webhook.WebhookDomain {
	return webhook.NewWebhookDomain(provider, ledger, identity, router, audit, verifier, m, zapLog.Named("webhook"))
}

// ===== HTTP Handler Providers =====

// HandlerSet provides inbound HTTP handlers.
var HandlerSet = wire.NewSet(
	ProvideWebhookHandler,
)

// ProvideWebhookHandler creates the webhook HTTP handler.
func ProvideWebhookHandler(domain webhook.WebhookDomain, zapLog *zap.Logger) *webhookhttp.Handler {
	return webhookhttp.NewHandler(domain, zapLog.Named("http"))
}

// AppSet is the complete provider set.
var AppSet = wire.NewSet(
	InfraSet,
	AdapterSet,
	DomainSet,
	HandlerSet,
)
