package app

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	webhookhttp "github.com/learnhub/server/internal/adapter/inbound/http/webhook"
	"github.com/learnhub/server/internal/shared/config"
	"github.com/learnhub/server/internal/shared/logger"
	"github.com/learnhub/server/internal/shared/metrics"
	"github.com/learnhub/server/internal/shared/middleware"
)

// App is the webhook reconciliation server.
type App struct {
	config    *config.Config
	router    *gin.Engine
	logger    *logger.Logger
	zapLogger *zap.Logger
	cleanup   func()
}

// New creates a new application instance.
func New(cfg *config.Config) (*App, error) {
	deps, cleanup, err := InitializeDependencies(cfg)
	if err != nil {
		return nil, fmt.Errorf("init dependencies: %w", err)
	}

	app := &App{
		config:    cfg,
		logger:    deps.Logger,
		zapLogger: deps.ZapLogger,
		cleanup:   cleanup,
	}
	app.router = NewRouter(cfg, deps.Logger, deps.Metrics, deps.Registry, deps.WebhookHandler)

	deps.ZapLogger.Info("application initialized",
		zap.String("provider", cfg.MercadoPago.ProviderName),
		zap.Bool("identity_cache", deps.Redis != nil),
		zap.Bool("payload_archive", cfg.Storage.Enabled()))

	return app, nil
}

// NewRouter builds the HTTP router. The webhook route is served both under
// /api/v1 and at the root.
func NewRouter(
	cfg *config.Config,
	log *logger.Logger,
	m *metrics.Metrics,
	reg *prometheus.Registry,
	webhookHandler *webhookhttp.Handler,
) *gin.Engine {
	if cfg.Log.Level == "debug" {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	r.Use(middleware.Recovery(log))
	r.Use(middleware.RequestID())
	r.Use(middleware.Logging(log))
	r.Use(middleware.Metrics(m, "/health", cfg.Metrics.Path))
	r.Use(middleware.CORS(cfg.CORS.AllowOrigins...))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	if cfg.Metrics.Enabled {
		path := cfg.Metrics.Path
		if path == "" {
			path = "/metrics"
		}
		r.GET(path, gin.WrapH(promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg})))
	}

	webhookHandler.RegisterRoutes(r.Group("/api/v1"))
	webhookHandler.RegisterRoutes(&r.RouterGroup)

	return r
}

// Router returns the HTTP handler.
func (a *App) Router() *gin.Engine {
	return a.router
}

// Stop releases resources.
func (a *App) Stop() {
	if a.cleanup != nil {
		a.cleanup()
	}
	if a.zapLogger != nil {
		_ = a.zapLogger.Sync()
	}
}
