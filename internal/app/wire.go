//go:build wireinject
// +build wireinject

package app

import (
	"github.com/google/wire"
	"github.com/prometheus/client_golang/prometheus"
	goredis "github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/gorm"

	webhookhttp "github.com/learnhub/server/internal/adapter/inbound/http/webhook"
	"github.com/learnhub/server/internal/shared/config"
	"github.com/learnhub/server/internal/shared/logger"
	"github.com/learnhub/server/internal/shared/metrics"
)

// Dependencies holds all injected dependencies.
type Dependencies struct {
	Config    *config.Config
	DB        *gorm.DB
	Redis     *goredis.Client
	Logger    *logger.Logger
	ZapLogger *zap.Logger
	Registry  *prometheus.Registry
	Metrics   *metrics.Metrics

	// HTTP Handlers
	WebhookHandler *webhookhttp.Handler
}

// InitializeDependencies creates all dependencies using Wire.
func InitializeDependencies(cfg *config.Config) (*Dependencies, func(), error) {
	wire.Build(
		AppSet,
		wire.Struct(new(Dependencies), "*"),
	)
	return nil, nil, nil
}
