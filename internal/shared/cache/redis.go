package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/learnhub/server/internal/shared/config"
)

const (
	clientName  = "learnhub-webhooks"
	pingTimeout = 3 * time.Second
	// Identity lookups fall back to Postgres when a command times out.
	opTimeout = 250 * time.Millisecond
)

// NewRedisClient connects to the identity cache. It returns an error when the
// server does not answer a ping.
func NewRedisClient(ctx context.Context, cfg *config.RedisConfig) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:         cfg.Address,
		Password:     cfg.Password,
		DB:           cfg.DB,
		ClientName:   clientName,
		ReadTimeout:  opTimeout,
		WriteTimeout: opTimeout,
	})

	pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis %s: %w", cfg.Address, err)
	}
	return client, nil
}
