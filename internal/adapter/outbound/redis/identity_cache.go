package redis

import (
	"context"
	"time"

	"github.com/learnhub/server/internal/port/outbound"
	"github.com/redis/go-redis/v9"
)

const (
	identityKeyPrefix = "learnhub:identity:"
	identityCacheName = "identity"
)

// CacheRecorder observes cache lookups.
type CacheRecorder interface {
	RecordCacheHit(cache string)
	RecordCacheMiss(cache string)
}

// identityCacheAdapter implements outbound.IdentityCachePort.
type identityCacheAdapter struct {
	client  *redis.Client
	metrics CacheRecorder
}

// NewIdentityCacheAdapter creates a new identity cache adapter. metrics may be nil.
func NewIdentityCacheAdapter(client *redis.Client, metrics CacheRecorder) outbound.IdentityCachePort {
	return &identityCacheAdapter{client: client, metrics: metrics}
}

func (a *identityCacheAdapter) Get(ctx context.Context, externalUserID string) (string, bool, error) {
	val, err := a.client.Get(ctx, identityKey(externalUserID)).Result()
	if err == redis.Nil {
		a.recordMiss()
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	if a.metrics != nil {
		a.metrics.RecordCacheHit(identityCacheName)
	}
	return val, true, nil
}

func (a *identityCacheAdapter) Set(ctx context.Context, externalUserID, internalUserID string, ttl time.Duration) error {
	return a.client.Set(ctx, identityKey(externalUserID), internalUserID, ttl).Err()
}

func (a *identityCacheAdapter) recordMiss() {
	if a.metrics != nil {
		a.metrics.RecordCacheMiss(identityCacheName)
	}
}

func identityKey(externalUserID string) string {
	return identityKeyPrefix + externalUserID
}

// Compile-time check
var _ outbound.IdentityCachePort = (*identityCacheAdapter)(nil)
