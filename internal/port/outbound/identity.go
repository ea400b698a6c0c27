package outbound

import (
	"context"
	"time"
)

// IdentityPort translates external user ids into internal user ids.
type IdentityPort interface {
	// TranslateIdentity returns the internal id, or "" when unknown.
	TranslateIdentity(ctx context.Context, externalUserID string) (string, error)
}

// IdentityCachePort caches identity translations.
type IdentityCachePort interface {
	// Get returns the cached internal id and whether it was present.
	Get(ctx context.Context, externalUserID string) (string, bool, error)

	// Set caches a translation.
	Set(ctx context.Context, externalUserID, internalUserID string, ttl time.Duration) error
}
