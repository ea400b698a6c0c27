package webhook

import (
	"context"
	"time"

	"github.com/learnhub/server/internal/port/outbound"
	"go.uber.org/zap"
)

// ResolvedIdentity is the result of translating an external user id.
// InternalUserID is empty when the user is unknown.
type ResolvedIdentity struct {
	ExternalUserID string
	InternalUserID string
}

// Known returns true if an internal user id was found.
func (r ResolvedIdentity) Known() bool {
	return r.InternalUserID != ""
}

// IdentityResolver translates external user ids. It never fails: store
// errors degrade to an unknown identity.
type IdentityResolver interface {
	Resolve(ctx context.Context, externalUserID string) ResolvedIdentity
}

type identityResolver struct {
	store  outbound.IdentityPort
	cache  outbound.IdentityCachePort
	ttl    time.Duration
	logger *zap.Logger
}

// NewIdentityResolver creates an identity resolver. cache may be nil.
func NewIdentityResolver(
	store outbound.IdentityPort,
	cache outbound.IdentityCachePort,
	ttl time.Duration,
	logger *zap.Logger,
) IdentityResolver {
	return &identityResolver{
		store:  store,
		cache:  cache,
		ttl:    ttl,
		logger: logger,
	}
}

func (r *identityResolver) Resolve(ctx context.Context, externalUserID string) ResolvedIdentity {
	identity := ResolvedIdentity{ExternalUserID: externalUserID}
	if externalUserID == "" {
		return identity
	}

	if r.cache != nil {
		internalID, ok, err := r.cache.Get(ctx, externalUserID)
		if err != nil {
			r.logger.Warn("identity cache read failed", zap.String("external_user_id", externalUserID), zap.Error(err))
		} else if ok {
			identity.InternalUserID = internalID
			return identity
		}
	}

	internalID, err := r.store.TranslateIdentity(ctx, externalUserID)
	if err != nil {
		r.logger.Warn("identity translation failed", zap.String("external_user_id", externalUserID), zap.Error(err))
		return identity
	}
	if internalID == "" {
		r.logger.Info("no internal user for external id", zap.String("external_user_id", externalUserID))
		return identity
	}
	identity.InternalUserID = internalID

	if r.cache != nil {
		if err := r.cache.Set(ctx, externalUserID, internalID, r.ttl); err != nil {
			r.logger.Warn("identity cache write failed", zap.String("external_user_id", externalUserID), zap.Error(err))
		}
	}
	return identity
}
