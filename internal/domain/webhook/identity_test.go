package webhook

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.uber.org/zap"
)

func TestIdentityResolver_Resolve(t *testing.T) {
	ctx := context.Background()
	ttl := 10 * time.Minute

	t.Run("cache hit skips store", func(t *testing.T) {
		store := new(MockIdentityStore)
		cache := new(MockIdentityCache)
		cache.On("Get", ctx, "U1").Return("u-1", true, nil)

		got := NewIdentityResolver(store, cache, ttl, zap.NewNop()).Resolve(ctx, "U1")

		assert.Equal(t, ResolvedIdentity{ExternalUserID: "U1", InternalUserID: "u-1"}, got)
		store.AssertNotCalled(t, "TranslateIdentity", mock.Anything, mock.Anything)
	})

	t.Run("cache miss reads store and fills cache", func(t *testing.T) {
		store := new(MockIdentityStore)
		cache := new(MockIdentityCache)
		cache.On("Get", ctx, "U1").Return("", false, nil)
		store.On("TranslateIdentity", ctx, "U1").Return("u-1", nil)
		cache.On("Set", ctx, "U1", "u-1", ttl).Return(nil)

		got := NewIdentityResolver(store, cache, ttl, zap.NewNop()).Resolve(ctx, "U1")

		assert.True(t, got.Known())
		cache.AssertExpectations(t)
	})

	t.Run("unknown user is not cached", func(t *testing.T) {
		store := new(MockIdentityStore)
		cache := new(MockIdentityCache)
		cache.On("Get", ctx, "U2").Return("", false, nil)
		store.On("TranslateIdentity", ctx, "U2").Return("", nil)

		got := NewIdentityResolver(store, cache, ttl, zap.NewNop()).Resolve(ctx, "U2")

		assert.False(t, got.Known())
		assert.Equal(t, "U2", got.ExternalUserID)
		cache.AssertNotCalled(t, "Set", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("errors degrade to unknown", func(t *testing.T) {
		store := new(MockIdentityStore)
		cache := new(MockIdentityCache)
		cache.On("Get", ctx, "U1").Return("", false, errors.New("redis down"))
		store.On("TranslateIdentity", ctx, "U1").Return("", errors.New("db down"))

		got := NewIdentityResolver(store, cache, ttl, zap.NewNop()).Resolve(ctx, "U1")
		assert.False(t, got.Known())
	})

	t.Run("nil cache", func(t *testing.T) {
		store := new(MockIdentityStore)
		store.On("TranslateIdentity", ctx, "U1").Return("u-1", nil)

		got := NewIdentityResolver(store, nil, ttl, zap.NewNop()).Resolve(ctx, "U1")
		assert.Equal(t, "u-1", got.InternalUserID)
	})

	t.Run("empty external id", func(t *testing.T) {
		store := new(MockIdentityStore)

		got := NewIdentityResolver(store, nil, ttl, zap.NewNop()).Resolve(ctx, "")
		assert.False(t, got.Known())
		store.AssertNotCalled(t, "TranslateIdentity", mock.Anything, mock.Anything)
	})
}
