package postgres

import (
	"context"
	"errors"

	"github.com/learnhub/server/internal/model"
	"github.com/learnhub/server/internal/port/outbound"
	"gorm.io/gorm"
)

// identityAdapter implements outbound.IdentityPort.
type identityAdapter struct {
	db *gorm.DB
}

// NewIdentityAdapter creates a new identity translation adapter.
func NewIdentityAdapter(db *gorm.DB) outbound.IdentityPort {
	return &identityAdapter{db: db}
}

func (a *identityAdapter) TranslateIdentity(ctx context.Context, externalUserID string) (string, error) {
	var identity model.UserIdentity
	err := a.db.WithContext(ctx).First(&identity, "external_id = ?", externalUserID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return identity.UserID, nil
}

// Compile-time check
var _ outbound.IdentityPort = (*identityAdapter)(nil)
