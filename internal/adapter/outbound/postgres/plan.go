package postgres

import (
	"context"
	"errors"

	"github.com/learnhub/server/internal/model"
	"github.com/learnhub/server/internal/port/outbound"
	"gorm.io/gorm"
)

// planAdapter implements outbound.PlanLookupPort.
type planAdapter struct {
	db *gorm.DB
}

// NewPlanAdapter creates a new plan lookup adapter.
func NewPlanAdapter(db *gorm.DB) outbound.PlanLookupPort {
	return &planAdapter{db: db}
}

func (a *planAdapter) ResolvePlanIDBySlug(ctx context.Context, slug string) (string, error) {
	var plan model.Plan
	err := a.db.WithContext(ctx).
		Select("id").
		Where("slug = ? AND active = ?", slug, true).
		First(&plan).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", nil
		}
		return "", err
	}
	return plan.ID, nil
}

// Compile-time check
var _ outbound.PlanLookupPort = (*planAdapter)(nil)
