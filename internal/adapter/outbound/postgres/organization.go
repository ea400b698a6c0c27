package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/learnhub/server/internal/model"
	"github.com/learnhub/server/internal/port/outbound"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ErrOrganizationNotFound is returned when a plan upgrade targets an
// organization that does not exist.
var ErrOrganizationNotFound = errors.New("organization not found")

const planStatusActive = "active"

// organizationAdapter implements outbound.OrganizationPort.
type organizationAdapter struct {
	db *gorm.DB
}

// NewOrganizationAdapter creates a new organization adapter.
func NewOrganizationAdapter(db *gorm.DB) outbound.OrganizationPort {
	return &organizationAdapter{db: db}
}

// UpgradeOrganizationPlan sets the organization plan and writes the upgrade
// history row in one transaction. Renewing the current plan before it lapses
// extends from the current period end.
func (a *organizationAdapter) UpgradeOrganizationPlan(ctx context.Context, upgrade *outbound.PlanUpgrade) error {
	return a.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var org model.Organization
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&org, "id = ?", upgrade.OrganizationID).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("%w: %s", ErrOrganizationNotFound, upgrade.OrganizationID)
		}
		if err != nil {
			return fmt.Errorf("lock organization: %w", err)
		}

		now := time.Now()
		periodEnd := nextPeriodEnd(&org, upgrade, now)

		err = tx.Model(&model.Organization{}).
			Where("id = ?", org.ID).
			Updates(map[string]interface{}{
				"plan_id":            upgrade.PlanID,
				"billing_period":     upgrade.BillingPeriod,
				"plan_status":        planStatusActive,
				"current_period_end": periodEnd,
				"updated_at":         now,
			}).Error
		if err != nil {
			return fmt.Errorf("update organization plan: %w", err)
		}

		history := &model.SubscriptionUpgrade{
			ID:                uuid.New(),
			OrganizationID:    org.ID,
			PlanID:            upgrade.PlanID,
			BillingPeriod:     upgrade.BillingPeriod,
			ProviderPaymentID: upgrade.ProviderPaymentID,
			Amount:            upgrade.Amount,
			Currency:          upgrade.Currency,
			PeriodEnd:         periodEnd,
		}
		if err := tx.Create(history).Error; err != nil {
			return fmt.Errorf("create subscription upgrade: %w", err)
		}
		return nil
	})
}

func nextPeriodEnd(org *model.Organization, upgrade *outbound.PlanUpgrade, now time.Time) time.Time {
	start := now
	samePlan := org.PlanID != nil && *org.PlanID == upgrade.PlanID
	if samePlan && org.CurrentPeriodEnd != nil && org.CurrentPeriodEnd.After(now) {
		start = *org.CurrentPeriodEnd
	}
	return start.AddDate(0, upgrade.BillingPeriod.Months(), 0)
}

// Compile-time check
var _ outbound.OrganizationPort = (*organizationAdapter)(nil)
