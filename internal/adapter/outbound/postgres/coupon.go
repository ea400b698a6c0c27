package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/learnhub/server/internal/model"
	"github.com/learnhub/server/internal/port/outbound"
	"gorm.io/gorm"
)

// ErrCouponExhausted is returned when a coupon has no redemptions left.
var ErrCouponExhausted = errors.New("coupon exhausted")

// couponAdapter implements outbound.CouponPort.
type couponAdapter struct {
	db *gorm.DB
}

// NewCouponAdapter creates a new coupon adapter.
func NewCouponAdapter(db *gorm.DB) outbound.CouponPort {
	return &couponAdapter{db: db}
}

func (a *couponAdapter) ResolveCouponIDByCode(ctx context.Context, code string) (string, error) {
	var coupon model.Coupon
	err := a.db.WithContext(ctx).Select("id").First(&coupon, "code = ?", code).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return coupon.ID, nil
}

// MarkCouponUsed increments the usage counter unless max_uses is reached.
func (a *couponAdapter) MarkCouponUsed(ctx context.Context, couponID string) error {
	res := a.db.WithContext(ctx).
		Model(&model.Coupon{}).
		Where("id = ? AND (max_uses = 0 OR used_count < max_uses)", couponID).
		Updates(map[string]interface{}{
			"used_count":       gorm.Expr("used_count + 1"),
			"last_redeemed_at": time.Now(),
		})
	if res.Error != nil {
		return fmt.Errorf("redeem coupon: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("%w: %s", ErrCouponExhausted, couponID)
	}
	return nil
}

// Compile-time check
var _ outbound.CouponPort = (*couponAdapter)(nil)
