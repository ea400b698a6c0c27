package model

import "time"

// Coupon is a discount code. MaxUses of 0 means unlimited.
type Coupon struct {
	ID             string     `json:"id" gorm:"primaryKey"`
	Code           string     `json:"code" gorm:"uniqueIndex;not null"`
	MaxUses        int        `json:"max_uses"`
	UsedCount      int        `json:"used_count"`
	LastRedeemedAt *time.Time `json:"last_redeemed_at,omitempty"`
	CreatedAt      time.Time  `json:"created_at"`
}

// TableName returns the database table name.
func (Coupon) TableName() string {
	return "coupons"
}
