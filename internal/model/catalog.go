package model

import (
	"strings"
	"time"
)

// Plan is a subscription plan organizations can upgrade to.
type Plan struct {
	ID        string    `json:"id" gorm:"primaryKey"`
	Slug      string    `json:"slug" gorm:"uniqueIndex;not null"`
	Name      string    `json:"name"`
	Active    bool      `json:"active" gorm:"default:true"`
	CreatedAt time.Time `json:"created_at"`
}

// TableName returns the database table name.
func (Plan) TableName() string {
	return "plans"
}

// Course is a purchasable course.
type Course struct {
	ID        string    `json:"id" gorm:"primaryKey"`
	Slug      string    `json:"slug" gorm:"uniqueIndex;not null"`
	Title     string    `json:"title"`
	CreatedAt time.Time `json:"created_at"`
}

// TableName returns the database table name.
func (Course) TableName() string {
	return "courses"
}

// BillingPeriod is the renewal cadence of an organization plan.
type BillingPeriod string

const (
	BillingPeriodMonthly BillingPeriod = "monthly"
	BillingPeriodYearly  BillingPeriod = "yearly"
)

// ParseBillingPeriod normalizes the values seen in payment metadata.
func ParseBillingPeriod(s string) (BillingPeriod, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "monthly", "month", "mensual":
		return BillingPeriodMonthly, true
	case "yearly", "year", "annual", "anual":
		return BillingPeriodYearly, true
	default:
		return "", false
	}
}

// Months returns the length of one billing period in months.
func (p BillingPeriod) Months() int {
	if p == BillingPeriodYearly {
		return 12
	}
	return 1
}
