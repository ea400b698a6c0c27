package model

import (
	"time"

	"github.com/google/uuid"
)

// Organization holds the plan state that subscription payments upgrade.
type Organization struct {
	ID               string        `json:"id" gorm:"primaryKey"`
	Name             string        `json:"name"`
	PlanID           *string       `json:"plan_id,omitempty"`
	BillingPeriod    BillingPeriod `json:"billing_period,omitempty"`
	PlanStatus       string        `json:"plan_status" gorm:"default:inactive"`
	CurrentPeriodEnd *time.Time    `json:"current_period_end,omitempty"`
	CreatedAt        time.Time     `json:"created_at"`
	UpdatedAt        time.Time     `json:"updated_at"`
}

// TableName returns the database table name.
func (Organization) TableName() string {
	return "organizations"
}

// SubscriptionUpgrade is the history row written with every plan upgrade.
type SubscriptionUpgrade struct {
	ID                uuid.UUID     `json:"id" gorm:"type:uuid;primaryKey"`
	OrganizationID    string        `json:"organization_id" gorm:"not null;index"`
	PlanID            string        `json:"plan_id" gorm:"not null"`
	BillingPeriod     BillingPeriod `json:"billing_period"`
	ProviderPaymentID string        `json:"provider_payment_id" gorm:"not null"`
	Amount            float64       `json:"amount" gorm:"type:numeric(14,2)"`
	Currency          string        `json:"currency"`
	PeriodEnd         time.Time     `json:"period_end"`
	CreatedAt         time.Time     `json:"created_at"`
}

// TableName returns the database table name.
func (SubscriptionUpgrade) TableName() string {
	return "subscription_upgrades"
}
