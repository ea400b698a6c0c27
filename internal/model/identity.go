package model

import "time"

// UserIdentity maps an external user id, as embedded in payment metadata, to
// an internal user id.
type UserIdentity struct {
	ExternalID string    `gorm:"primaryKey"`
	UserID     string    `gorm:"not null;index"`
	CreatedAt  time.Time
}

// TableName returns the database table name.
func (UserIdentity) TableName() string {
	return "user_identities"
}
