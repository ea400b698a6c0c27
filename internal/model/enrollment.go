package model

import (
	"time"

	"github.com/google/uuid"
)

// Enrollment grants a user access to a course until ExpiresAt.
// (user_id, course_id) is unique; repeat purchases extend ExpiresAt.
type Enrollment struct {
	ID        uuid.UUID `json:"id" gorm:"type:uuid;primaryKey"`
	UserID    string    `json:"user_id" gorm:"not null;uniqueIndex:idx_enrollment_user_course"`
	CourseID  string    `json:"course_id" gorm:"not null;uniqueIndex:idx_enrollment_user_course"`
	Status    string    `json:"status" gorm:"default:active"`
	ExpiresAt time.Time `json:"expires_at"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName returns the database table name.
func (Enrollment) TableName() string {
	return "enrollments"
}
