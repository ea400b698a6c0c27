package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/learnhub/server/internal/model"
	"github.com/learnhub/server/internal/port/outbound"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const enrollmentStatusActive = "active"

// enrollmentAdapter implements outbound.EnrollmentPort.
type enrollmentAdapter struct {
	db *gorm.DB
}

// NewEnrollmentAdapter creates a new enrollment adapter.
func NewEnrollmentAdapter(db *gorm.DB) outbound.EnrollmentPort {
	return &enrollmentAdapter{db: db}
}

// UpsertEnrollment creates the enrollment, or extends an existing one by
// months from whichever is later of its expiry and now.
func (a *enrollmentAdapter) UpsertEnrollment(ctx context.Context, userID, courseID string, months int) (*model.Enrollment, error) {
	now := time.Now()
	enrollment := &model.Enrollment{
		ID:        uuid.New(),
		UserID:    userID,
		CourseID:  courseID,
		Status:    enrollmentStatusActive,
		ExpiresAt: now.AddDate(0, months, 0),
	}

	err := a.db.WithContext(ctx).
		Clauses(
			clause.OnConflict{
				Columns: []clause.Column{{Name: "user_id"}, {Name: "course_id"}},
				DoUpdates: clause.Assignments(map[string]interface{}{
					"status":     enrollmentStatusActive,
					"expires_at": gorm.Expr("GREATEST(enrollments.expires_at, NOW()) + make_interval(months => ?)", months),
					"updated_at": now,
				}),
			},
			clause.Returning{},
		).
		Create(enrollment).Error
	if err != nil {
		return nil, fmt.Errorf("upsert enrollment: %w", err)
	}
	return enrollment, nil
}

// Compile-time check
var _ outbound.EnrollmentPort = (*enrollmentAdapter)(nil)
