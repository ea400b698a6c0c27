package postgres

import (
	"context"
	"errors"

	"github.com/learnhub/server/internal/model"
	"github.com/learnhub/server/internal/port/outbound"
	"gorm.io/gorm"
)

// courseAdapter implements outbound.CourseLookupPort.
type courseAdapter struct {
	db *gorm.DB
}

// NewCourseAdapter creates a new course lookup adapter.
func NewCourseAdapter(db *gorm.DB) outbound.CourseLookupPort {
	return &courseAdapter{db: db}
}

func (a *courseAdapter) ResolveCourseIDBySlug(ctx context.Context, slug string) (string, error) {
	var course model.Course
	err := a.db.WithContext(ctx).Select("id").First(&course, "slug = ?", slug).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", nil
		}
		return "", err
	}
	return course.ID, nil
}

// Compile-time check
var _ outbound.CourseLookupPort = (*courseAdapter)(nil)
