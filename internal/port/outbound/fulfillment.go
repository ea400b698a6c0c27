package outbound

import (
	"context"

	"github.com/learnhub/server/internal/model"
)

// PlanLookupPort resolves plan slugs.
type PlanLookupPort interface {
	// ResolvePlanIDBySlug returns the plan id, or "" when no plan matches.
	ResolvePlanIDBySlug(ctx context.Context, slug string) (string, error)
}

// CourseLookupPort resolves course slugs.
type CourseLookupPort interface {
	// ResolveCourseIDBySlug returns the course id, or "" when no course matches.
	ResolveCourseIDBySlug(ctx context.Context, slug string) (string, error)
}

// PlanUpgrade describes a paid organization plan change.
type PlanUpgrade struct {
	OrganizationID    string
	PlanID            string
	BillingPeriod     model.BillingPeriod
	ProviderPaymentID string
	Amount            float64
	Currency          string
}

// OrganizationPort applies plan state to organizations.
type OrganizationPort interface {
	// UpgradeOrganizationPlan is not idempotent on its own; callers gate it
	// on the ledger claim.
	UpgradeOrganizationPlan(ctx context.Context, upgrade *PlanUpgrade) error
}

// EnrollmentPort grants course access.
type EnrollmentPort interface {
	// UpsertEnrollment creates the enrollment or extends it by months.
	UpsertEnrollment(ctx context.Context, userID, courseID string, months int) (*model.Enrollment, error)
}

// CouponPort redeems coupons.
type CouponPort interface {
	// ResolveCouponIDByCode returns the coupon id, or "" when unknown.
	ResolveCouponIDByCode(ctx context.Context, code string) (string, error)

	// MarkCouponUsed records one redemption.
	MarkCouponUsed(ctx context.Context, couponID string) error
}
