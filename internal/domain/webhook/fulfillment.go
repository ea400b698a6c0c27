package webhook

import (
	"context"
	"fmt"

	"github.com/learnhub/server/internal/model"
	"github.com/learnhub/server/internal/port/outbound"
	"go.uber.org/zap"
)

// Route is the fulfillment branch chosen for a payment.
type Route string

const (
	RouteNotApproved  Route = "not_approved"
	RouteSubscription Route = "subscription"
	RouteCourse       Route = "course"
)

// Side effect names used for metrics and logs.
const (
	effectSubscription = "subscription_upgrade"
	effectEnrollment   = "enrollment"
	effectCoupon       = "coupon"
)

// FulfillmentPlan is the routed and resolved set of side effects for one
// approved payment. SoftFailure is set when required data is missing.
type FulfillmentPlan struct {
	Route       Route
	SoftFailure string

	OrganizationID string
	PlanID         string
	BillingPeriod  model.BillingPeriod

	UserID   string
	CourseID string
	Months   int

	CouponID   string
	CouponCode string
}

// PaymentRef identifies the settled payment a plan is applied for.
type PaymentRef struct {
	ProviderPaymentID string
	Amount            float64
	Currency          string
}

// FulfillmentRouter routes approved payments to the subscription or course
// branch and applies the resulting side effects. It serves both payment and
// merchant order events.
type FulfillmentRouter struct {
	plans         outbound.PlanLookupPort
	courses       outbound.CourseLookupPort
	organizations outbound.OrganizationPort
	enrollments   outbound.EnrollmentPort
	coupons       outbound.CouponPort
	metrics       outbound.WebhookMetricsPort
	logger        *zap.Logger
}

// NewFulfillmentRouter creates a fulfillment router. metrics may be nil.
func NewFulfillmentRouter(
	plans outbound.PlanLookupPort,
	courses outbound.CourseLookupPort,
	organizations outbound.OrganizationPort,
	enrollments outbound.EnrollmentPort,
	coupons outbound.CouponPort,
	metrics outbound.WebhookMetricsPort,
	logger *zap.Logger,
) *FulfillmentRouter {
	if metrics == nil {
		metrics = nopMetrics{}
	}
	return &FulfillmentRouter{
		plans:         plans,
		courses:       courses,
		organizations: organizations,
		enrollments:   enrollments,
		coupons:       coupons,
		metrics:       metrics,
		logger:        logger,
	}
}

// Route validates the intent and performs the read-only lookups. It has no
// side effects, so it returns the same plan for every redelivery. Errors are
// storage failures only.
func (r *FulfillmentRouter) Route(ctx context.Context, status string, intent *Intent, identity ResolvedIdentity) (*FulfillmentPlan, error) {
	if status != model.ExternalStatusApproved {
		return &FulfillmentPlan{Route: RouteNotApproved}, nil
	}

	plan := &FulfillmentPlan{
		CouponID:   intent.CouponID,
		CouponCode: intent.CouponCode,
	}

	if intent.ProductType == ProductSubscription {
		plan.Route = RouteSubscription
		return plan, r.routeSubscription(ctx, intent, plan)
	}

	plan.Route = RouteCourse
	return plan, r.routeCourse(ctx, intent, identity, plan)
}

func (r *FulfillmentRouter) routeSubscription(ctx context.Context, intent *Intent, plan *FulfillmentPlan) error {
	period, ok := model.ParseBillingPeriod(intent.BillingPeriod)
	if intent.OrganizationID == "" || !ok {
		plan.SoftFailure = model.SoftFailureMissingPlanData
		return nil
	}
	plan.OrganizationID = intent.OrganizationID
	plan.BillingPeriod = period

	planID := intent.PlanID
	if planID == "" && intent.PlanSlug != "" {
		resolved, err := r.plans.ResolvePlanIDBySlug(ctx, intent.PlanSlug)
		if err != nil {
			return fmt.Errorf("%w: resolve plan %q: %v", ErrFulfillmentFailed, intent.PlanSlug, err)
		}
		planID = resolved
	}
	if planID == "" {
		plan.SoftFailure = model.SoftFailurePlanNotFound
		return nil
	}
	plan.PlanID = planID
	return nil
}

func (r *FulfillmentRouter) routeCourse(ctx context.Context, intent *Intent, identity ResolvedIdentity, plan *FulfillmentPlan) error {
	if intent.CourseSlug == "" {
		plan.SoftFailure = model.SoftFailureMissingCourseData
		return nil
	}

	courseID, err := r.courses.ResolveCourseIDBySlug(ctx, intent.CourseSlug)
	if err != nil {
		return fmt.Errorf("%w: resolve course %q: %v", ErrFulfillmentFailed, intent.CourseSlug, err)
	}
	if courseID == "" {
		plan.SoftFailure = model.SoftFailureCourseNotFound
		return nil
	}
	if !identity.Known() {
		plan.SoftFailure = model.SoftFailureUserNotFound
		return nil
	}

	plan.CourseID = courseID
	plan.UserID = identity.InternalUserID
	plan.Months = intent.Months
	return nil
}

// Apply runs the side effects of a routed plan. It must only be called by
// the holder of the ledger claim for the payment.
func (r *FulfillmentRouter) Apply(ctx context.Context, plan *FulfillmentPlan, payment PaymentRef) error {
	if plan.SoftFailure != "" || plan.Route == RouteNotApproved {
		return nil
	}

	switch plan.Route {
	case RouteSubscription:
		err := r.organizations.UpgradeOrganizationPlan(ctx, &outbound.PlanUpgrade{
			OrganizationID:    plan.OrganizationID,
			PlanID:            plan.PlanID,
			BillingPeriod:     plan.BillingPeriod,
			ProviderPaymentID: payment.ProviderPaymentID,
			Amount:            payment.Amount,
			Currency:          payment.Currency,
		})
		if err != nil {
			r.metrics.RecordSideEffect(effectSubscription, "error")
			return fmt.Errorf("%w: upgrade organization %s: %v", ErrFulfillmentFailed, plan.OrganizationID, err)
		}
		r.metrics.RecordSideEffect(effectSubscription, "applied")
		r.logger.Info("organization plan upgraded",
			zap.String("organization_id", plan.OrganizationID),
			zap.String("plan_id", plan.PlanID),
			zap.String("billing_period", string(plan.BillingPeriod)),
			zap.String("provider_payment_id", payment.ProviderPaymentID))

	case RouteCourse:
		enrollment, err := r.enrollments.UpsertEnrollment(ctx, plan.UserID, plan.CourseID, plan.Months)
		if err != nil {
			r.metrics.RecordSideEffect(effectEnrollment, "error")
			return fmt.Errorf("%w: upsert enrollment: %v", ErrFulfillmentFailed, err)
		}
		r.metrics.RecordSideEffect(effectEnrollment, "applied")
		fields := []zap.Field{
			zap.String("user_id", plan.UserID),
			zap.String("course_id", plan.CourseID),
			zap.Int("months", plan.Months),
			zap.String("provider_payment_id", payment.ProviderPaymentID),
		}
		if enrollment != nil {
			fields = append(fields, zap.Time("expires_at", enrollment.ExpiresAt))
		}
		r.logger.Info("enrollment granted", fields...)
	}

	r.redeemCoupon(ctx, plan)
	return nil
}

// redeemCoupon is best-effort; a failed redemption never fails the payment.
func (r *FulfillmentRouter) redeemCoupon(ctx context.Context, plan *FulfillmentPlan) {
	couponID := plan.CouponID
	if couponID == "" && plan.CouponCode != "" {
		resolved, err := r.coupons.ResolveCouponIDByCode(ctx, plan.CouponCode)
		if err != nil {
			r.metrics.RecordSideEffect(effectCoupon, "error")
			r.logger.Warn("coupon lookup failed", zap.String("coupon_code", plan.CouponCode), zap.Error(err))
			return
		}
		couponID = resolved
	}
	if couponID == "" {
		if plan.CouponCode != "" {
			r.metrics.RecordSideEffect(effectCoupon, "not_found")
			r.logger.Warn("coupon not found", zap.String("coupon_code", plan.CouponCode))
		}
		return
	}

	if err := r.coupons.MarkCouponUsed(ctx, couponID); err != nil {
		r.metrics.RecordSideEffect(effectCoupon, "error")
		r.logger.Warn("coupon redemption failed", zap.String("coupon_id", couponID), zap.Error(err))
		return
	}
	r.metrics.RecordSideEffect(effectCoupon, "applied")
}
