package model

// Response labels for the processed field.
const (
	ProcessedPayment       = "payment"
	ProcessedMerchantOrder = "merchant_order"
	ProcessedReceived      = "received"
	ProcessedPing          = "ping"
	ProcessedError         = "error"
)

// Soft failure ids returned with ProcessedError.
const (
	SoftFailureMissingPlanData   = "missing_plan_data"
	SoftFailurePlanNotFound      = "plan_not_found"
	SoftFailureMissingCourseData = "missing_course_data"
	SoftFailureCourseNotFound    = "course_not_found"
	SoftFailureUserNotFound      = "user_not_found"
)

// WebhookResult is the acknowledgement body returned to the provider.
type WebhookResult struct {
	OK        bool   `json:"ok"`
	Processed string `json:"processed,omitempty"`
	ID        string `json:"id,omitempty"`
	Error     string `json:"error,omitempty"`
}

// IsSoftFailure returns true if the result reports a business data problem.
func (r *WebhookResult) IsSoftFailure() bool {
	return r.OK && r.Processed == ProcessedError
}
