package webhook

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"strconv"
	"strings"
	"unicode"

	"github.com/learnhub/server/internal/model"
)

// ProductType selects the fulfillment route.
type ProductType string

const (
	ProductCourse       ProductType = "course"
	ProductSubscription ProductType = "subscription"
)

// DefaultMonths is the enrollment length when neither metadata nor the
// external reference supplies one.
const DefaultMonths = 12

// Intent fields as they appear in metadata and external references.
const (
	fieldUserID         = "user_id"
	fieldCourseSlug     = "course_slug"
	fieldMonths         = "months"
	fieldProductType    = "product_type"
	fieldOrganizationID = "organization_id"
	fieldPlanID         = "plan_id"
	fieldPlanSlug       = "plan_slug"
	fieldBillingPeriod  = "billing_period"
	fieldCouponCode     = "coupon_code"
	fieldCouponID       = "coupon_id"
)

// Intent describes the business effect a payment should produce.
type Intent struct {
	UserExternalID string      `json:"user_id,omitempty"`
	CourseSlug     string      `json:"course_slug,omitempty"`
	Months         int         `json:"months"`
	ProductType    ProductType `json:"product_type"`
	OrganizationID string      `json:"organization_id,omitempty"`
	PlanID         string      `json:"plan_id,omitempty"`
	PlanSlug       string      `json:"plan_slug,omitempty"`
	BillingPeriod  string      `json:"billing_period,omitempty"`
	CouponCode     string      `json:"coupon_code,omitempty"`
	CouponID       string      `json:"coupon_id,omitempty"`
}

// PartialIntent is a bag of intent fields keyed by their snake_case name.
type PartialIntent map[string]string

// ResolveIntent merges record metadata over the decoded external reference,
// field by field, then applies defaults for months and product type.
func ResolveIntent(record *model.ExternalRecord) Intent {
	meta := partialFromMap(record.Metadata)
	ref := DecodeExternalReference(record.ExternalReference)

	pick := func(field string) string {
		return firstNonEmpty(meta[field], ref[field])
	}

	intent := Intent{
		UserExternalID: pick(fieldUserID),
		CourseSlug:     pick(fieldCourseSlug),
		OrganizationID: pick(fieldOrganizationID),
		PlanID:         pick(fieldPlanID),
		PlanSlug:       pick(fieldPlanSlug),
		BillingPeriod:  pick(fieldBillingPeriod),
		CouponCode:     pick(fieldCouponCode),
		CouponID:       pick(fieldCouponID),
		Months:         DefaultMonths,
		ProductType:    ProductCourse,
	}

	for _, bag := range []PartialIntent{meta, ref} {
		if months, ok := parseMonths(bag[fieldMonths]); ok {
			intent.Months = months
			break
		}
	}
	for _, bag := range []PartialIntent{meta, ref} {
		if pt, ok := parseProductType(bag[fieldProductType]); ok {
			intent.ProductType = pt
			break
		}
	}

	return intent
}

// JSON returns the intent encoded for the ledger snapshot.
func (i Intent) JSON() string {
	b, err := json.Marshal(i)
	if err != nil {
		return "{}"
	}
	return string(b)
}

// DecodeExternalReference decodes the opaque external_reference attached at
// checkout. Accepted encodings, in order: a JSON object, base64 of a JSON
// object, and key=value (or key:value) pairs separated by '|', ';' or '&'.
// Anything else decodes to an empty bag.
func DecodeExternalReference(ref string) PartialIntent {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return PartialIntent{}
	}

	if obj, ok := decodeJSONObject([]byte(ref)); ok {
		return partialFromMap(obj)
	}

	for _, enc := range []*base64.Encoding{
		base64.StdEncoding, base64.RawStdEncoding, base64.URLEncoding, base64.RawURLEncoding,
	} {
		decoded, err := enc.DecodeString(ref)
		if err != nil {
			continue
		}
		if obj, ok := decodeJSONObject(bytes.TrimSpace(decoded)); ok {
			return partialFromMap(obj)
		}
	}

	return decodePairs(ref)
}

func decodePairs(ref string) PartialIntent {
	out := PartialIntent{}
	parts := strings.FieldsFunc(ref, func(r rune) bool {
		return r == '|' || r == ';' || r == '&'
	})
	for _, part := range parts {
		idx := strings.IndexAny(part, "=:")
		if idx <= 0 {
			continue
		}
		key := normalizeKey(part[:idx])
		value := strings.TrimSpace(part[idx+1:])
		if key != "" && value != "" {
			out[key] = value
		}
	}
	return out
}

func partialFromMap(m map[string]any) PartialIntent {
	out := make(PartialIntent, len(m))
	for k, v := range m {
		if s := stringValue(v); s != "" {
			out[normalizeKey(k)] = s
		}
	}
	return out
}

// normalizeKey maps userId, user-id and USER_ID to user_id.
func normalizeKey(k string) string {
	k = strings.TrimSpace(k)
	var b strings.Builder
	prevLower := false
	for _, r := range k {
		switch {
		case r == '-' || r == ' ' || r == '.':
			b.WriteRune('_')
			prevLower = false
		case unicode.IsUpper(r):
			if prevLower {
				b.WriteRune('_')
			}
			b.WriteRune(unicode.ToLower(r))
			prevLower = false
		default:
			b.WriteRune(r)
			prevLower = unicode.IsLower(r) || unicode.IsDigit(r)
		}
	}
	return b.String()
}

func parseMonths(s string) (int, bool) {
	if s == "" {
		return 0, false
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		f, ferr := strconv.ParseFloat(s, 64)
		if ferr != nil {
			return 0, false
		}
		n = int(f)
	}
	if n <= 0 {
		return 0, false
	}
	return n, true
}

func parseProductType(s string) (ProductType, bool) {
	switch ProductType(strings.ToLower(s)) {
	case ProductSubscription:
		return ProductSubscription, true
	case ProductCourse:
		return ProductCourse, true
	default:
		return "", false
	}
}
