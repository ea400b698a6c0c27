package webhook

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name  string
		body  DecodedBody
		query url.Values
		want  EventKind
	}{
		{
			name: "payment from type and data.id",
			body: DecodedBody{"type": "payment", "data": map[string]any{"id": "123"}, "id": "999"},
			want: EventKind{Kind: KindPayment, SubjectID: "123", Type: "payment"},
		},
		{
			name: "merchant order from topic and id",
			body: DecodedBody{"topic": "merchant_order", "id": "77"},
			want: EventKind{Kind: KindMerchantOrder, SubjectID: "77", Type: "merchant_order"},
		},
		{
			name: "type from action prefix",
			body: DecodedBody{"action": "payment.updated", "data": map[string]any{"id": "5"}},
			want: EventKind{Kind: KindPayment, SubjectID: "5", Type: "payment"},
		},
		{
			name: "type wins over topic and action",
			body: DecodedBody{"type": "plan", "topic": "payment", "action": "payment.created", "id": "1"},
			want: EventKind{Kind: KindUnknown, SubjectID: "1", Type: "plan"},
		},
		{
			name:  "subject id from query data.id",
			body:  DecodedBody{"type": "payment"},
			query: url.Values{"data.id": {"321"}, "id": {"654"}},
			want:  EventKind{Kind: KindPayment, SubjectID: "321", Type: "payment"},
		},
		{
			name:  "ipn style query only",
			body:  DecodedBody{},
			query: url.Values{"topic": {"merchant_order"}, "id": {"888"}},
			want:  EventKind{Kind: KindMerchantOrder, SubjectID: "888", Type: "merchant_order"},
		},
		{
			name: "numeric id rendered as string",
			body: DecodedBody{"type": "payment", "data": map[string]any{"id": float64(1234)}},
			want: EventKind{Kind: KindPayment, SubjectID: "1234", Type: "payment"},
		},
		{
			name: "payment without subject is unknown",
			body: DecodedBody{"type": "payment"},
			want: EventKind{Kind: KindUnknown, Type: "payment"},
		},
		{
			name: "empty body is unknown",
			body: DecodedBody{},
			want: EventKind{Kind: KindUnknown, Type: "unknown"},
		},
		{
			name: "unrelated type keeps its name",
			body: DecodedBody{"type": "subscription_preapproval", "data": map[string]any{"id": "x1"}},
			want: EventKind{Kind: KindUnknown, SubjectID: "x1", Type: "subscription_preapproval"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Classify(tt.body, tt.query))
		})
	}
}
