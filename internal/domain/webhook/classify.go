package webhook

import (
	"net/url"
	"strings"
)

// Classify derives the event kind from the decoded body, falling back to
// query parameters. It always returns a result.
func Classify(body DecodedBody, query url.Values) EventKind {
	eventType := firstNonEmpty(
		stringValue(body["type"]),
		stringValue(body["topic"]),
		actionType(stringValue(body["action"])),
		query.Get("type"),
		query.Get("topic"),
	)

	subjectID := SubjectID(body, query)

	switch {
	case eventType == string(KindPayment) && subjectID != "":
		return EventKind{Kind: KindPayment, SubjectID: subjectID, Type: eventType}
	case eventType == string(KindMerchantOrder) && subjectID != "":
		return EventKind{Kind: KindMerchantOrder, SubjectID: subjectID, Type: eventType}
	}

	if eventType == "" {
		eventType = string(KindUnknown)
	}
	return EventKind{Kind: KindUnknown, SubjectID: subjectID, Type: eventType}
}

// SubjectID returns data.id, else id, from the body and then the query.
func SubjectID(body DecodedBody, query url.Values) string {
	return firstNonEmpty(
		nestedID(body, "data"),
		stringValue(body["id"]),
		query.Get("data.id"),
		query.Get("id"),
	)
}

// actionType returns the segment before the first dot of an action such as
// "payment.created".
func actionType(action string) string {
	if action == "" {
		return ""
	}
	head, _, _ := strings.Cut(action, ".")
	return head
}
