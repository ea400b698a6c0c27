package webhook

import (
	"encoding/json"
	"strconv"
	"strings"
)

// stringValue renders scalar JSON values as strings. Numeric ids keep their
// exact digits.
func stringValue(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return strings.TrimSpace(t)
	case json.Number:
		return t.String()
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case int:
		return strconv.Itoa(t)
	case int64:
		return strconv.FormatInt(t, 10)
	case bool:
		return strconv.FormatBool(t)
	default:
		return ""
	}
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

// nestedID returns m[key]["id"] when m[key] is an object.
func nestedID(m map[string]any, key string) string {
	if nested, ok := m[key].(map[string]any); ok {
		return stringValue(nested["id"])
	}
	return ""
}
