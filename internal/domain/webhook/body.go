package webhook

import (
	"bytes"
	"encoding/json"
	"net/url"
	"strings"
)

// DecodedBody is the normal form of a webhook body. It is never nil.
type DecodedBody map[string]any

// DecodeBody accepts a JSON object, a JSON string holding a JSON object, or
// a URL-encoded form. Anything else yields an empty body.
func DecodeBody(raw []byte) DecodedBody {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 {
		return DecodedBody{}
	}

	if obj, ok := decodeJSONObject(trimmed); ok {
		return obj
	}

	text := string(trimmed)
	var inner string
	if err := json.Unmarshal(trimmed, &inner); err == nil {
		inner = strings.TrimSpace(inner)
		if obj, ok := decodeJSONObject([]byte(inner)); ok {
			return obj
		}
		text = inner
	}

	if obj, ok := decodeForm(text); ok {
		return obj
	}
	return DecodedBody{}
}

func decodeJSONObject(b []byte) (DecodedBody, bool) {
	if len(b) == 0 || b[0] != '{' {
		return nil, false
	}
	dec := json.NewDecoder(bytes.NewReader(b))
	dec.UseNumber()
	var obj map[string]any
	if err := dec.Decode(&obj); err != nil || obj == nil {
		return nil, false
	}
	return DecodedBody(obj), true
}

func decodeForm(s string) (DecodedBody, bool) {
	if !strings.Contains(s, "=") {
		return nil, false
	}
	values, err := url.ParseQuery(s)
	if err != nil || len(values) == 0 {
		return nil, false
	}

	body := make(DecodedBody, len(values))
	for k, v := range values {
		if len(v) > 0 {
			body[k] = v[0]
		}
	}

	if _, nested := body["data"].(map[string]any); !nested {
		id := firstNonEmpty(stringValue(body["data.id"]), stringValue(body["data[id]"]), stringValue(body["id"]))
		if id != "" {
			body["data"] = map[string]any{"id": id}
		}
	}
	return body, true
}
