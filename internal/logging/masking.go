// Package logging provides helpers for logging request data without
// leaking credentials.
package logging

import (
	"encoding/json"
	"strings"
)

// sensitiveFields are JSON field names whose values never reach a log
// line, at any nesting depth.
var sensitiveFields = map[string]bool{
	"password":    true,
	"accesstoken": true,
}

// MaskHeader redacts credential-bearing header values. Bearer tokens
// keep their last four characters so requests can still be correlated.
func MaskHeader(name, value string) string {
	lower := strings.ToLower(name)
	if strings.Contains(lower, "password") || strings.Contains(lower, "secret") {
		return "[REDACTED]"
	}
	if lower == "authorization" || lower == "x-api-key" {
		if len(value) < 4 {
			return "****"
		}
		return "****" + value[len(value)-4:]
	}
	return value
}

// MaskJSONBody redacts sensitive fields in a JSON body at any depth.
// Bodies that fail to parse are returned unchanged; they are opaque to
// the masker and carry no parsed credentials.
func MaskJSONBody(body []byte) []byte {
	if len(body) == 0 {
		return body
	}
	var data any
	if err := json.Unmarshal(body, &data); err != nil {
		return body
	}
	masked, err := json.Marshal(maskValue(data))
	if err != nil {
		return body
	}
	return masked
}

func maskValue(value any) any {
	switch v := value.(type) {
	case map[string]any:
		result := make(map[string]any, len(v))
		for key, val := range v {
			if sensitiveFields[strings.ToLower(key)] {
				result[key] = "[REDACTED]"
			} else {
				result[key] = maskValue(val)
			}
		}
		return result
	case []any:
		result := make([]any, len(v))
		for i, item := range v {
			result[i] = maskValue(item)
		}
		return result
	default:
		return value
	}
}
