package gateway

import (
	"encoding/json"

	"github.com/ltgt/portal-gateway/internal/roles"
)

// TranslateRolesJSON rewrites every string "role" field in a JSON body
// from the authoritative vocabulary to the external one, recursing
// through nested objects and arrays. Everything else, including date
// strings, passes through untouched. Bodies that fail to parse come
// back unchanged.
func TranslateRolesJSON(body []byte) []byte {
	var data any
	if err := json.Unmarshal(body, &data); err != nil {
		return body
	}
	translated, err := json.Marshal(translateValue(data))
	if err != nil {
		return body
	}
	return translated
}

func translateValue(value any) any {
	switch v := value.(type) {
	case map[string]any:
		for key, val := range v {
			if key == "role" {
				if role, ok := val.(string); ok {
					v[key] = string(roles.ToExternal(role))
					continue
				}
			}
			v[key] = translateValue(val)
		}
		return v
	case []any:
		for i, item := range v {
			v[i] = translateValue(item)
		}
		return v
	default:
		return value
	}
}
