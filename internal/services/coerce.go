package services

import (
	"encoding/json"
	"strconv"
	"strings"
)

// Model output is untyped. These helpers turn a decoded JSON value into the
// Go type a field needs, falling back to the zero value instead of failing.

func asString(v any) string {
	switch t := v.(type) {
	case string:
		return strings.TrimSpace(t)
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case json.Number:
		return t.String()
	case bool:
		return strconv.FormatBool(t)
	default:
		return ""
	}
}

func asFloat(v any) float64 {
	switch t := v.(type) {
	case float64:
		return t
	case json.Number:
		f, _ := t.Float64()
		return f
	case string:
		s := strings.TrimSpace(t)
		s = strings.TrimSuffix(s, "%")
		s = strings.TrimSuffix(s, "/100")
		f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
		if err != nil {
			return 0
		}
		return f
	default:
		return 0
	}
}

// asStringList accepts a JSON array or a comma separated string. Blank
// entries are dropped and the result is never nil.
func asStringList(v any) []string {
	out := []string{}

	switch t := v.(type) {
	case []any:
		for _, item := range t {
			if s := asString(item); s != "" {
				out = append(out, s)
			}
		}
	case string:
		for _, part := range strings.Split(t, ",") {
			if s := strings.TrimSpace(part); s != "" {
				out = append(out, s)
			}
		}
	}

	return out
}

func asObject(v any) map[string]any {
	if m, ok := v.(map[string]any); ok {
		return m
	}
	return map[string]any{}
}

func asObjectList(v any) []map[string]any {
	items, ok := v.([]any)
	if !ok {
		return nil
	}

	out := make([]map[string]any, 0, len(items))
	for _, item := range items {
		if m, ok := item.(map[string]any); ok {
			out = append(out, m)
		}
	}
	return out
}

// clampScore bounds a score to 0..100 and reports whether it had to.
func clampScore(v float64) (float64, bool) {
	switch {
	case v < 0:
		return 0, true
	case v > 100:
		return 100, true
	default:
		return v, false
	}
}
