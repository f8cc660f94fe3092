package normalize

import (
	"fmt"
	"strconv"
	"strings"
)

// firstPresent resolves a key-alias list by first-present-wins. Empty strings
// and nils count as absent so later aliases still get a chance.
func firstPresent(m map[string]any, keys []string) any {
	for _, k := range keys {
		v, ok := m[k]
		if !ok || v == nil {
			continue
		}
		if s, isStr := v.(string); isStr && s == "" {
			continue
		}
		if l, isList := v.([]any); isList && len(l) == 0 {
			continue
		}
		return v
	}
	return nil
}

// asString stringifies a scraped scalar. JSON numbers arrive as float64;
// integral values are rendered without a fractional part.
func asString(v any) *string {
	switch t := v.(type) {
	case nil:
		return nil
	case string:
		if t == "" {
			return nil
		}
		return &t
	case float64:
		var s string
		if t == float64(int64(t)) {
			s = strconv.FormatInt(int64(t), 10)
		} else {
			s = strconv.FormatFloat(t, 'g', -1, 64)
		}
		return &s
	case bool:
		s := strconv.FormatBool(t)
		return &s
	default:
		s := fmt.Sprint(t)
		if s == "" {
			return nil
		}
		return &s
	}
}

func asInt64(v any) *int64 {
	switch t := v.(type) {
	case float64:
		n := int64(t)
		return &n
	case int:
		n := int64(t)
		return &n
	case int64:
		return &t
	case string:
		if n, err := strconv.ParseInt(strings.TrimSpace(t), 10, 64); err == nil {
			return &n
		}
	}
	return nil
}

// asBool keeps the tri-state: anything that cannot be read as a boolean stays
// unknown rather than collapsing to false.
func asBool(v any) *bool {
	switch t := v.(type) {
	case bool:
		return &t
	case float64:
		b := t != 0
		return &b
	case string:
		if b, err := strconv.ParseBool(strings.TrimSpace(t)); err == nil {
			return &b
		}
	}
	return nil
}
