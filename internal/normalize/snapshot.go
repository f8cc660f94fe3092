package normalize

import (
	json "github.com/goccy/go-json"

	"adlens/internal/models"
)

// Snapshot returns the record's nested snapshot as a mapping. Some actor
// versions embed it as a JSON string; an undecodable or missing snapshot
// resolves to an empty mapping, never an error.
func Snapshot(raw models.RawRecord) map[string]any {
	snap := raw["snapshot"]
	if s, ok := snap.(string); ok {
		var decoded any
		if err := json.Unmarshal([]byte(s), &decoded); err != nil {
			return map[string]any{}
		}
		snap = decoded
	}
	if m, ok := snap.(map[string]any); ok {
		return m
	}
	return map[string]any{}
}

// firstEntry resolves the list-or-single-mapping ambiguity of nested
// sub-structures: first element if a list, the mapping itself if a mapping,
// nil otherwise. Applied uniformly to cards, page_categories and images.
func firstEntry(v any) map[string]any {
	switch t := v.(type) {
	case []any:
		if len(t) > 0 {
			if m, ok := t[0].(map[string]any); ok {
				return m
			}
		}
	case map[string]any:
		return t
	}
	return nil
}

// entries coerces a value into a slice of mappings under the same ambiguity
// rule: a single mapping becomes a one-element slice.
func entries(v any) []map[string]any {
	switch t := v.(type) {
	case []any:
		out := make([]map[string]any, 0, len(t))
		for _, e := range t {
			if m, ok := e.(map[string]any); ok {
				out = append(out, m)
			}
		}
		return out
	case map[string]any:
		return []map[string]any{t}
	}
	return nil
}
