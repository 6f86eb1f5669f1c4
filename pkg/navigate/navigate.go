// Package navigate walks loosely typed CMS payloads.
//
// Every step of a path tolerates a missing key, a wrong type or an index out
// of range and reports the value as absent instead of failing.
package navigate

import (
	"github.com/spf13/cast"
)

// Get follows path through nested maps and slices. Path elements are either
// map keys (string) or slice indexes (int).
func Get(v any, path ...any) (any, bool) {
	current := v
	for _, step := range path {
		if current == nil {
			return nil, false
		}
		switch key := step.(type) {
		case string:
			m, ok := toMap(current)
			if !ok {
				return nil, false
			}
			next, ok := m[key]
			if !ok {
				return nil, false
			}
			current = next
		case int:
			s, ok := toSlice(current)
			if !ok || key < 0 || key >= len(s) {
				return nil, false
			}
			current = s[key]
		default:
			return nil, false
		}
	}
	return current, current != nil
}

// String returns the scalar at path as a string. Maps and slices are absent.
func String(v any, path ...any) (string, bool) {
	value, ok := Get(v, path...)
	if !ok {
		return "", false
	}
	switch value.(type) {
	case map[string]any, map[any]any, []any:
		return "", false
	}
	s, err := cast.ToStringE(value)
	if err != nil {
		return "", false
	}
	return s, true
}

// Strings returns the list at path as strings.
func Strings(v any, path ...any) ([]string, bool) {
	value, ok := Get(v, path...)
	if !ok {
		return nil, false
	}
	if _, isString := value.(string); isString {
		return nil, false
	}
	s, err := cast.ToStringSliceE(value)
	if err != nil {
		return nil, false
	}
	return s, true
}

// Map returns the object at path.
func Map(v any, path ...any) (map[string]any, bool) {
	value, ok := Get(v, path...)
	if !ok {
		return nil, false
	}
	return toMap(value)
}

// Slice returns the array at path.
func Slice(v any, path ...any) ([]any, bool) {
	value, ok := Get(v, path...)
	if !ok {
		return nil, false
	}
	return toSlice(value)
}

// Contains reports whether the list at path holds needle.
func Contains(v any, needle string, path ...any) bool {
	values, ok := Strings(v, path...)
	if !ok {
		return false
	}
	for _, value := range values {
		if value == needle {
			return true
		}
	}
	return false
}

func toMap(v any) (map[string]any, bool) {
	switch m := v.(type) {
	case map[string]any:
		return m, true
	case map[any]any:
		// yaml decoded documents
		out, err := cast.ToStringMapE(m)
		return out, err == nil
	}
	return nil, false
}

func toSlice(v any) ([]any, bool) {
	switch s := v.(type) {
	case []any:
		return s, true
	case []map[string]any:
		out := make([]any, len(s))
		for i, item := range s {
			out[i] = item
		}
		return out, true
	case []string:
		out := make([]any, len(s))
		for i, item := range s {
			out[i] = item
		}
		return out, true
	}
	return nil, false
}
