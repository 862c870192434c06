// Package payload reads fields out of decoded JSON (map[string]any / []any)
// without a schema. Paths are dot separated; a numeric segment indexes into
// an array, so "1.1.3.2" walks nested positional blobs.
package payload

import (
	"strconv"
	"strings"
)

// Lookup walks path through v and returns the value found, or nil.
func Lookup(v any, path string) any {
	cur := v
	if path == "" {
		return cur
	}
	for _, part := range strings.Split(path, ".") {
		switch node := cur.(type) {
		case map[string]any:
			next, ok := node[part]
			if !ok {
				return nil
			}
			cur = next
		case []any:
			i, err := strconv.Atoi(part)
			if err != nil || i < 0 || i >= len(node) {
				return nil
			}
			cur = node[i]
		default:
			return nil
		}
	}
	return cur
}

// Str returns the string at path or "".
func Str(v any, path string) string {
	if s, ok := Lookup(v, path).(string); ok {
		return s
	}
	return ""
}

// FirstStr returns the first non-empty string among paths.
func FirstStr(v any, paths ...string) string {
	for _, p := range paths {
		if s := Str(v, p); s != "" {
			return s
		}
	}
	return ""
}

// Float accepts float64, int or a numeric string like "4,5".
func Float(v any, paths ...string) (float64, bool) {
	for _, p := range paths {
		switch x := Lookup(v, p).(type) {
		case float64:
			return x, true
		case int:
			return float64(x), true
		case int64:
			return float64(x), true
		case string:
			s := strings.TrimSpace(strings.ReplaceAll(x, ",", "."))
			if s == "" {
				continue
			}
			if f, err := strconv.ParseFloat(s, 64); err == nil {
				return f, true
			}
		}
	}
	return 0, false
}

// Int is Float truncated, with thousands separators stripped from strings.
func Int(v any, paths ...string) (int64, bool) {
	for _, p := range paths {
		switch x := Lookup(v, p).(type) {
		case float64:
			return int64(x), true
		case int:
			return int64(x), true
		case int64:
			return x, true
		case string:
			s := strings.TrimSpace(strings.NewReplacer(",", "", ".", "", " ", "").Replace(x))
			if s == "" {
				continue
			}
			if n, err := strconv.ParseInt(s, 10, 64); err == nil {
				return n, true
			}
		}
	}
	return 0, false
}

// Items returns the value at path as a list. A lone object is treated as a
// one-element list; anything else yields nil.
func Items(v any, path string) []any {
	switch x := Lookup(v, path).(type) {
	case []any:
		return x
	case map[string]any:
		return []any{x}
	default:
		return nil
	}
}
