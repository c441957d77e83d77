package util

import (
	"bytes"
	"encoding/json"
	"regexp"
	"strings"
	"time"
	"unicode"
)

var snakeSegment = regexp.MustCompile(`_([a-z])`)

// SnakeToCamel rewrites every "_x" (x a lowercase ASCII letter) to "X".
func SnakeToCamel(s string) string {
	return snakeSegment.ReplaceAllStringFunc(s, func(m string) string {
		return strings.ToUpper(m[1:])
	})
}

// CamelToSnake is the inverse used to canonicalize request payload keys.
// Keys already in snake_case are returned unchanged.
func CamelToSnake(s string) string {
	var b strings.Builder
	b.Grow(len(s) + 4)
	for i, r := range s {
		if unicode.IsUpper(r) {
			if i > 0 {
				b.WriteByte('_')
			}
			b.WriteRune(unicode.ToLower(r))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// TransformToCamelCase walks maps and slices and renames object keys with
// SnakeToCamel. Primitives, nil and time values are returned as-is.
func TransformToCamelCase(v any) any {
	switch val := v.(type) {
	case nil:
		return nil
	case map[string]any:
		out := make(map[string]any, len(val))
		for k, item := range val {
			out[SnakeToCamel(k)] = TransformToCamelCase(item)
		}
		return out
	case []any:
		out := make([]any, len(val))
		for i, item := range val {
			out[i] = TransformToCamelCase(item)
		}
		return out
	case time.Time, *time.Time:
		return val
	default:
		return val
	}
}

// NormalizeKeys canonicalizes a decoded JSON object to snake_case keys
// (top level only; nested values are left untouched).
func NormalizeKeys(in map[string]any) map[string]any {
	out := make(map[string]any, len(in))
	for k, v := range in {
		out[CamelToSnake(k)] = v
	}
	return out
}

// TransformJSON re-encodes a JSON document with camelCase keys.
func TransformJSON(body []byte) ([]byte, error) {
	dec := json.NewDecoder(bytes.NewReader(body))
	dec.UseNumber()

	var doc any
	if err := dec.Decode(&doc); err != nil {
		return nil, err
	}
	return json.Marshal(TransformToCamelCase(doc))
}
