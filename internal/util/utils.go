package util

import "strings"

// ParseCommaSeparated splits the first query value on commas, trimming parts
// and dropping empties. Additional values are ignored.
func ParseCommaSeparated(values []string) []string {
	if len(values) == 0 {
		return nil
	}

	raw := values[0]
	if raw == "" {
		return nil
	}

	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

// UpperAll upper-cases each element; used for enum-like filters.
func UpperAll(values []string) []string {
	out := make([]string, len(values))
	for i, v := range values {
		out[i] = strings.ToUpper(v)
	}
	return out
}
