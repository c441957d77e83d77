package commoncode

import (
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"picklab-api/internal/util"
)

var (
	ErrUnknownField = errors.New("unknown field")
	ErrInvalidValue = errors.New("invalid field value")
	ErrMissingField = errors.New("missing required field")
)

type fieldKind int

const (
	textField fieldKind = iota
	intField
)

type tableFields struct {
	writable  map[string]fieldKind
	aliases   map[string]string
	immutable map[string]bool
}

var masterFields = tableFields{
	writable: map[string]fieldKind{
		"master_code":  textField,
		"master_name":  textField,
		"master_desc":  textField,
		"sort_no":      intField,
		"use_yn":       textField,
		"created_user": textField,
		"updated_user": textField,
	},
	aliases: map[string]string{
		"code": "master_code", "name": "master_name",
		"desc": "master_desc", "description": "master_desc", "order": "sort_no",
	},
	immutable: map[string]bool{"seq": true, "created_date": true, "updated_date": true},
}

var detailFields = tableFields{
	writable: map[string]fieldKind{
		"master_code":  textField,
		"detail_code":  textField,
		"detail_name":  textField,
		"sort_no":      intField,
		"use_yn":       textField,
		"created_user": textField,
		"updated_user": textField,
	},
	aliases: map[string]string{
		"code": "detail_code", "name": "detail_name", "order": "sort_no",
	},
	immutable: map[string]bool{"seq": true, "created_date": true, "updated_date": true},
}

// normalize converts a payload in either casing to column values. Exact
// snake keys win over camel keys, which win over aliases, unless the
// winner is blank and another key for the column is not.
func (tf tableFields) normalize(input map[string]any, extraImmutable ...string) (map[string]any, error) {
	skip := make(map[string]bool, len(tf.immutable)+len(extraImmutable))
	for k := range tf.immutable {
		skip[k] = true
	}
	for _, k := range extraImmutable {
		skip[k] = true
	}

	keys := make([]string, 0, len(input))
	for k := range input {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	out := make(map[string]any, len(input))
	rank := make(map[string]int, len(input))
	for _, key := range keys {
		col := util.CamelToSnake(key)
		r := 0
		if col != key {
			r = 1
		}
		if alias, ok := tf.aliases[col]; ok {
			col, r = alias, 2
		}
		if skip[col] {
			continue
		}
		kind, ok := tf.writable[col]
		if !ok {
			return nil, fmt.Errorf("%w: %s", ErrUnknownField, key)
		}
		v, err := convert(kind, input[key])
		if err != nil {
			return nil, fmt.Errorf("%w: %s", err, key)
		}
		if prev, seen := rank[col]; seen && keepsPrevious(prev, out[col], r, v) {
			continue
		}
		out[col] = v
		rank[col] = r
	}
	return out, nil
}

func blankValue(v any) bool {
	return v == nil || v == ""
}

func keepsPrevious(prev int, prevValue any, r int, v any) bool {
	if blankValue(prevValue) != blankValue(v) {
		return blankValue(v)
	}
	return prev <= r
}

func convert(kind fieldKind, v any) (any, error) {
	if v == nil {
		return nil, nil
	}
	if kind == intField {
		switch x := v.(type) {
		case float64:
			return int(x), nil
		case int:
			return x, nil
		case json.Number:
			n, err := strconv.Atoi(x.String())
			if err != nil {
				return nil, ErrInvalidValue
			}
			return n, nil
		case string:
			if strings.TrimSpace(x) == "" {
				return nil, nil
			}
			n, err := strconv.Atoi(strings.TrimSpace(x))
			if err != nil {
				return nil, ErrInvalidValue
			}
			return n, nil
		}
		return nil, ErrInvalidValue
	}

	switch x := v.(type) {
	case string:
		return x, nil
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64), nil
	case json.Number:
		return x.String(), nil
	}
	return nil, ErrInvalidValue
}

func textValue(cols map[string]any, col string) string {
	s, _ := cols[col].(string)
	return strings.TrimSpace(s)
}

func textPtr(cols map[string]any, col string) *string {
	s, ok := cols[col].(string)
	if !ok {
		return nil
	}
	return &s
}

func intPtr(cols map[string]any, col string) *int {
	n, ok := cols[col].(int)
	if !ok {
		return nil
	}
	return &n
}
