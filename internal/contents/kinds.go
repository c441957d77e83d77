package contents

import (
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strconv"

	"picklab-api/internal/util"
)

var (
	ErrUnknownType   = errors.New("invalid content type")
	ErrUnknownField  = errors.New("unknown field")
	ErrInvalidValue  = errors.New("invalid field value")
	ErrBatchTooLarge = fmt.Errorf("maximum %d items per batch", MaxBatchItems)
)

// kind describes the storage shape of one content type.
type kind struct {
	table      string
	prefix     string
	codeColumn string
	nameColumn string
	writable   map[string]bool
	aliases    map[string]string
	defaults   map[string]string
	newModel   func() any
	newSlice   func() any
}

var immutableKeys = map[string]bool{
	"code":         true,
	"id":           true,
	"order":        true,
	"seq":          true,
	"type":         true,
	"created_date": true,
	"updated_date": true,
}

func columnSet(cols ...string) map[string]bool {
	out := make(map[string]bool, len(cols))
	for _, c := range cols {
		out[c] = true
	}
	return out
}

var kinds = map[ContentType]kind{
	TypeFood: {
		table:      "tbl_food_info",
		prefix:     "F",
		codeColumn: "food_code",
		nameColumn: "food_name",
		writable: columnSet("food_name", "food_emoji",
			"category1", "category2", "category3", "category4", "category5",
			"use_yn", "created_user", "updated_user"),
		aliases:  map[string]string{"name": "food_name", "emoji": "food_emoji"},
		defaults: map[string]string{"use_yn": "Y", "created_user": "admin"},
		newModel: func() any { return &Food{} },
		newSlice: func() any { return &[]Food{} },
	},
	TypeGame: {
		table:      "tbl_game_info",
		prefix:     "G",
		codeColumn: "game_code",
		nameColumn: "game_name",
		writable: columnSet("game_name", "game_desc", "game_emoji", "game_difficult",
			"use_yn", "created_user", "updated_user"),
		aliases: map[string]string{
			"name": "game_name", "emoji": "game_emoji", "desc": "game_desc",
			"description": "game_desc", "difficulty": "game_difficult",
		},
		defaults: map[string]string{"use_yn": "Y", "created_user": "admin", "game_difficult": "L"},
		newModel: func() any { return &Game{} },
		newSlice: func() any { return &[]Game{} },
	},
	TypeQuiz: {
		table:      "tbl_quiz_info",
		prefix:     "Q",
		codeColumn: "quiz_code",
		nameColumn: "quiz_name",
		writable: columnSet("quiz_name", "quiz_desc", "quiz_emoji", "quiz_category",
			"use_yn", "created_user", "updated_user"),
		aliases: map[string]string{
			"name": "quiz_name", "emoji": "quiz_emoji", "desc": "quiz_desc",
			"description": "quiz_desc", "category": "quiz_category",
		},
		defaults: map[string]string{"use_yn": "Y", "created_user": "admin"},
		newModel: func() any { return &Quiz{} },
		newSlice: func() any { return &[]Quiz{} },
	},
}

func kindOf(t ContentType) (kind, error) {
	k, ok := kinds[t]
	if !ok {
		return kind{}, fmt.Errorf("%w: %q", ErrUnknownType, t)
	}
	return k, nil
}

// normalizeInput maps a caller payload in either casing onto the writable
// columns of k. Snake keys win over camel keys, which win over aliases,
// but a blank value never hides a filled one for the same column.
// Identity and timestamp keys are dropped. Values become string or nil.
func normalizeInput(k kind, input map[string]any) (map[string]any, error) {
	keys := make([]string, 0, len(input))
	for key := range input {
		keys = append(keys, key)
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
		if alias, ok := k.aliases[col]; ok {
			col, r = alias, 2
		}
		if col == k.codeColumn || immutableKeys[col] {
			continue
		}
		if !k.writable[col] {
			return nil, fmt.Errorf("%w: %s", ErrUnknownField, key)
		}
		v, err := columnValue(input[key])
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

// keepsPrevious reports whether the value already taken for a column
// (rank prev) should stay over a new candidate of rank r.
func keepsPrevious(prev int, prevValue any, r int, v any) bool {
	if blankValue(prevValue) != blankValue(v) {
		return blankValue(v)
	}
	return prev <= r
}

func columnValue(v any) (any, error) {
	switch x := v.(type) {
	case nil:
		return nil, nil
	case string:
		return x, nil
	case json.Number:
		return x.String(), nil
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64), nil
	case int:
		return strconv.Itoa(x), nil
	case int64:
		return strconv.FormatInt(x, 10), nil
	}
	return nil, ErrInvalidValue
}

// codeFromInput returns the identifier a payload refers to, if any.
func codeFromInput(k kind, input map[string]any) string {
	var fallback string
	for key, v := range input {
		s, ok := v.(string)
		if !ok || s == "" {
			continue
		}
		switch util.CamelToSnake(key) {
		case k.codeColumn:
			return s
		case "code":
			fallback = s
		}
	}
	return fallback
}

// fillModel decodes normalized columns into a fresh model, applying the
// create defaults for blank columns.
func fillModel(k kind, cols map[string]any) (any, error) {
	withDefaults := make(map[string]any, len(cols)+len(k.defaults))
	for c, v := range cols {
		withDefaults[c] = v
	}
	for c, d := range k.defaults {
		if s, _ := withDefaults[c].(string); s == "" {
			withDefaults[c] = d
		}
	}

	raw, err := json.Marshal(withDefaults)
	if err != nil {
		return nil, err
	}
	model := k.newModel()
	if err := json.Unmarshal(raw, model); err != nil {
		return nil, err
	}
	return model, nil
}
