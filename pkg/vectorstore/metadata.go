package vectorstore

import (
	"fmt"
	"strings"
)

// InvalidFilterError reports a malformed metadata filter, e.g. an unknown
// range operator. Filters fail fast instead of silently ignoring unknown
// operators, since silent ignoring masks caller bugs.
type InvalidFilterError struct {
	Key    string
	Reason string
}

func (e *InvalidFilterError) Error() string {
	return fmt.Sprintf("invalid metadata filter on key %q: %s", e.Key, e.Reason)
}

// Condition constrains a single metadata key.
type Condition interface {
	// Matches reports whether a present metadata value satisfies the
	// condition. Absent keys are handled by Filter.Matches and never reach
	// a Condition.
	Matches(value any) bool
}

// Eq requires exact equality. Numbers compare numerically regardless of
// concrete type (2020 matches float64(2020) after a JSON round-trip).
type Eq struct {
	Value any
}

func (c Eq) Matches(value any) bool {
	return scalarEqual(value, c.Value)
}

// OneOf requires membership in a list of scalars. An empty list matches
// nothing.
type OneOf struct {
	Values []any
}

func (c OneOf) Matches(value any) bool {
	for _, candidate := range c.Values {
		if scalarEqual(value, candidate) {
			return true
		}
	}
	return false
}

// Range requires the value to satisfy every present bound: GTE and LTE are
// inclusive ordered comparisons, In is a membership constraint. All three may
// be combined.
type Range struct {
	GTE any
	LTE any
	In  []any
}

func (c Range) Matches(value any) bool {
	if c.GTE != nil {
		cmp, ok := compareScalars(value, c.GTE)
		if !ok || cmp < 0 {
			return false
		}
	}
	if c.LTE != nil {
		cmp, ok := compareScalars(value, c.LTE)
		if !ok || cmp > 0 {
			return false
		}
	}
	if c.In != nil {
		if !(OneOf{Values: c.In}).Matches(value) {
			return false
		}
	}
	return true
}

// Filter is a conjunction of per-key conditions. The empty filter matches
// every chunk; a chunk missing any constrained key matches nothing.
type Filter map[string]Condition

// Matches evaluates the filter against chunk metadata.
func (f Filter) Matches(meta Metadata) bool {
	for key, cond := range f {
		value, ok := meta[key]
		if !ok {
			return false
		}
		if !cond.Matches(value) {
			return false
		}
	}
	return true
}

// ParseFilter builds a Filter from the wire representation used by the API:
//
//	{"client": "acme"}                      exact match
//	{"study_type": ["brand_health", ...]}   membership
//	{"year": {"gte": 2020, "lte": 2024}}    range / membership object
//
// Unknown operator keys inside a range object fail with InvalidFilterError.
func ParseFilter(raw map[string]any) (Filter, error) {
	if len(raw) == 0 {
		return Filter{}, nil
	}

	filter := make(Filter, len(raw))
	for key, value := range raw {
		switch v := value.(type) {
		case map[string]any:
			cond, err := parseRange(key, v)
			if err != nil {
				return nil, err
			}
			filter[key] = cond
		case []any:
			filter[key] = OneOf{Values: v}
		case []string:
			values := make([]any, len(v))
			for i, s := range v {
				values[i] = s
			}
			filter[key] = OneOf{Values: values}
		case nil:
			return nil, &InvalidFilterError{Key: key, Reason: "null is not a valid constraint"}
		default:
			filter[key] = Eq{Value: v}
		}
	}
	return filter, nil
}

func parseRange(key string, raw map[string]any) (Condition, error) {
	if len(raw) == 0 {
		return nil, &InvalidFilterError{Key: key, Reason: "empty range object"}
	}

	var cond Range
	for op, operand := range raw {
		switch strings.ToLower(op) {
		case "gte":
			cond.GTE = operand
		case "lte":
			cond.LTE = operand
		case "in":
			list, ok := operand.([]any)
			if !ok {
				return nil, &InvalidFilterError{Key: key, Reason: `"in" operand must be a list`}
			}
			cond.In = list
		default:
			return nil, &InvalidFilterError{Key: key, Reason: fmt.Sprintf("unknown operator %q", op)}
		}
	}
	return cond, nil
}

// scalarEqual compares two scalars: numerics numerically, everything else by
// direct comparison of like types. Lists never compare equal to anything.
func scalarEqual(a, b any) bool {
	if an, ok := asNumber(a); ok {
		bn, ok := asNumber(b)
		return ok && an == bn
	}
	switch av := a.(type) {
	case string:
		bv, ok := b.(string)
		return ok && av == bv
	case bool:
		bv, ok := b.(bool)
		return ok && av == bv
	default:
		return false
	}
}

// compareScalars orders two scalars: numbers numerically, strings
// lexicographically. Mixed or unordered types report no ordering.
func compareScalars(a, b any) (int, bool) {
	if an, ok := asNumber(a); ok {
		bn, ok := asNumber(b)
		if !ok {
			return 0, false
		}
		switch {
		case an < bn:
			return -1, true
		case an > bn:
			return 1, true
		default:
			return 0, true
		}
	}

	as, ok := a.(string)
	if !ok {
		return 0, false
	}
	bs, ok := b.(string)
	if !ok {
		return 0, false
	}
	return strings.Compare(as, bs), true
}
