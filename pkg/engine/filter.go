package engine

import (
	"reflect"
	"strings"
)

// FilterOp identifies a filter comparison.
type FilterOp string

const (
	OpEq         FilterOp = "eq"
	OpNe         FilterOp = "ne"
	OpGt         FilterOp = "gt"
	OpGte        FilterOp = "gte"
	OpLt         FilterOp = "lt"
	OpLte        FilterOp = "lte"
	OpContains   FilterOp = "contains"
	OpStartsWith FilterOp = "startsWith"
	OpEndsWith   FilterOp = "endsWith"
	OpIn         FilterOp = "in"
)

// FilterConfig is one declarative condition on a record field. A filter set
// is an implicit logical AND over all entries; there is no OR composition.
type FilterConfig struct {
	Field string   `json:"field"`
	Op    FilterOp `json:"op"`
	Value any      `json:"value"`
}

// FilterRecords returns the records that satisfy every filter in the set.
// An empty filter set is the identity. Type-mismatched comparisons (an
// ordering filter against a non-numeric field, say) evaluate false rather
// than erroring.
func FilterRecords(data []Record, filters []FilterConfig) []Record {
	if len(filters) == 0 {
		return data
	}

	out := make([]Record, 0, len(data))
	for _, rec := range data {
		if matchesAll(rec, filters) {
			out = append(out, rec)
		}
	}
	return out
}

func matchesAll(rec Record, filters []FilterConfig) bool {
	for i := range filters {
		if !matches(rec, filters[i]) {
			return false
		}
	}
	return true
}

func matches(rec Record, f FilterConfig) bool {
	got, _ := Resolve(rec, f.Field)

	switch f.Op {
	case OpEq:
		return equalValues(got, f.Value)
	case OpNe:
		return !equalValues(got, f.Value)

	case OpGt, OpGte, OpLt, OpLte:
		a, aok := numeric(got)
		b, bok := numeric(f.Value)
		if !aok || !bok {
			return false
		}
		switch f.Op {
		case OpGt:
			return a > b
		case OpGte:
			return a >= b
		case OpLt:
			return a < b
		default:
			return a <= b
		}

	case OpContains, OpStartsWith, OpEndsWith:
		have := strings.ToLower(stringify(got))
		want := strings.ToLower(stringify(f.Value))
		switch f.Op {
		case OpStartsWith:
			return strings.HasPrefix(have, want)
		case OpEndsWith:
			return strings.HasSuffix(have, want)
		default:
			return strings.Contains(have, want)
		}

	case OpIn:
		return valueIn(f.Value, got)

	default:
		return false
	}
}

// equalValues compares for equality, treating numbers of different Go widths
// as equal when their values match (records decoded from JSON carry float64
// while filters built in code often carry int).
func equalValues(a, b any) bool {
	if fa, ok := numeric(a); ok {
		if fb, ok := numeric(b); ok {
			return fa == fb
		}
		return false
	}
	return reflect.DeepEqual(a, b)
}

// valueIn reports whether list is a slice containing v. Exact element match,
// no string coercion. A non-slice list is false, not an error.
func valueIn(list, v any) bool {
	switch elems := list.(type) {
	case []any:
		for _, e := range elems {
			if equalValues(e, v) {
				return true
			}
		}
		return false
	default:
		rv := reflect.ValueOf(list)
		if !rv.IsValid() || (rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array) {
			return false
		}
		for i := 0; i < rv.Len(); i++ {
			if equalValues(rv.Index(i).Interface(), v) {
				return true
			}
		}
		return false
	}
}
