// Package engine provides a schema-agnostic, in-memory record-shaping
// library: pagination, sorting, filtering, substring search, grouping,
// aggregation, deduplication, and sequential batch processing. Records are
// opaque key-value structures; all field access goes through dot-separated
// paths, and malformed or missing data degrades to defined defaults rather
// than raising errors.
package engine

import (
	"encoding/json"
	"strings"
	"time"

	"github.com/spf13/cast"
)

// Record is an opaque, dynamically shaped data object, typically one element
// of a JSON array produced by an upstream fetch.
type Record map[string]any

// Resolve walks a dot-separated field path against the record and returns
// the value at that path. Missing or non-object intermediate segments yield
// (nil, false); Resolve never panics.
func Resolve(rec Record, path string) (any, bool) {
	if path == "" {
		return nil, false
	}

	var current any = rec
	for _, seg := range strings.Split(path, ".") {
		switch m := current.(type) {
		case Record:
			v, ok := m[seg]
			if !ok {
				return nil, false
			}
			current = v
		case map[string]any:
			v, ok := m[seg]
			if !ok {
				return nil, false
			}
			current = v
		default:
			return nil, false
		}
	}
	return current, true
}

// numeric reports whether v is a number and returns its float64 value.
// Numeric strings deliberately do not qualify: a record field holding "42"
// is text, and ordering filters and aggregations must exclude it.
func numeric(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int8:
		return float64(n), true
	case int16:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint:
		return float64(n), true
	case uint8:
		return float64(n), true
	case uint16:
		return float64(n), true
	case uint32:
		return float64(n), true
	case uint64:
		return float64(n), true
	case json.Number:
		f, err := n.Float64()
		return f, err == nil
	default:
		return 0, false
	}
}

// timeValue reports whether v carries a time value.
func timeValue(v any) (time.Time, bool) {
	t, ok := v.(time.Time)
	return t, ok
}

// stringify coerces v to its string form; nil coerces to the empty string.
func stringify(v any) string {
	if v == nil {
		return ""
	}
	return cast.ToString(v)
}
