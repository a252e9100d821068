package engine

import (
	"sort"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// SortOrder selects ascending or descending order.
type SortOrder string

const (
	SortAsc  SortOrder = "asc"
	SortDesc SortOrder = "desc"
)

// SortRecords returns a new slice sorted by the value at field. The input is
// never mutated. Comparison is type-directed per pair: two numbers compare
// numerically, two strings compare via locale-aware collation, two times
// compare chronologically, and anything else is string-coerced and collated.
// The sort is stable, so ties preserve relative input order.
func SortRecords(data []Record, field string, order SortOrder) []Record {
	out := make([]Record, len(data))
	copy(out, data)
	if field == "" {
		return out
	}

	// Collators buffer internally and are not safe for concurrent use, so
	// each sort gets its own.
	col := collate.New(language.Und, collate.Loose)

	sort.SliceStable(out, func(i, j int) bool {
		a, _ := Resolve(out[i], field)
		b, _ := Resolve(out[j], field)
		c := compareValues(col, a, b)
		if order == SortDesc {
			return c > 0
		}
		return c < 0
	})
	return out
}

// compareValues returns a three-way comparison of a and b.
func compareValues(col *collate.Collator, a, b any) int {
	if fa, ok := numeric(a); ok {
		if fb, ok := numeric(b); ok {
			switch {
			case fa < fb:
				return -1
			case fa > fb:
				return 1
			default:
				return 0
			}
		}
	}

	if ta, ok := timeValue(a); ok {
		if tb, ok := timeValue(b); ok {
			switch {
			case ta.Before(tb):
				return -1
			case ta.After(tb):
				return 1
			default:
				return 0
			}
		}
	}

	if sa, ok := a.(string); ok {
		if sb, ok := b.(string); ok {
			return col.CompareString(sa, sb)
		}
	}

	return col.CompareString(stringify(a), stringify(b))
}
