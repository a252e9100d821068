package engine

// Group is one bucket of records sharing a string-coerced field value.
type Group struct {
	Key     string   `json:"key"`
	Records []Record `json:"records"`
}

// GroupRecords partitions the collection by the value at field. Groups
// appear in discovery order and records keep their relative input order
// within each group; every input record lands in exactly one group.
//
// A slice is returned rather than a map so callers see groups in the order
// their keys first occurred.
func GroupRecords(data []Record, field string) []Group {
	groups := make([]Group, 0)
	index := make(map[string]int)

	for _, rec := range data {
		v, _ := Resolve(rec, field)
		key := stringify(v)

		i, ok := index[key]
		if !ok {
			i = len(groups)
			index[key] = i
			groups = append(groups, Group{Key: key})
		}
		groups[i].Records = append(groups[i].Records, rec)
	}
	return groups
}

// Deduplicate keeps the first record seen for each distinct string-coerced
// value at field; later duplicates are dropped. Kept records stay in
// first-occurrence order.
func Deduplicate(data []Record, field string) []Record {
	seen := make(map[string]struct{}, len(data))
	out := make([]Record, 0, len(data))

	for _, rec := range data {
		v, _ := Resolve(rec, field)
		key := stringify(v)
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, rec)
	}
	return out
}
