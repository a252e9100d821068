package engine

import "strings"

// SearchRecords returns the records where any of the listed fields,
// string-coerced and lower-cased, contains the trimmed lower-cased term.
// An empty or whitespace-only term is the identity.
func SearchRecords(data []Record, term string, fields []string) []Record {
	term = strings.ToLower(strings.TrimSpace(term))
	if term == "" {
		return data
	}

	out := make([]Record, 0, len(data))
	for _, rec := range data {
		for _, field := range fields {
			v, ok := Resolve(rec, field)
			if !ok {
				continue
			}
			if strings.Contains(strings.ToLower(stringify(v)), term) {
				out = append(out, rec)
				break
			}
		}
	}
	return out
}
