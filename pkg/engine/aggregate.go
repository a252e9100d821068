package engine

import "math"

// AggregateOp identifies a numeric summary operation.
type AggregateOp string

const (
	AggSum   AggregateOp = "sum"
	AggAvg   AggregateOp = "avg"
	AggMin   AggregateOp = "min"
	AggMax   AggregateOp = "max"
	AggCount AggregateOp = "count"
)

// AggregationSpec asks for one numeric summary of one field.
type AggregationSpec struct {
	Field string      `json:"field"`
	Op    AggregateOp `json:"op"`
}

// Aggregate computes each requested summary over the numeric values found at
// the requested field. Non-numeric and NaN values are excluded before
// computing, and count reports the number of numeric values found, not the
// number of records. Results merge into one flat map keyed "<field>_<op>".
//
// min and max over an empty numeric set report 0, not an absent value;
// dashboard callers render that zero directly.
func Aggregate(data []Record, specs []AggregationSpec) map[string]float64 {
	out := make(map[string]float64, len(specs))

	for _, spec := range specs {
		values := make([]float64, 0, len(data))
		for _, rec := range data {
			v, ok := Resolve(rec, spec.Field)
			if !ok {
				continue
			}
			f, ok := numeric(v)
			if !ok || math.IsNaN(f) {
				continue
			}
			values = append(values, f)
		}

		key := spec.Field + "_" + string(spec.Op)
		out[key] = summarize(values, spec.Op)
	}
	return out
}

func summarize(values []float64, op AggregateOp) float64 {
	switch op {
	case AggCount:
		return float64(len(values))
	case AggSum:
		var sum float64
		for _, v := range values {
			sum += v
		}
		return sum
	case AggAvg:
		if len(values) == 0 {
			return 0
		}
		var sum float64
		for _, v := range values {
			sum += v
		}
		return sum / float64(len(values))
	case AggMin:
		if len(values) == 0 {
			return 0
		}
		min := values[0]
		for _, v := range values[1:] {
			if v < min {
				min = v
			}
		}
		return min
	case AggMax:
		if len(values) == 0 {
			return 0
		}
		max := values[0]
		for _, v := range values[1:] {
			if v > max {
				max = v
			}
		}
		return max
	default:
		return 0
	}
}
