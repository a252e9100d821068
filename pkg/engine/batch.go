package engine

import "context"

// Transform maps each element through fn with its index, preserving length
// and order.
func Transform[T, R any](data []T, fn func(T, int) R) []R {
	out := make([]R, len(data))
	for i, v := range data {
		out[i] = fn(v, i)
	}
	return out
}

// ProcessBatches splits data into consecutive chunks of at most batchSize
// and invokes fn on each chunk strictly sequentially, concatenating the
// results in chunk order. Sequential execution is the point: it bounds
// simultaneous load on whatever fn calls downstream (rate-limited external
// APIs, typically). No two fn invocations overlap in time.
//
// The context is checked between batches; the engine imposes no timeout of
// its own, so callers supply their own deadline when they need one. A fn
// error aborts immediately and is returned as-is.
func ProcessBatches[T, R any](ctx context.Context, data []T, batchSize int, fn func(context.Context, []T) ([]R, error)) ([]R, error) {
	if batchSize < 1 {
		batchSize = 1
	}

	out := make([]R, 0, len(data))
	for start := 0; start < len(data); start += batchSize {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		end := start + batchSize
		if end > len(data) {
			end = len(data)
		}

		results, err := fn(ctx, data[start:end])
		if err != nil {
			return nil, err
		}
		out = append(out, results...)
	}
	return out, nil
}
