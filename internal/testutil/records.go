package testutil

import (
	"github.com/google/uuid"

	"github.com/shapelift/shapelift/pkg/engine"
)

// RecordOption mutates a fixture record.
type RecordOption func(engine.Record)

// WithField sets a top-level field on the fixture record.
func WithField(key string, value any) RecordOption {
	return func(r engine.Record) { r[key] = value }
}

// WithNested sets a nested field one level deep.
func WithNested(parent, key string, value any) RecordOption {
	return func(r engine.Record) {
		m, ok := r[parent].(map[string]any)
		if !ok {
			m = map[string]any{}
			r[parent] = m
		}
		m[key] = value
	}
}

// NewRecord builds a fixture record with a generated id and sensible
// defaults, then applies the given options.
func NewRecord(opts ...RecordOption) engine.Record {
	r := engine.Record{
		"id":     uuid.NewString(),
		"name":   "test-record",
		"status": "active",
		"value":  1.0,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}
