// Package perf provides named-timer instrumentation for synchronous and
// asynchronous units of work. It is purely observational: it never alters
// control flow, and mismatched labels degrade to a zero duration instead of
// failing.
package perf

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
)

// Monitor tracks in-flight named timers and observes completed durations
// into a Prometheus histogram labeled by operation.
type Monitor struct {
	mu     sync.Mutex
	timers map[string]time.Time
	logger *zap.Logger

	durations *prometheus.HistogramVec
}

// NewMonitor creates a Monitor. When reg is non-nil the duration histogram
// is registered with it; pass nil to skip metrics (tests, ad-hoc tooling).
func NewMonitor(logger *zap.Logger, reg prometheus.Registerer) *Monitor {
	m := &Monitor{
		timers: make(map[string]time.Time),
		logger: logger,
		durations: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "shapelift",
			Name:      "operation_duration_seconds",
			Help:      "Wall-clock duration of instrumented operations.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"operation"}),
	}
	if reg != nil {
		reg.MustRegister(m.durations)
	}
	return m
}

// Start records the current time under label, replacing any unfinished timer
// with the same label.
func (m *Monitor) Start(label string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.timers[label] = time.Now()
}

// End returns the elapsed time since the matching Start and removes the
// timer. An unknown label returns zero; it never fails.
func (m *Monitor) End(label string) time.Duration {
	m.mu.Lock()
	started, ok := m.timers[label]
	if ok {
		delete(m.timers, label)
	}
	m.mu.Unlock()

	if !ok {
		return 0
	}

	elapsed := time.Since(started)
	m.durations.WithLabelValues(label).Observe(elapsed.Seconds())
	m.logger.Debug("operation timed",
		zap.String("operation", label),
		zap.Duration("elapsed", elapsed),
	)
	return elapsed
}

// Active returns the number of timers currently in flight.
func (m *Monitor) Active() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.timers)
}

// Measure wraps fn in a Start/End pair under label and returns the result,
// the measured duration, and fn's error. The error passes through untouched;
// the duration is recorded either way.
func Measure[T any](m *Monitor, label string, fn func() (T, error)) (T, time.Duration, error) {
	m.Start(label)
	result, err := fn()
	elapsed := m.End(label)
	return result, elapsed, err
}
