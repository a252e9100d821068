package perf

import (
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
)

func testMonitor() *Monitor {
	return NewMonitor(zap.NewNop(), nil)
}

func TestStartEnd(t *testing.T) {
	m := testMonitor()

	m.Start("op")
	time.Sleep(10 * time.Millisecond)
	elapsed := m.End("op")

	if elapsed < 10*time.Millisecond {
		t.Errorf("elapsed = %v, want >= 10ms", elapsed)
	}
	if m.Active() != 0 {
		t.Errorf("Active() = %d after End, want 0", m.Active())
	}
}

func TestEnd_UnknownLabel(t *testing.T) {
	m := testMonitor()

	if elapsed := m.End("never-started"); elapsed != 0 {
		t.Errorf("End(unknown) = %v, want 0", elapsed)
	}
}

func TestEnd_RemovesTimer(t *testing.T) {
	m := testMonitor()

	m.Start("op")
	m.End("op")

	if elapsed := m.End("op"); elapsed != 0 {
		t.Errorf("second End = %v, want 0 (timer removed)", elapsed)
	}
}

func TestStart_ReplacesTimer(t *testing.T) {
	m := testMonitor()

	m.Start("op")
	m.Start("op")

	if m.Active() != 1 {
		t.Errorf("Active() = %d, want 1", m.Active())
	}
}

func TestMeasure(t *testing.T) {
	m := testMonitor()

	result, elapsed, err := Measure(m, "query", func() (int, error) {
		time.Sleep(5 * time.Millisecond)
		return 7, nil
	})
	if err != nil {
		t.Fatalf("Measure() error = %v", err)
	}
	if result != 7 {
		t.Errorf("result = %d, want 7", result)
	}
	if elapsed < 5*time.Millisecond {
		t.Errorf("elapsed = %v, want >= 5ms", elapsed)
	}
}

func TestMeasure_ErrorPassesThrough(t *testing.T) {
	m := testMonitor()
	boom := errors.New("boom")

	_, elapsed, err := Measure(m, "failing", func() (struct{}, error) {
		return struct{}{}, boom
	})

	if !errors.Is(err, boom) {
		t.Errorf("error = %v, want %v", err, boom)
	}
	if elapsed < 0 {
		t.Errorf("elapsed = %v, want >= 0 (measured despite error)", elapsed)
	}
	if m.Active() != 0 {
		t.Errorf("Active() = %d, want 0", m.Active())
	}
}

func TestNewMonitor_RegistersHistogram(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewMonitor(zap.NewNop(), reg)

	m.Start("op")
	m.End("op")

	families, err := reg.Gather()
	if err != nil {
		t.Fatalf("Gather() error = %v", err)
	}
	found := false
	for _, f := range families {
		if f.GetName() == "shapelift_operation_duration_seconds" {
			found = true
		}
	}
	if !found {
		t.Error("shapelift_operation_duration_seconds not registered")
	}
}
