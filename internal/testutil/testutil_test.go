package testutil

import (
	"context"
	"testing"
	"time"
)

func TestLogger_NotNil(t *testing.T) {
	l := Logger()
	if l == nil {
		t.Fatal("expected non-nil logger")
	}
}

func TestNewStore_Usable(t *testing.T) {
	db := NewStore(t)
	if db == nil {
		t.Fatal("expected non-nil store")
	}
	if err := db.DB().PingContext(context.Background()); err != nil {
		t.Fatalf("PingContext: %v", err)
	}
}

func TestClock_Advance(t *testing.T) {
	c := NewClock()
	start := c.Now()
	c.Advance(5 * time.Minute)
	if got := c.Now().Sub(start); got != 5*time.Minute {
		t.Errorf("Advance: elapsed = %v, want 5m", got)
	}
}

func TestClock_Set(t *testing.T) {
	c := NewClock()
	target := time.Date(2030, 6, 15, 12, 0, 0, 0, time.UTC)
	c.Set(target)
	if !c.Now().Equal(target) {
		t.Errorf("Set: got %v, want %v", c.Now(), target)
	}
}

func TestNewRecord_Defaults(t *testing.T) {
	r := NewRecord()
	if r["id"] == "" {
		t.Error("expected non-empty id")
	}
	if r["status"] != "active" {
		t.Errorf("status = %v, want active", r["status"])
	}
}

func TestNewRecord_WithOptions(t *testing.T) {
	r := NewRecord(
		WithField("name", "widget"),
		WithNested("brand", "name", "Acme"),
	)
	if r["name"] != "widget" {
		t.Errorf("name = %v, want widget", r["name"])
	}
	brand, ok := r["brand"].(map[string]any)
	if !ok || brand["name"] != "Acme" {
		t.Errorf("brand = %v, want nested map with name Acme", r["brand"])
	}
}
