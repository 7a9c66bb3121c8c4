package service

import (
	"testing"
	"time"
)

// TestRealClockNow ensures RealClock returns the current time in UTC.
func TestRealClockNow(t *testing.T) {
	rc := RealClock{}
	before := time.Now().Add(-time.Millisecond)
	got := rc.Now()
	after := time.Now().Add(50 * time.Millisecond)

	if got.Before(before) || got.After(after) {
		t.Fatalf("RealClock.Now out of expected range: before=%v got=%v after=%v", before, got, after)
	}
	if got.Location() != time.UTC {
		t.Fatalf("RealClock.Now should be UTC, got %v", got.Location())
	}
}
