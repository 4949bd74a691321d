// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package lifecycle

import (
	"testing"
	"time"
)

func TestEvaluate(t *testing.T) {
	expiresAt := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name string
		now  time.Time
		want State
	}{
		{"an hour before", expiresAt.Add(-time.Hour), Active},
		{"exactly at expiry", expiresAt, Active},
		{"one nanosecond after", expiresAt.Add(time.Nanosecond), Expired},
		{"a day after", expiresAt.Add(24 * time.Hour), Expired},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Evaluate(tt.now, expiresAt); got != tt.want {
				t.Errorf("Evaluate() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestResultsVisible(t *testing.T) {
	tests := []struct {
		hideResults bool
		state       State
		want        bool
	}{
		{false, Active, true},
		{false, Expired, true},
		{true, Active, false},
		{true, Expired, true},
	}

	for _, tt := range tests {
		t.Run(tt.state.String(), func(t *testing.T) {
			if got := ResultsVisible(tt.hideResults, tt.state); got != tt.want {
				t.Errorf("ResultsVisible(%v, %v) = %v, want %v", tt.hideResults, tt.state, got, tt.want)
			}
		})
	}
}

func TestRemaining(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	if got := Remaining(now, now.Add(90*time.Minute)); got != 90*time.Minute {
		t.Errorf("Remaining() = %v, want 90m", got)
	}
	if got := Remaining(now, now.Add(-time.Minute)); got != 0 {
		t.Errorf("Remaining() after expiry = %v, want 0", got)
	}
}

func TestStateString(t *testing.T) {
	if Active.String() != "active" || Expired.String() != "expired" {
		t.Errorf("unexpected state names: %s, %s", Active, Expired)
	}
	if State(42).String() != "unknown" {
		t.Errorf("State(42).String() = %s, want unknown", State(42))
	}
}
