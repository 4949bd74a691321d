// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

// Package lifecycle classifies polls as active or expired and decides
// whether vote counts may be shown. Nothing here is stored: state is
// recomputed from the clock on every call.
package lifecycle

import "time"

type State int

const (
	Active State = iota
	Expired
)

func (s State) String() string {
	switch s {
	case Active:
		return "active"
	case Expired:
		return "expired"
	default:
		return "unknown"
	}
}

// Evaluate returns Active while now <= expiresAt, Expired afterwards.
// The instant expiresAt itself still accepts votes.
func Evaluate(now, expiresAt time.Time) State {
	if now.After(expiresAt) {
		return Expired
	}
	return Active
}

// ResultsVisible reports whether vote counts can be shown
func ResultsVisible(hideResults bool, state State) bool {
	return !hideResults || state == Expired
}

// Remaining returns time left before expiry, zero once expired
func Remaining(now, expiresAt time.Time) time.Duration {
	if d := expiresAt.Sub(now); d > 0 {
		return d
	}
	return 0
}
