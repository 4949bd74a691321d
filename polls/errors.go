// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package polls

import "errors"

var (
	ErrNotFound            = errors.New("poll not found")
	ErrGone                = errors.New("this poll has expired and is no longer available")
	ErrExpired             = errors.New("this poll has expired and no longer accepts votes or reactions")
	ErrInvalidOption       = errors.New("option not found in this poll")
	ErrInvalidReactionKind = errors.New(`invalid reaction type, must be "trending" or "like"`)
	ErrResultsHidden       = errors.New("results for this poll are hidden until it expires")
	ErrDuplicateVote       = errors.New("you have already voted on this poll")
	ErrStoreUnavailable    = errors.New("poll store unavailable")
)

// ValidationError reports malformed input
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}
