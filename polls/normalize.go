// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package polls

import (
	"strings"
	"time"

	"github.com/danielhkuo/vanishvote/models"
)

// NewPoll is a creation request after defaults are applied
type NewPoll struct {
	Title       string
	Options     []string
	Window      time.Duration
	HideResults bool
	IsPrivate   bool
}

// ExpiryWindow maps an expiresIn selector to its duration.
// Anything other than 1hour or 12hours means 24 hours.
func ExpiryWindow(selector string) time.Duration {
	switch selector {
	case models.ExpiresIn1Hour:
		return time.Hour
	case models.ExpiresIn12Hours:
		return 12 * time.Hour
	default:
		return 24 * time.Hour
	}
}

// TrimRequest returns a copy of req with surrounding whitespace removed
// from the title and every option
func TrimRequest(req models.CreatePollRequest) models.CreatePollRequest {
	out := req
	out.Title = strings.TrimSpace(req.Title)
	out.ExpiresIn = strings.TrimSpace(req.ExpiresIn)
	if req.Options != nil {
		out.Options = make([]string, len(req.Options))
		for i, opt := range req.Options {
			out.Options[i] = strings.TrimSpace(opt)
		}
	}
	return out
}

// NormalizeCreate fills defaults: hideResults false, isPrivate true,
// and the expiry window from the selector
func NormalizeCreate(req models.CreatePollRequest) NewPoll {
	req = TrimRequest(req)

	n := NewPoll{
		Title:     req.Title,
		Options:   req.Options,
		Window:    ExpiryWindow(req.ExpiresIn),
		IsPrivate: true,
	}
	if req.HideResults != nil {
		n.HideResults = *req.HideResults
	}
	if req.IsPrivate != nil {
		n.IsPrivate = *req.IsPrivate
	}
	return n
}
