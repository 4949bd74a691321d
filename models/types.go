// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package models

import "time"

// Expiry window selectors
const (
	ExpiresIn1Hour   = "1hour"
	ExpiresIn12Hours = "12hours"
	ExpiresIn24Hours = "24hours"
)

// Reaction kinds
const (
	ReactionTrending = "trending"
	ReactionLike     = "like"
)

// Request types

type CreatePollRequest struct {
	Title       string   `json:"title" validate:"required,min=5,max=200"`
	Options     []string `json:"options" validate:"required,min=2,max=10,dive,required,max=100"`
	ExpiresIn   string   `json:"expiresIn" validate:"omitempty,oneof=1hour 12hours 24hours"`
	HideResults *bool    `json:"hideResults"`
	IsPrivate   *bool    `json:"isPrivate"`
}

type VoteRequest struct {
	OptionID string `json:"optionId" validate:"required"`
}

type ReactionRequest struct {
	ReactionType string `json:"reactionType" validate:"required"`
}

// Domain types

type Poll struct {
	ID          string    `json:"pollId"`
	Title       string    `json:"title"`
	Options     []Option  `json:"options"`
	CreatedAt   time.Time `json:"createdAt"`
	ExpiresAt   time.Time `json:"expiresAt"`
	HideResults bool      `json:"hideResults"`
	IsPrivate   bool      `json:"isPrivate"`
	Reactions   Reactions `json:"reactions"`
}

// Option returns the option with id, if it belongs to the poll
func (p *Poll) Option(id string) (Option, bool) {
	for _, opt := range p.Options {
		if opt.ID == id {
			return opt, true
		}
	}
	return Option{}, false
}

type Option struct {
	ID    string `json:"id"`
	Text  string `json:"text"`
	Votes int64  `json:"votes"`
}

type Reactions struct {
	Trending int64 `json:"trending"`
	Likes    int64 `json:"likes"`
}

// Response types

// OptionView omits Votes when results are not visible
type OptionView struct {
	ID    string `json:"id"`
	Text  string `json:"text"`
	Votes *int64 `json:"votes,omitempty"`
}

type PollView struct {
	PollID      string       `json:"pollId"`
	Title       string       `json:"title"`
	Options     []OptionView `json:"options"`
	ExpiresAt   time.Time    `json:"expiresAt"`
	ExpiresIn   string       `json:"expiresIn,omitempty"`
	HideResults bool         `json:"hideResults"`
	IsPrivate   bool         `json:"isPrivate"`
	Reactions   Reactions    `json:"reactions"`
	Message     string       `json:"message,omitempty"`
}

type ReactionView struct {
	PollID    string    `json:"pollId"`
	Reactions Reactions `json:"reactions"`
	Message   string    `json:"message"`
}

type ResultsView struct {
	PollID     string    `json:"pollId"`
	Title      string    `json:"title"`
	Options    []Option  `json:"options"`
	ExpiresAt  time.Time `json:"expiresAt"`
	Reactions  Reactions `json:"reactions"`
	IsExpired  bool      `json:"isExpired"`
	TotalVotes int64     `json:"totalVotes"`
}

// Envelope wraps every successful response
type Envelope struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data"`
}

// Error response

type ErrorResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}
