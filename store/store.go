// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

// Package store defines the durable poll store contract.
//
// Implementations live in sqlstore (Postgres, SQLite) and mongostore.
// Every mutation re-checks expiry and option membership inside one
// atomic unit, so a caller that lost a race with the clock gets
// ErrExpired and nothing is written.
package store

import (
	"context"
	"errors"
	"time"

	"github.com/danielhkuo/vanishvote/models"
)

var (
	ErrNotFound      = errors.New("poll not found")
	ErrExpired       = errors.New("poll expired")
	ErrInvalidOption = errors.New("option not found in poll")
	ErrDuplicate     = errors.New("identity already voted")
	ErrConflict      = errors.New("poll id already exists")
)

// Reaction counters
type ReactionField int

const (
	Trending ReactionField = iota
	Likes
)

// Vote describes one vote mutation
type Vote struct {
	PollID        string
	OptionID      string
	IdentityToken string
	// Unique rejects the vote with ErrDuplicate when IdentityToken
	// already voted on this poll.
	Unique bool
	// Now is compared against the poll's expiresAt at write time.
	Now time.Time
}

type Store interface {
	// Create inserts a new poll. Returns ErrConflict if the ID exists.
	Create(ctx context.Context, poll *models.Poll) error
	// Get returns a poll with options in creation order. Returns ErrNotFound.
	Get(ctx context.Context, pollID string) (*models.Poll, error)
	// RecordVote increments one option and records the identity token,
	// returning the poll after the write.
	RecordVote(ctx context.Context, v Vote) (*models.Poll, error)
	// AddReaction increments one reaction counter if the poll is active at now.
	AddReaction(ctx context.Context, pollID string, field ReactionField, now time.Time) (models.Reactions, error)
	// Ping checks the store is reachable.
	Ping(ctx context.Context) error
	Close() error
}
