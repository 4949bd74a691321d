// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package polls

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/google/uuid"

	"github.com/danielhkuo/vanishvote/auth"
	"github.com/danielhkuo/vanishvote/lifecycle"
	"github.com/danielhkuo/vanishvote/models"
	"github.com/danielhkuo/vanishvote/store"
	"github.com/danielhkuo/vanishvote/validate"
)

// VotePolicy decides whether a hashed identity may vote more than once
type VotePolicy string

const (
	// PolicyOnce rejects a second vote from the same identity token
	PolicyOnce VotePolicy = "once"
	// PolicyPermissive counts every vote; tokens are recorded but never checked
	PolicyPermissive VotePolicy = "permissive"
)

// ParseVotePolicy accepts "once" and "permissive"
func ParseVotePolicy(s string) (VotePolicy, error) {
	switch VotePolicy(s) {
	case PolicyOnce, PolicyPermissive:
		return VotePolicy(s), nil
	default:
		return "", fmt.Errorf("unknown vote policy %q (want once or permissive)", s)
	}
}

const createAttempts = 3

type Options struct {
	Policy VotePolicy
	// StoreTimeout bounds every store call; zero means no extra bound
	StoreTimeout time.Duration
	// Now defaults to time.Now
	Now func() time.Time
	// NewPollID defaults to auth.GeneratePollID
	NewPollID func() (string, error)
}

type Service struct {
	store     store.Store
	hasher    *auth.Hasher
	policy    VotePolicy
	timeout   time.Duration
	now       func() time.Time
	newPollID func() (string, error)
}

func NewService(st store.Store, hasher *auth.Hasher, opts Options) *Service {
	s := &Service{
		store:     st,
		hasher:    hasher,
		policy:    opts.Policy,
		timeout:   opts.StoreTimeout,
		now:       opts.Now,
		newPollID: opts.NewPollID,
	}
	if s.policy == "" {
		s.policy = PolicyOnce
	}
	if s.now == nil {
		s.now = time.Now
	}
	if s.newPollID == nil {
		s.newPollID = auth.GeneratePollID
	}
	return s
}

// CreatePoll validates req, applies defaults and stores a new poll
func (s *Service) CreatePoll(ctx context.Context, req models.CreatePollRequest) (*models.Poll, error) {
	trimmed := TrimRequest(req)
	if err := validate.Struct(trimmed); err != nil {
		var fe *validate.FieldError
		if errors.As(err, &fe) {
			return nil, &ValidationError{Field: fe.Field, Message: fe.Message}
		}
		return nil, &ValidationError{Message: err.Error()}
	}

	n := NormalizeCreate(trimmed)
	now := s.now().UTC()
	poll := &models.Poll{
		Title:       n.Title,
		Options:     make([]models.Option, len(n.Options)),
		CreatedAt:   now,
		ExpiresAt:   now.Add(n.Window),
		HideResults: n.HideResults,
		IsPrivate:   n.IsPrivate,
	}
	for i, text := range n.Options {
		poll.Options[i] = models.Option{ID: uuid.NewString(), Text: text}
	}

	ctx, cancel := s.storeContext(ctx)
	defer cancel()

	for attempt := 1; ; attempt++ {
		id, err := s.newPollID()
		if err != nil {
			return nil, fmt.Errorf("failed to generate poll ID: %w", err)
		}
		poll.ID = id

		err = s.store.Create(ctx, poll)
		if err == nil {
			break
		}
		if errors.Is(err, store.ErrConflict) && attempt < createAttempts {
			slog.Warn("poll ID collision, retrying", "attempt", attempt)
			continue
		}
		return nil, storeError(err)
	}

	slog.Info("poll created",
		"poll_id", poll.ID,
		"options", len(poll.Options),
		"hide_results", poll.HideResults,
		"expires", humanize.RelTime(poll.ExpiresAt, now, "ago", "from now"),
	)
	return poll, nil
}

// GetPoll returns an active poll with votes redacted per its visibility.
// Expired polls are ErrGone here; their results stay on GetResults.
func (s *Service) GetPoll(ctx context.Context, pollID string) (*models.PollView, error) {
	poll, err := s.load(ctx, pollID)
	if err != nil {
		return nil, err
	}

	now := s.now()
	if lifecycle.Evaluate(now, poll.ExpiresAt) == lifecycle.Expired {
		return nil, ErrGone
	}
	return project(poll, now), nil
}

// Vote counts one vote for optionID from the identity behind signal
func (s *Service) Vote(ctx context.Context, pollID, optionID, signal string) (*models.PollView, error) {
	poll, err := s.load(ctx, pollID)
	if err != nil {
		return nil, err
	}

	now := s.now()
	if lifecycle.Evaluate(now, poll.ExpiresAt) == lifecycle.Expired {
		return nil, ErrExpired
	}
	if _, ok := poll.Option(optionID); !ok {
		return nil, ErrInvalidOption
	}

	ctx, cancel := s.storeContext(ctx)
	defer cancel()

	updated, err := s.store.RecordVote(ctx, store.Vote{
		PollID:        pollID,
		OptionID:      optionID,
		IdentityToken: s.hasher.Hash(signal),
		Unique:        s.policy == PolicyOnce,
		Now:           now,
	})
	if err != nil {
		return nil, storeError(err)
	}

	slog.Info("vote recorded",
		"poll_id", pollID,
		"option_id", optionID,
		"remaining", lifecycle.Remaining(now, updated.ExpiresAt).Round(time.Second),
	)

	view := project(updated, now)
	view.Message = "Vote recorded successfully"
	return view, nil
}

// AddReaction increments the trending or likes counter. Reactions are not deduplicated.
func (s *Service) AddReaction(ctx context.Context, pollID, kind string) (*models.ReactionView, error) {
	var field store.ReactionField
	switch kind {
	case models.ReactionTrending:
		field = store.Trending
	case models.ReactionLike:
		field = store.Likes
	default:
		return nil, ErrInvalidReactionKind
	}

	poll, err := s.load(ctx, pollID)
	if err != nil {
		return nil, err
	}

	now := s.now()
	if lifecycle.Evaluate(now, poll.ExpiresAt) == lifecycle.Expired {
		return nil, ErrExpired
	}

	ctx, cancel := s.storeContext(ctx)
	defer cancel()

	reactions, err := s.store.AddReaction(ctx, pollID, field, now)
	if err != nil {
		return nil, storeError(err)
	}

	slog.Info("reaction added", "poll_id", pollID, "kind", kind)

	return &models.ReactionView{
		PollID:    pollID,
		Reactions: reactions,
		Message:   "Reaction added successfully",
	}, nil
}

// GetResults returns full counts unless the poll hides them and is still active
func (s *Service) GetResults(ctx context.Context, pollID string) (*models.ResultsView, error) {
	poll, err := s.load(ctx, pollID)
	if err != nil {
		return nil, err
	}

	state := lifecycle.Evaluate(s.now(), poll.ExpiresAt)
	if !lifecycle.ResultsVisible(poll.HideResults, state) {
		return nil, ErrResultsHidden
	}

	var total int64
	for _, opt := range poll.Options {
		total += opt.Votes
	}

	return &models.ResultsView{
		PollID:     poll.ID,
		Title:      poll.Title,
		Options:    poll.Options,
		ExpiresAt:  poll.ExpiresAt,
		Reactions:  poll.Reactions,
		IsExpired:  state == lifecycle.Expired,
		TotalVotes: total,
	}, nil
}

// Ping reports whether the store is reachable
func (s *Service) Ping(ctx context.Context) error {
	ctx, cancel := s.storeContext(ctx)
	defer cancel()
	if err := s.store.Ping(ctx); err != nil {
		return storeError(err)
	}
	return nil
}

func (s *Service) load(ctx context.Context, pollID string) (*models.Poll, error) {
	ctx, cancel := s.storeContext(ctx)
	defer cancel()

	poll, err := s.store.Get(ctx, pollID)
	if err != nil {
		return nil, storeError(err)
	}
	return poll, nil
}

func (s *Service) storeContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.timeout <= 0 {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, s.timeout)
}

// project renders poll for visitors, dropping vote counts when hidden
func project(poll *models.Poll, now time.Time) *models.PollView {
	state := lifecycle.Evaluate(now, poll.ExpiresAt)
	visible := lifecycle.ResultsVisible(poll.HideResults, state)

	options := make([]models.OptionView, len(poll.Options))
	for i, opt := range poll.Options {
		options[i] = models.OptionView{ID: opt.ID, Text: opt.Text}
		if visible {
			votes := opt.Votes
			options[i].Votes = &votes
		}
	}

	view := &models.PollView{
		PollID:      poll.ID,
		Title:       poll.Title,
		Options:     options,
		ExpiresAt:   poll.ExpiresAt,
		HideResults: poll.HideResults,
		IsPrivate:   poll.IsPrivate,
		Reactions:   poll.Reactions,
	}
	if state == lifecycle.Active {
		view.ExpiresIn = humanize.RelTime(poll.ExpiresAt, now, "ago", "from now")
	}
	return view
}

func storeError(err error) error {
	switch {
	case errors.Is(err, store.ErrNotFound):
		return ErrNotFound
	case errors.Is(err, store.ErrExpired):
		return ErrExpired
	case errors.Is(err, store.ErrInvalidOption):
		return ErrInvalidOption
	case errors.Is(err, store.ErrDuplicate):
		return ErrDuplicateVote
	default:
		return fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
}
