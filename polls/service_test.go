// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package polls_test

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/danielhkuo/vanishvote/auth"
	"github.com/danielhkuo/vanishvote/models"
	"github.com/danielhkuo/vanishvote/polls"
	"github.com/danielhkuo/vanishvote/store"
	"github.com/danielhkuo/vanishvote/store/sqlstore"
	"github.com/danielhkuo/vanishvote/testutil"
)

var start = time.Date(2025, 6, 1, 9, 30, 0, 0, time.UTC)

func newService(t *testing.T, st store.Store, opts polls.Options) (*polls.Service, *testutil.Clock) {
	t.Helper()

	hasher, err := auth.NewHasher(testutil.TestSalt)
	require.NoError(t, err)

	clock := testutil.NewClock(start)
	if opts.Now == nil {
		opts.Now = clock.Now
	}
	return polls.NewService(st, hasher, opts), clock
}

func sqliteService(t *testing.T, policy polls.VotePolicy) (*polls.Service, *testutil.Clock) {
	t.Helper()
	return newService(t, sqlstore.New(testutil.SetupTestDB(t)), polls.Options{Policy: policy})
}

func pollRequest(expiresIn string, hide bool) models.CreatePollRequest {
	return models.CreatePollRequest{
		Title:       "Favourite season?",
		Options:     []string{"Spring", "Summer", "Autumn", "Winter"},
		ExpiresIn:   expiresIn,
		HideResults: &hide,
	}
}

func TestCreatePoll(t *testing.T) {
	svc, _ := sqliteService(t, polls.PolicyOnce)
	ctx := context.Background()

	poll, err := svc.CreatePoll(ctx, pollRequest(models.ExpiresIn12Hours, false))
	require.NoError(t, err)

	assert.Len(t, poll.ID, auth.PollIDLength)
	assert.Equal(t, start, poll.CreatedAt)
	assert.Equal(t, start.Add(12*time.Hour), poll.ExpiresAt)
	assert.True(t, poll.IsPrivate)

	seen := map[string]bool{}
	for _, opt := range poll.Options {
		assert.False(t, seen[opt.ID], "duplicate option ID %s", opt.ID)
		seen[opt.ID] = true
		assert.Zero(t, opt.Votes)
	}

	// Created polls are immediately readable
	view, err := svc.GetPoll(ctx, poll.ID)
	require.NoError(t, err)
	assert.Equal(t, poll.Title, view.Title)
	assert.Len(t, view.Options, 4)
}

func TestCreatePoll_Validation(t *testing.T) {
	svc, _ := sqliteService(t, polls.PolicyOnce)

	_, err := svc.CreatePoll(context.Background(), models.CreatePollRequest{
		Title:   "Tiny",
		Options: []string{"a", "b"},
	})

	var verr *polls.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "title", verr.Field)
	assert.NotEmpty(t, verr.Message)
}

func TestCreatePoll_RetriesIDCollision(t *testing.T) {
	st := sqlstore.New(testutil.SetupTestDB(t))

	ids := []string{"AAAAAAAAAA", "AAAAAAAAAA", "BBBBBBBBBB"}
	var mu sync.Mutex
	next := func() (string, error) {
		mu.Lock()
		defer mu.Unlock()
		id := ids[0]
		ids = ids[1:]
		return id, nil
	}

	svc, _ := newService(t, st, polls.Options{NewPollID: next})
	ctx := context.Background()

	first, err := svc.CreatePoll(ctx, pollRequest("", false))
	require.NoError(t, err)
	assert.Equal(t, "AAAAAAAAAA", first.ID)

	second, err := svc.CreatePoll(ctx, pollRequest("", false))
	require.NoError(t, err)
	assert.Equal(t, "BBBBBBBBBB", second.ID)
}

func TestCreatePoll_GivesUpAfterRepeatedCollisions(t *testing.T) {
	st := sqlstore.New(testutil.SetupTestDB(t))
	svc, _ := newService(t, st, polls.Options{
		NewPollID: func() (string, error) { return "SAMESAMEID", nil },
	})
	ctx := context.Background()

	_, err := svc.CreatePoll(ctx, pollRequest("", false))
	require.NoError(t, err)

	_, err = svc.CreatePoll(ctx, pollRequest("", false))
	assert.ErrorIs(t, err, polls.ErrStoreUnavailable)
}

func TestVote_VisibilityFollowsHideResults(t *testing.T) {
	ctx := context.Background()

	for _, hide := range []bool{false, true} {
		t.Run(fmt.Sprintf("hide=%v", hide), func(t *testing.T) {
			svc, _ := sqliteService(t, polls.PolicyOnce)
			poll, err := svc.CreatePoll(ctx, pollRequest(models.ExpiresIn1Hour, hide))
			require.NoError(t, err)

			view, err := svc.Vote(ctx, poll.ID, poll.Options[2].ID, "10.0.0.1")
			require.NoError(t, err)
			assert.Equal(t, "Vote recorded successfully", view.Message)

			for _, opt := range view.Options {
				if hide {
					assert.Nil(t, opt.Votes)
				} else {
					require.NotNil(t, opt.Votes)
				}
			}
			if !hide {
				assert.Equal(t, int64(1), *view.Options[2].Votes)
			}
		})
	}
}

func TestVote_OncePerIdentity(t *testing.T) {
	svc, _ := sqliteService(t, polls.PolicyOnce)
	ctx := context.Background()
	poll, err := svc.CreatePoll(ctx, pollRequest("", false))
	require.NoError(t, err)

	_, err = svc.Vote(ctx, poll.ID, poll.Options[0].ID, "10.0.0.1")
	require.NoError(t, err)

	_, err = svc.Vote(ctx, poll.ID, poll.Options[1].ID, "10.0.0.1")
	assert.ErrorIs(t, err, polls.ErrDuplicateVote)

	// One identity may still vote on a different poll
	other, err := svc.CreatePoll(ctx, pollRequest("", false))
	require.NoError(t, err)
	_, err = svc.Vote(ctx, other.ID, other.Options[0].ID, "10.0.0.1")
	assert.NoError(t, err)
}

func TestVote_Permissive(t *testing.T) {
	svc, _ := sqliteService(t, polls.PolicyPermissive)
	ctx := context.Background()
	poll, err := svc.CreatePoll(ctx, pollRequest("", false))
	require.NoError(t, err)

	for i := 0; i < 4; i++ {
		_, err := svc.Vote(ctx, poll.ID, poll.Options[3].ID, "10.0.0.1")
		require.NoError(t, err)
	}

	results, err := svc.GetResults(ctx, poll.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(4), results.TotalVotes)
}

func TestVote_ErrorPrecedence(t *testing.T) {
	svc, clock := sqliteService(t, polls.PolicyOnce)
	ctx := context.Background()
	poll, err := svc.CreatePoll(ctx, pollRequest(models.ExpiresIn1Hour, false))
	require.NoError(t, err)

	_, err = svc.Vote(ctx, "nonexistent", "x", "10.0.0.1")
	assert.ErrorIs(t, err, polls.ErrNotFound)

	_, err = svc.Vote(ctx, poll.ID, "x", "10.0.0.1")
	assert.ErrorIs(t, err, polls.ErrInvalidOption)

	// Expiry is reported before a bad option
	clock.Advance(time.Hour + time.Nanosecond)
	_, err = svc.Vote(ctx, poll.ID, "x", "10.0.0.1")
	assert.ErrorIs(t, err, polls.ErrExpired)
}

func TestAddReaction(t *testing.T) {
	svc, clock := sqliteService(t, polls.PolicyOnce)
	ctx := context.Background()
	poll, err := svc.CreatePoll(ctx, pollRequest(models.ExpiresIn1Hour, true))
	require.NoError(t, err)

	view, err := svc.AddReaction(ctx, poll.ID, models.ReactionTrending)
	require.NoError(t, err)
	assert.Equal(t, models.Reactions{Trending: 1}, view.Reactions)
	assert.Equal(t, "Reaction added successfully", view.Message)

	view, err = svc.AddReaction(ctx, poll.ID, models.ReactionLike)
	require.NoError(t, err)
	assert.Equal(t, models.Reactions{Trending: 1, Likes: 1}, view.Reactions)

	_, err = svc.AddReaction(ctx, poll.ID, "likes")
	assert.ErrorIs(t, err, polls.ErrInvalidReactionKind)

	clock.Advance(time.Hour + time.Second)
	_, err = svc.AddReaction(ctx, poll.ID, models.ReactionLike)
	assert.ErrorIs(t, err, polls.ErrExpired)
}

func TestGetResults_Lifecycle(t *testing.T) {
	svc, clock := sqliteService(t, polls.PolicyOnce)
	ctx := context.Background()

	hidden, err := svc.CreatePoll(ctx, pollRequest(models.ExpiresIn1Hour, true))
	require.NoError(t, err)
	open, err := svc.CreatePoll(ctx, pollRequest(models.ExpiresIn24Hours, false))
	require.NoError(t, err)

	_, err = svc.GetResults(ctx, hidden.ID)
	assert.ErrorIs(t, err, polls.ErrResultsHidden)

	results, err := svc.GetResults(ctx, open.ID)
	require.NoError(t, err)
	assert.False(t, results.IsExpired)

	// Exactly at expiresAt the poll is still active and sealed
	clock.Advance(time.Hour)
	_, err = svc.GetResults(ctx, hidden.ID)
	assert.ErrorIs(t, err, polls.ErrResultsHidden)

	clock.Advance(time.Nanosecond)
	results, err = svc.GetResults(ctx, hidden.ID)
	require.NoError(t, err)
	assert.True(t, results.IsExpired)

	_, err = svc.GetPoll(ctx, hidden.ID)
	assert.ErrorIs(t, err, polls.ErrGone)
	_, err = svc.GetPoll(ctx, open.ID)
	assert.NoError(t, err)
}

func TestGetPoll_ExpiresIn(t *testing.T) {
	svc, _ := sqliteService(t, polls.PolicyOnce)
	ctx := context.Background()
	poll, err := svc.CreatePoll(ctx, pollRequest(models.ExpiresIn12Hours, false))
	require.NoError(t, err)

	view, err := svc.GetPoll(ctx, poll.ID)
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(view.ExpiresIn, "from now"), "got %q", view.ExpiresIn)
}

func TestTotalsMatchAcceptedVotes(t *testing.T) {
	svc, _ := sqliteService(t, polls.PolicyOnce)
	ctx := context.Background()
	poll, err := svc.CreatePoll(ctx, pollRequest("", false))
	require.NoError(t, err)

	accepted := 0
	for i := 0; i < 30; i++ {
		// Every third signal repeats an earlier voter
		signal := fmt.Sprintf("10.0.0.%d", i-i%3)
		if _, err := svc.Vote(ctx, poll.ID, poll.Options[i%4].ID, signal); err == nil {
			accepted++
		} else {
			require.ErrorIs(t, err, polls.ErrDuplicateVote)
		}
	}

	results, err := svc.GetResults(ctx, poll.ID)
	require.NoError(t, err)
	assert.Equal(t, 10, accepted)
	assert.Equal(t, int64(accepted), results.TotalVotes)
}

// failingStore fails every call the way an unreachable database would
type failingStore struct{}

var errDown = errors.New("connection refused")

func (failingStore) Create(context.Context, *models.Poll) error { return errDown }
func (failingStore) Get(context.Context, string) (*models.Poll, error) {
	return nil, errDown
}
func (failingStore) RecordVote(context.Context, store.Vote) (*models.Poll, error) {
	return nil, errDown
}
func (failingStore) AddReaction(context.Context, string, store.ReactionField, time.Time) (models.Reactions, error) {
	return models.Reactions{}, errDown
}
func (failingStore) Ping(context.Context) error { return errDown }
func (failingStore) Close() error               { return nil }

func TestStoreUnavailable(t *testing.T) {
	svc, _ := newService(t, failingStore{}, polls.Options{})
	ctx := context.Background()

	_, err := svc.CreatePoll(ctx, pollRequest("", false))
	assert.ErrorIs(t, err, polls.ErrStoreUnavailable)

	_, err = svc.GetPoll(ctx, "abc")
	assert.ErrorIs(t, err, polls.ErrStoreUnavailable)

	_, err = svc.Vote(ctx, "abc", "x", "10.0.0.1")
	assert.ErrorIs(t, err, polls.ErrStoreUnavailable)

	_, err = svc.GetResults(ctx, "abc")
	assert.ErrorIs(t, err, polls.ErrStoreUnavailable)

	assert.ErrorIs(t, svc.Ping(ctx), polls.ErrStoreUnavailable)

	// The kind check needs no store
	_, err = svc.AddReaction(ctx, "abc", "clap")
	assert.ErrorIs(t, err, polls.ErrInvalidReactionKind)
	_, err = svc.AddReaction(ctx, "abc", models.ReactionLike)
	assert.ErrorIs(t, err, polls.ErrStoreUnavailable)
}

func TestIdentityNeverStoredRaw(t *testing.T) {
	conn := testutil.SetupTestDB(t)
	svc, _ := newService(t, sqlstore.New(conn), polls.Options{})
	ctx := context.Background()

	poll, err := svc.CreatePoll(ctx, pollRequest("", false))
	require.NoError(t, err)
	_, err = svc.Vote(ctx, poll.ID, poll.Options[0].ID, "198.51.100.23")
	require.NoError(t, err)

	var token string
	require.NoError(t, conn.QueryRow(`SELECT identity_token FROM poll_voter WHERE poll_id = $1`, poll.ID).Scan(&token))
	assert.NotContains(t, token, "198.51.100.23")
	assert.Equal(t, auth.HashIdentity("198.51.100.23", testutil.TestSalt), token)
}
