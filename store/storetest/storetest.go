// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

// Package storetest holds behaviour tests shared by every store.Store
// implementation.
package storetest

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/danielhkuo/vanishvote/auth"
	"github.com/danielhkuo/vanishvote/models"
	"github.com/danielhkuo/vanishvote/store"
)

var base = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

// NewPoll builds an unsaved poll with a random ID expiring after window
func NewPoll(t *testing.T, window time.Duration, texts ...string) *models.Poll {
	t.Helper()

	id, err := auth.GeneratePollID()
	require.NoError(t, err)

	poll := &models.Poll{
		ID:        id,
		Title:     "Store test poll",
		CreatedAt: base,
		ExpiresAt: base.Add(window),
		IsPrivate: true,
	}
	for _, text := range texts {
		poll.Options = append(poll.Options, models.Option{ID: uuid.NewString(), Text: text})
	}
	return poll
}

// Run exercises s against the store.Store contract
func Run(t *testing.T, s store.Store) {
	ctx := context.Background()

	t.Run("CreateAndGet", func(t *testing.T) {
		poll := NewPoll(t, time.Hour, "Red", "Green", "Blue")
		poll.HideResults = true
		require.NoError(t, s.Create(ctx, poll))

		got, err := s.Get(ctx, poll.ID)
		require.NoError(t, err)
		assert.Equal(t, poll.Title, got.Title)
		assert.True(t, got.HideResults)
		assert.True(t, got.IsPrivate)
		assert.True(t, got.ExpiresAt.Equal(poll.ExpiresAt), "expiresAt %v != %v", got.ExpiresAt, poll.ExpiresAt)
		require.Len(t, got.Options, 3)
		for i, opt := range got.Options {
			assert.Equal(t, poll.Options[i].ID, opt.ID)
			assert.Equal(t, poll.Options[i].Text, opt.Text)
			assert.Zero(t, opt.Votes)
		}
		assert.Equal(t, models.Reactions{}, got.Reactions)
	})

	t.Run("CreateConflict", func(t *testing.T) {
		poll := NewPoll(t, time.Hour, "a", "b")
		require.NoError(t, s.Create(ctx, poll))
		assert.ErrorIs(t, s.Create(ctx, poll), store.ErrConflict)
	})

	t.Run("GetNotFound", func(t *testing.T) {
		_, err := s.Get(ctx, "missing123")
		assert.ErrorIs(t, err, store.ErrNotFound)
	})

	t.Run("RecordVote", func(t *testing.T) {
		poll := NewPoll(t, time.Hour, "a", "b")
		require.NoError(t, s.Create(ctx, poll))

		got, err := s.RecordVote(ctx, store.Vote{
			PollID: poll.ID, OptionID: poll.Options[1].ID,
			IdentityToken: "tok-1", Unique: true, Now: base,
		})
		require.NoError(t, err)
		assert.Equal(t, int64(0), got.Options[0].Votes)
		assert.Equal(t, int64(1), got.Options[1].Votes)
	})

	t.Run("RecordVoteUnique", func(t *testing.T) {
		poll := NewPoll(t, time.Hour, "a", "b")
		require.NoError(t, s.Create(ctx, poll))

		v := store.Vote{PollID: poll.ID, OptionID: poll.Options[0].ID, IdentityToken: "tok-1", Unique: true, Now: base}
		_, err := s.RecordVote(ctx, v)
		require.NoError(t, err)

		v.OptionID = poll.Options[1].ID
		_, err = s.RecordVote(ctx, v)
		assert.ErrorIs(t, err, store.ErrDuplicate)

		got, err := s.Get(ctx, poll.ID)
		require.NoError(t, err)
		assert.Equal(t, int64(1), got.Options[0].Votes)
		assert.Equal(t, int64(0), got.Options[1].Votes)
	})

	t.Run("RecordVotePermissive", func(t *testing.T) {
		poll := NewPoll(t, time.Hour, "a", "b")
		require.NoError(t, s.Create(ctx, poll))

		v := store.Vote{PollID: poll.ID, OptionID: poll.Options[0].ID, IdentityToken: "tok-1", Now: base}
		for i := 0; i < 3; i++ {
			_, err := s.RecordVote(ctx, v)
			require.NoError(t, err)
		}

		got, err := s.Get(ctx, poll.ID)
		require.NoError(t, err)
		assert.Equal(t, int64(3), got.Options[0].Votes)
	})

	t.Run("RecordVoteRejections", func(t *testing.T) {
		poll := NewPoll(t, time.Hour, "a", "b")
		require.NoError(t, s.Create(ctx, poll))

		_, err := s.RecordVote(ctx, store.Vote{PollID: "missing123", OptionID: "x", IdentityToken: "t", Unique: true, Now: base})
		assert.ErrorIs(t, err, store.ErrNotFound)

		_, err = s.RecordVote(ctx, store.Vote{PollID: poll.ID, OptionID: "x", IdentityToken: "t", Unique: true, Now: base})
		assert.ErrorIs(t, err, store.ErrInvalidOption)

		// At expiresAt the poll is still active, one instant later it is not
		_, err = s.RecordVote(ctx, store.Vote{
			PollID: poll.ID, OptionID: poll.Options[0].ID, IdentityToken: "t-edge", Unique: true,
			Now: poll.ExpiresAt,
		})
		assert.NoError(t, err)

		_, err = s.RecordVote(ctx, store.Vote{
			PollID: poll.ID, OptionID: poll.Options[0].ID, IdentityToken: "t-late", Unique: true,
			Now: poll.ExpiresAt.Add(time.Millisecond),
		})
		assert.ErrorIs(t, err, store.ErrExpired)

		got, err := s.Get(ctx, poll.ID)
		require.NoError(t, err)
		assert.Equal(t, int64(1), got.Options[0].Votes+got.Options[1].Votes)
	})

	t.Run("RejectedVoteLeavesNoToken", func(t *testing.T) {
		poll := NewPoll(t, time.Hour, "a", "b")
		require.NoError(t, s.Create(ctx, poll))

		// A bad option must not burn the identity's one vote
		_, err := s.RecordVote(ctx, store.Vote{PollID: poll.ID, OptionID: "x", IdentityToken: "tok", Unique: true, Now: base})
		require.ErrorIs(t, err, store.ErrInvalidOption)

		_, err = s.RecordVote(ctx, store.Vote{PollID: poll.ID, OptionID: poll.Options[0].ID, IdentityToken: "tok", Unique: true, Now: base})
		assert.NoError(t, err)
	})

	t.Run("AddReaction", func(t *testing.T) {
		poll := NewPoll(t, time.Hour, "a", "b")
		require.NoError(t, s.Create(ctx, poll))

		r, err := s.AddReaction(ctx, poll.ID, store.Trending, base)
		require.NoError(t, err)
		assert.Equal(t, models.Reactions{Trending: 1}, r)

		r, err = s.AddReaction(ctx, poll.ID, store.Likes, base)
		require.NoError(t, err)
		assert.Equal(t, models.Reactions{Trending: 1, Likes: 1}, r)

		_, err = s.AddReaction(ctx, "missing123", store.Likes, base)
		assert.ErrorIs(t, err, store.ErrNotFound)

		_, err = s.AddReaction(ctx, poll.ID, store.Likes, poll.ExpiresAt.Add(time.Second))
		assert.ErrorIs(t, err, store.ErrExpired)

		got, err := s.Get(ctx, poll.ID)
		require.NoError(t, err)
		assert.Equal(t, models.Reactions{Trending: 1, Likes: 1}, got.Reactions)
	})

	t.Run("ConcurrentVotes", func(t *testing.T) {
		poll := NewPoll(t, time.Hour, "a", "b")
		require.NoError(t, s.Create(ctx, poll))

		const voters = 50
		var wg sync.WaitGroup
		errs := make(chan error, voters)
		for i := 0; i < voters; i++ {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				_, err := s.RecordVote(ctx, store.Vote{
					PollID: poll.ID, OptionID: poll.Options[i%2].ID,
					IdentityToken: fmt.Sprintf("voter-%d", i), Unique: true, Now: base,
				})
				errs <- err
			}(i)
		}
		wg.Wait()
		close(errs)
		for err := range errs {
			assert.NoError(t, err)
		}

		got, err := s.Get(ctx, poll.ID)
		require.NoError(t, err)
		assert.Equal(t, int64(voters/2), got.Options[0].Votes)
		assert.Equal(t, int64(voters/2), got.Options[1].Votes)
	})

	t.Run("Ping", func(t *testing.T) {
		assert.NoError(t, s.Ping(ctx))
	})
}
