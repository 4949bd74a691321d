// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

// Package sqlstore implements store.Store on database/sql for Postgres and SQLite.
//
// Counters are incremented in SQL (votes = votes + 1) inside a transaction,
// so concurrent votes on the same poll never lose updates.
package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/lib/pq"

	"github.com/danielhkuo/vanishvote/lifecycle"
	"github.com/danielhkuo/vanishvote/models"
	"github.com/danielhkuo/vanishvote/store"
)

type Store struct {
	db *sql.DB
}

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

func (s *Store) Create(ctx context.Context, poll *models.Poll) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO poll (id, title, created_at, expires_at, hide_results, is_private, trending, likes)
		VALUES ($1, $2, $3, $4, $5, $6, 0, 0)
	`, poll.ID, poll.Title, poll.CreatedAt, poll.ExpiresAt, poll.HideResults, poll.IsPrivate)
	if err != nil {
		if isUniqueViolation(err) {
			return store.ErrConflict
		}
		return fmt.Errorf("failed to insert poll: %w", err)
	}

	for i, opt := range poll.Options {
		_, err = tx.ExecContext(ctx, `
			INSERT INTO poll_option (poll_id, id, position, text, votes)
			VALUES ($1, $2, $3, $4, 0)
		`, poll.ID, opt.ID, i, opt.Text)
		if err != nil {
			return fmt.Errorf("failed to insert option: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// querier is satisfied by both *sql.DB and *sql.Tx
type querier interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func (s *Store) Get(ctx context.Context, pollID string) (*models.Poll, error) {
	return getPoll(ctx, s.db, pollID)
}

func getPoll(ctx context.Context, q querier, pollID string) (*models.Poll, error) {
	var poll models.Poll
	err := q.QueryRowContext(ctx, `
		SELECT id, title, created_at, expires_at, hide_results, is_private, trending, likes
		FROM poll
		WHERE id = $1
	`, pollID).Scan(
		&poll.ID, &poll.Title, &poll.CreatedAt, &poll.ExpiresAt,
		&poll.HideResults, &poll.IsPrivate, &poll.Reactions.Trending, &poll.Reactions.Likes,
	)
	if err == sql.ErrNoRows {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query poll: %w", err)
	}

	rows, err := q.QueryContext(ctx, `
		SELECT id, text, votes
		FROM poll_option
		WHERE poll_id = $1
		ORDER BY position
	`, pollID)
	if err != nil {
		return nil, fmt.Errorf("failed to query options: %w", err)
	}
	defer rows.Close()

	poll.Options = []models.Option{}
	for rows.Next() {
		var opt models.Option
		if err := rows.Scan(&opt.ID, &opt.Text, &opt.Votes); err != nil {
			return nil, fmt.Errorf("failed to scan option: %w", err)
		}
		poll.Options = append(poll.Options, opt)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read options: %w", err)
	}

	poll.CreatedAt = poll.CreatedAt.UTC()
	poll.ExpiresAt = poll.ExpiresAt.UTC()
	return &poll, nil
}

func (s *Store) RecordVote(ctx context.Context, v store.Vote) (*models.Poll, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	poll, err := recordVote(ctx, tx, v)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}
	return poll, nil
}

// recordVote applies v inside tx and returns the poll as tx sees it, so a
// committed vote is never followed by a separate read that could fail.
func recordVote(ctx context.Context, tx *sql.Tx, v store.Vote) (*models.Poll, error) {
	if err := checkActive(ctx, tx, v.PollID, v.Now); err != nil {
		return nil, err
	}

	// Record the identity first: with Unique set, a concurrent duplicate
	// blocks on the primary key and then inserts nothing.
	var res sql.Result
	var err error
	if v.Unique {
		res, err = tx.ExecContext(ctx, `
			INSERT INTO poll_voter (poll_id, identity_token, vote_count, first_voted_at)
			VALUES ($1, $2, 1, $3)
			ON CONFLICT (poll_id, identity_token) DO NOTHING
		`, v.PollID, v.IdentityToken, v.Now)
	} else {
		res, err = tx.ExecContext(ctx, `
			INSERT INTO poll_voter (poll_id, identity_token, vote_count, first_voted_at)
			VALUES ($1, $2, 1, $3)
			ON CONFLICT (poll_id, identity_token) DO UPDATE SET vote_count = poll_voter.vote_count + 1
		`, v.PollID, v.IdentityToken, v.Now)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to record voter: %w", err)
	}
	if n, err := res.RowsAffected(); err != nil {
		return nil, fmt.Errorf("failed to record voter: %w", err)
	} else if n == 0 {
		return nil, store.ErrDuplicate
	}

	res, err = tx.ExecContext(ctx, `
		UPDATE poll_option SET votes = votes + 1
		WHERE poll_id = $1 AND id = $2
	`, v.PollID, v.OptionID)
	if err != nil {
		return nil, fmt.Errorf("failed to increment votes: %w", err)
	}
	if n, err := res.RowsAffected(); err != nil {
		return nil, fmt.Errorf("failed to increment votes: %w", err)
	} else if n == 0 {
		return nil, store.ErrInvalidOption
	}

	return getPoll(ctx, tx, v.PollID)
}

func (s *Store) AddReaction(ctx context.Context, pollID string, field store.ReactionField, now time.Time) (models.Reactions, error) {
	column := "trending"
	if field == store.Likes {
		column = "likes"
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return models.Reactions{}, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if err := checkActive(ctx, tx, pollID, now); err != nil {
		return models.Reactions{}, err
	}

	// column is one of two constants, never user input
	_, err = tx.ExecContext(ctx, `UPDATE poll SET `+column+` = `+column+` + 1 WHERE id = $1`, pollID)
	if err != nil {
		return models.Reactions{}, fmt.Errorf("failed to increment %s: %w", column, err)
	}

	var reactions models.Reactions
	err = tx.QueryRowContext(ctx, `SELECT trending, likes FROM poll WHERE id = $1`, pollID).
		Scan(&reactions.Trending, &reactions.Likes)
	if err != nil {
		return models.Reactions{}, fmt.Errorf("failed to read reactions: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return models.Reactions{}, fmt.Errorf("failed to commit transaction: %w", err)
	}
	return reactions, nil
}

func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *Store) Close() error {
	return s.db.Close()
}

// checkActive loads expires_at inside tx. expires_at never changes after
// creation, so the comparison cannot go stale before commit.
func checkActive(ctx context.Context, tx *sql.Tx, pollID string, now time.Time) error {
	var expiresAt time.Time
	err := tx.QueryRowContext(ctx, `SELECT expires_at FROM poll WHERE id = $1`, pollID).Scan(&expiresAt)
	if err == sql.ErrNoRows {
		return store.ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("failed to query poll: %w", err)
	}
	if lifecycle.Evaluate(now, expiresAt) == lifecycle.Expired {
		return store.ErrExpired
	}
	return nil
}

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == "23505"
	}
	// modernc.org/sqlite reports "UNIQUE constraint failed: poll.id"
	return strings.Contains(err.Error(), "UNIQUE constraint failed")
}
