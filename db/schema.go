// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package db

import (
	"database/sql"
	"fmt"
)

// CreateSchema creates all tables needed for the application.
// Safe to call multiple times - uses IF NOT EXISTS.
func CreateSchema(db *sql.DB, dialect Dialect) error {
	ts := "TIMESTAMP"
	if dialect == Postgres {
		ts = "TIMESTAMPTZ"
	}

	_, err := db.Exec(fmt.Sprintf(schema, ts, ts, ts))
	if err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}

	return nil
}

const schema = `
-- Polls
CREATE TABLE IF NOT EXISTS poll (
    id TEXT PRIMARY KEY,
    title TEXT NOT NULL,
    created_at %s NOT NULL,
    expires_at %s NOT NULL,
    hide_results BOOLEAN NOT NULL DEFAULT FALSE,
    is_private BOOLEAN NOT NULL DEFAULT TRUE,
    trending BIGINT NOT NULL DEFAULT 0 CHECK (trending >= 0),
    likes BIGINT NOT NULL DEFAULT 0 CHECK (likes >= 0)
);

CREATE INDEX IF NOT EXISTS idx_poll_expires_at ON poll(expires_at);

-- Options, ordered by position
CREATE TABLE IF NOT EXISTS poll_option (
    poll_id TEXT NOT NULL REFERENCES poll(id) ON DELETE CASCADE,
    id TEXT NOT NULL,
    position INTEGER NOT NULL,
    text TEXT NOT NULL,
    votes BIGINT NOT NULL DEFAULT 0 CHECK (votes >= 0),
    PRIMARY KEY (poll_id, id),
    UNIQUE (poll_id, position)
);

-- Hashed identity tokens that voted on a poll
CREATE TABLE IF NOT EXISTS poll_voter (
    poll_id TEXT NOT NULL REFERENCES poll(id) ON DELETE CASCADE,
    identity_token TEXT NOT NULL,
    vote_count INTEGER NOT NULL DEFAULT 1,
    first_voted_at %s NOT NULL,
    PRIMARY KEY (poll_id, identity_token)
);
`
