// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package db opens SQL connections and creates the schema.

# Connecting

	conn, err := db.Open(db.SQLite, "file:vanishvote.db")
	conn, err := db.Open(db.Postgres, "postgres://...")

SQLite (modernc.org/sqlite, pure Go) is the default for development and
tests. Postgres uses lib/pq.

# Schema Creation

	if err := db.CreateSchema(conn, db.SQLite); err != nil {
		log.Fatal(err)
	}

Safe to call multiple times - uses IF NOT EXISTS for all tables and indexes.
Postgres gets TIMESTAMPTZ columns; SQLite gets TIMESTAMP.

# Tables

  - poll: title, timestamps, flags, reaction counters
  - poll_option: options with position and vote counter
  - poll_voter: hashed identity tokens per poll

# Relationships

	poll 1──* poll_option
	poll 1──* poll_voter

All foreign keys use ON DELETE CASCADE. Nothing in the service deletes
polls; expired polls stay queryable through the results path.
*/
package db
