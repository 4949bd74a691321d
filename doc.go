// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package main provides the entry point for the VanishVote API server.

VanishVote hosts anonymous single-choice polls that expire after 1, 12 or
24 hours. Voters are identified only by a salted hash of their network
address; results can be sealed until the poll expires.

# Starting the Server

The server requires environment variables or CLI flags for configuration:

	DATABASE_URL=file:vanishvote.db IDENTITY_SALT=... go run .

Or with flags:

	go run . -p 3318 -t postgres -d "postgres://..." -identity-salt ...

Variables may also come from a .env file (-env-file).

# Configuration

Required settings:

  - DATABASE_URL (-d): SQLite file, PostgreSQL or MongoDB connection string
  - IDENTITY_SALT (-identity-salt): Secret for hashing voter identities

Optional settings:

  - PORT (-p): Server port (default: 3318)
  - DATABASE_TYPE (-t): sqlite, postgres or mongo (default: sqlite)
  - MONGO_DATABASE (-mongo-db): Mongo database name (default: vanishvote)
  - VOTE_POLICY (-vote-policy): once or permissive (default: once)
  - STORE_TIMEOUT (-store-timeout): Bound on each store call (default: 5s)
  - CORS_ORIGINS (-cors-origins): Comma-separated origins (default: *)
  - TRUSTED_PROXIES (-trusted-proxies): Proxy IPs or CIDRs whose
    X-Forwarded-For is believed (default: none)

# Architecture

The server uses a handler-based architecture with dependency injection:

  - handlers: HTTP request handlers (polls, voting, results)
  - router: Route definitions using Go 1.22+ routing
  - middleware: CORS, logging, JSON helpers
  - polls: Poll service (creation, voting, reactions, results)
  - lifecycle: Active/expired evaluation and result visibility
  - store: Store contract, with sqlstore and mongostore backends
  - models: Request/response types
  - validate: Request validation
  - auth: Poll IDs and identity hashing
  - db: SQL connection and schema creation
  - cliparse: Configuration parsing

See package documentation for each component.
*/
package main
