// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package auth provides ID generation and identity hashing.

# Poll IDs

Public poll IDs are short random base62 strings:

	id, err := auth.GeneratePollID() // 10 characters, e.g. "aZ3k9QpL0x"

They are URL-safe without escaping and are the only handle a visitor
ever sees for a poll.

# Identity Hashing

Votes are deduplicated against a hashed client address, never the
address itself:

	hasher, err := auth.NewHasher(cfg.IdentitySalt)
	token := hasher.Hash(middleware.GetClientIP(r, cfg.TrustedProxies))

Tokens are hex HMAC-SHA256 (64 characters) keyed by the process salt.
Changing the salt makes every previously stored token unmatchable, so
clients that voted before a rotation can vote again on open polls.
*/
package auth
