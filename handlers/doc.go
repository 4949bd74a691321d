// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package handlers contains HTTP request handlers for the VanishVote API.

# Handler Types

Each handler is a thin struct over *polls.Service:

  - PollHandler: poll creation and the public poll view
  - VotingHandler: votes and reactions
  - ResultsHandler: results and the health check

	pollHandler := handlers.NewPollHandler(svc)

# Endpoints

	POST /api/polls                    → CreatePoll (201)
	GET  /api/polls/{pollId}           → GetPoll (410 once expired)
	POST /api/polls/{pollId}/vote      → Vote
	POST /api/polls/{pollId}/reaction  → AddReaction
	GET  /api/polls/{pollId}/results   → GetResults (403 while hidden)
	GET  /health                       → Health

# Responses

Successful responses are wrapped as {"success":true,"data":...}.
Failures are {"success":false,"error":kind,"message":...}, where kind is
one of the Kind constants and the status comes from writeError.

# Identity

Vote reads the caller's address with middleware.GetClientIP and hands it
to the service, which hashes it before anything is stored. Forwarding
headers count only when the peer is one of the configured trusted proxies. There are no
accounts and no tokens to present.
*/
package handlers
