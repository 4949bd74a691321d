// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package models defines request, response, and domain types for the API.

# Request Types

Types for parsing incoming JSON. Validation rules live in the validate
struct tags and are enforced by package validate:

  - CreatePollRequest: title, options, expiresIn, hideResults, isPrivate
  - VoteRequest: optionId
  - ReactionRequest: reactionType

# Domain Types

  - Poll: the aggregate; options are ordered and fixed at creation
  - Option: a choice with its vote counter
  - Reactions: trending and likes counters

# Response Types

  - PollView: poll as seen by visitors; option votes are nil when hidden
  - ReactionView: counters after a reaction
  - ResultsView: full counts with isExpired and totalVotes
  - Envelope / ErrorResponse: {"success": ..., "data" | "error", "message"}

# Constants

Expiry selectors:

	ExpiresIn1Hour   = "1hour"
	ExpiresIn12Hours = "12hours"
	ExpiresIn24Hours = "24hours"

Reaction kinds:

	ReactionTrending = "trending"
	ReactionLike     = "like"
*/
package models
