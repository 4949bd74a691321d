// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package polls implements poll creation, voting, reactions and result visibility.

# Service

	svc := polls.NewService(st, hasher, polls.Options{Policy: polls.PolicyOnce})

	poll, err := svc.CreatePoll(ctx, req)
	view, err := svc.GetPoll(ctx, pollID)
	view, err := svc.Vote(ctx, pollID, optionID, clientIP)
	counts, err := svc.AddReaction(ctx, pollID, "like")
	results, err := svc.GetResults(ctx, pollID)

# Lifecycle

A poll is active until its expiresAt passes, then expired for good. The
state is recomputed from the clock on every call. Votes and reactions on
an expired poll fail with ErrExpired; GetPoll fails with ErrGone.

# Visibility

Vote counts are shown when hideResults is false or the poll has expired.
GetPoll and Vote omit counts otherwise; GetResults fails with
ErrResultsHidden.

# Vote Policy

PolicyOnce (the default) accepts one vote per hashed client address and
returns ErrDuplicateVote afterwards. PolicyPermissive counts every vote
and only records the token.

# Errors

Store failures are wrapped in ErrStoreUnavailable and never retried.
Malformed creation input is a *ValidationError.
*/
package polls
