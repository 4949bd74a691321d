// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/danielhkuo/vanishvote/middleware"
	"github.com/danielhkuo/vanishvote/polls"
)

// Error kinds reported in the "error" field
const (
	KindValidation          = "ValidationError"
	KindNotFound            = "NotFound"
	KindGone                = "Gone"
	KindExpired             = "Expired"
	KindInvalidOption       = "InvalidOption"
	KindInvalidReactionKind = "InvalidReactionKind"
	KindResultsHidden       = "ResultsHidden"
	KindDuplicateVote       = "DuplicateVote"
	KindStoreUnavailable    = "StoreUnavailable"
	KindInternal            = "InternalError"
)

var errorStatus = []struct {
	err    error
	status int
	kind   string
}{
	{polls.ErrNotFound, http.StatusNotFound, KindNotFound},
	{polls.ErrGone, http.StatusGone, KindGone},
	{polls.ErrExpired, http.StatusGone, KindExpired},
	{polls.ErrInvalidOption, http.StatusNotFound, KindInvalidOption},
	{polls.ErrInvalidReactionKind, http.StatusBadRequest, KindInvalidReactionKind},
	{polls.ErrResultsHidden, http.StatusForbidden, KindResultsHidden},
	{polls.ErrDuplicateVote, http.StatusForbidden, KindDuplicateVote},
}

// writeError maps a service error to its status and kind
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	var verr *polls.ValidationError
	if errors.As(err, &verr) {
		middleware.ErrorResponse(w, http.StatusBadRequest, KindValidation, verr.Message)
		return
	}

	for _, e := range errorStatus {
		if errors.Is(err, e.err) {
			middleware.ErrorResponse(w, e.status, e.kind, e.err.Error())
			return
		}
	}

	if errors.Is(err, polls.ErrStoreUnavailable) {
		slog.Error("store unavailable", "path", r.URL.Path, "error", err)
		middleware.ErrorResponse(w, http.StatusServiceUnavailable, KindStoreUnavailable, "Service temporarily unavailable")
		return
	}

	slog.Error("unexpected error", "path", r.URL.Path, "error", err)
	middleware.ErrorResponse(w, http.StatusInternalServerError, KindInternal, "Internal server error")
}
