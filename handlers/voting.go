// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"net/http"
	"net/netip"

	"github.com/danielhkuo/vanishvote/middleware"
	"github.com/danielhkuo/vanishvote/models"
	"github.com/danielhkuo/vanishvote/polls"
	"github.com/danielhkuo/vanishvote/validate"
)

type VotingHandler struct {
	svc     *polls.Service
	proxies []netip.Prefix
}

// NewVotingHandler builds a VotingHandler. Forwarding headers are honoured
// only on requests whose peer is in proxies.
func NewVotingHandler(svc *polls.Service, proxies []netip.Prefix) *VotingHandler {
	return &VotingHandler{svc: svc, proxies: proxies}
}

// Vote handles POST /api/polls/{pollId}/vote
func (h *VotingHandler) Vote(w http.ResponseWriter, r *http.Request) {
	pollID := r.PathValue("pollId")
	if pollID == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, KindValidation, "pollId is required")
		return
	}

	var req models.VoteRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, KindValidation, "Invalid JSON")
		return
	}
	if err := validate.Struct(req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, KindValidation, err.Error())
		return
	}

	// The raw address goes no further than the hasher
	view, err := h.svc.Vote(r.Context(), pollID, req.OptionID, middleware.GetClientIP(r, h.proxies))
	if err != nil {
		writeError(w, r, err)
		return
	}

	middleware.Success(w, http.StatusOK, view)
}

// AddReaction handles POST /api/polls/{pollId}/reaction
// Reactions are unlimited per caller
func (h *VotingHandler) AddReaction(w http.ResponseWriter, r *http.Request) {
	pollID := r.PathValue("pollId")
	if pollID == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, KindValidation, "pollId is required")
		return
	}

	var req models.ReactionRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, KindValidation, "Invalid JSON")
		return
	}

	// An empty or unknown reactionType is InvalidReactionKind, not a
	// validation error, so the service does the check.
	view, err := h.svc.AddReaction(r.Context(), pollID, req.ReactionType)
	if err != nil {
		writeError(w, r, err)
		return
	}

	middleware.Success(w, http.StatusOK, view)
}
