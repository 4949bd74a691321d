// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"net/http"

	"github.com/danielhkuo/vanishvote/middleware"
	"github.com/danielhkuo/vanishvote/models"
	"github.com/danielhkuo/vanishvote/polls"
)

type PollHandler struct {
	svc *polls.Service
}

func NewPollHandler(svc *polls.Service) *PollHandler {
	return &PollHandler{svc: svc}
}

// CreatePoll handles POST /api/polls
func (h *PollHandler) CreatePoll(w http.ResponseWriter, r *http.Request) {
	var req models.CreatePollRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, KindValidation, "Invalid JSON")
		return
	}

	poll, err := h.svc.CreatePoll(r.Context(), req)
	if err != nil {
		writeError(w, r, err)
		return
	}

	middleware.Success(w, http.StatusCreated, poll)
}

// GetPoll handles GET /api/polls/{pollId}
// Vote counts are omitted while results are hidden; expired polls are 410
func (h *PollHandler) GetPoll(w http.ResponseWriter, r *http.Request) {
	pollID := r.PathValue("pollId")
	if pollID == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, KindValidation, "pollId is required")
		return
	}

	view, err := h.svc.GetPoll(r.Context(), pollID)
	if err != nil {
		writeError(w, r, err)
		return
	}

	middleware.Success(w, http.StatusOK, view)
}
