// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"net/http"

	"github.com/danielhkuo/vanishvote/middleware"
	"github.com/danielhkuo/vanishvote/polls"
)

type ResultsHandler struct {
	svc *polls.Service
}

func NewResultsHandler(svc *polls.Service) *ResultsHandler {
	return &ResultsHandler{svc: svc}
}

// GetResults handles GET /api/polls/{pollId}/results
// Returns 403 while a hideResults poll is active; expired polls always answer
func (h *ResultsHandler) GetResults(w http.ResponseWriter, r *http.Request) {
	pollID := r.PathValue("pollId")
	if pollID == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, KindValidation, "pollId is required")
		return
	}

	results, err := h.svc.GetResults(r.Context(), pollID)
	if err != nil {
		writeError(w, r, err)
		return
	}

	middleware.Success(w, http.StatusOK, results)
}

// Health handles GET /health and reports whether the store answers
func (h *ResultsHandler) Health(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.Ping(r.Context()); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("OK"))
}
