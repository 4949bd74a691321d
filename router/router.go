// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package router

import (
	"net/http"

	"github.com/danielhkuo/vanishvote/cliparse"
	"github.com/danielhkuo/vanishvote/handlers"
	"github.com/danielhkuo/vanishvote/middleware"
	"github.com/danielhkuo/vanishvote/polls"
)

func NewRouter(svc *polls.Service, cfg cliparse.Config) http.Handler {
	mux := http.NewServeMux()

	// Initialize handlers
	pollHandler := handlers.NewPollHandler(svc)
	votingHandler := handlers.NewVotingHandler(svc, cfg.TrustedProxies)
	resultsHandler := handlers.NewResultsHandler(svc)

	// Health check
	mux.HandleFunc("GET /health", resultsHandler.Health)

	// Polls
	mux.HandleFunc("POST /api/polls", middleware.WithLogging(pollHandler.CreatePoll))
	mux.HandleFunc("GET /api/polls/{pollId}", middleware.WithLogging(pollHandler.GetPoll))

	// Voting and reactions
	mux.HandleFunc("POST /api/polls/{pollId}/vote", middleware.WithLogging(votingHandler.Vote))
	mux.HandleFunc("POST /api/polls/{pollId}/reaction", middleware.WithLogging(votingHandler.AddReaction))

	// Results
	mux.HandleFunc("GET /api/polls/{pollId}/results", middleware.WithLogging(resultsHandler.GetResults))

	// Root endpoint
	mux.HandleFunc("GET /{$}", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("vanishvote API v1"))
	})

	return middleware.CORS(cfg.CORSOrigins)(mux)
}
