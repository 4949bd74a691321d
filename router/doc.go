// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package router defines HTTP routes for the VanishVote API.

# Route Registration

NewRouter creates an http.ServeMux with all endpoints, wrapped in CORS:

	handler := router.NewRouter(svc, cfg)

# Endpoints

Health:

	GET /health

Polls (public, no accounts):

	POST /api/polls                   - Create poll
	GET  /api/polls/{pollId}          - Poll view, votes hidden if requested
	POST /api/polls/{pollId}/vote     - Vote once per identity
	POST /api/polls/{pollId}/reaction - Add a trending or like reaction
	GET  /api/polls/{pollId}/results  - Results, sealed until expiry if hidden

# CORS

Allowed origins come from cfg.CORSOrigins; "*" allows any origin.
Preflight OPTIONS requests are answered by the CORS layer before the mux.
*/
package router
