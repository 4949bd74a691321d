// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package middleware provides HTTP middleware and helper functions.

# Request Logging

Wrap handlers with request logging:

	mux.HandleFunc("GET /api/polls/{pollId}", middleware.WithLogging(handler))

Logs request start (method, path) and completion (duration_ms).

# CORS Middleware

Enable cross-origin requests for frontend access:

	handler := middleware.CORS([]string{"*"})(mux)

Allows methods GET, POST, OPTIONS with headers Accept and Content-Type.

# JSON Helpers

Write enveloped JSON responses:

	middleware.Success(w, http.StatusOK, data)
	middleware.ErrorResponse(w, http.StatusBadRequest, "ValidationError", "title is required")

Parse JSON request bodies:

	var req models.VoteRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "ValidationError", "Invalid JSON")
		return
	}

# Client IP Extraction

Get the client IP. X-Forwarded-For and X-Real-IP are only honoured when
the direct peer is a trusted proxy; otherwise RemoteAddr (port stripped)
is the client:

	proxies, err := middleware.ParseTrustedProxies([]string{"10.0.0.0/8"})
	ip := middleware.GetClientIP(r, proxies)

Used as the identity signal for one-vote-per-voter, so it must not be
something the client can rewrite.
*/
package middleware
