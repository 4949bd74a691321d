// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/netip"
	"testing"
	"time"

	"github.com/danielhkuo/vanishvote/auth"
	"github.com/danielhkuo/vanishvote/models"
	"github.com/danielhkuo/vanishvote/polls"
	"github.com/danielhkuo/vanishvote/store/sqlstore"
	"github.com/danielhkuo/vanishvote/testutil"
)

var testStart = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

// setupService returns a service over a fresh SQLite store and the clock driving it
func setupService(t *testing.T, policy polls.VotePolicy) (*polls.Service, *testutil.Clock) {
	t.Helper()

	conn := testutil.SetupTestDB(t)
	hasher, err := auth.NewHasher(testutil.TestSalt)
	if err != nil {
		t.Fatal(err)
	}

	clock := testutil.NewClock(testStart)
	svc := polls.NewService(sqlstore.New(conn), hasher, polls.Options{
		Policy:       policy,
		StoreTimeout: 5 * time.Second,
		Now:          clock.Now,
	})
	return svc, clock
}

// pollEnvelope and friends decode the success envelope
type pollEnvelope struct {
	Success bool        `json:"success"`
	Data    models.Poll `json:"data"`
}

type viewEnvelope struct {
	Success bool            `json:"success"`
	Data    models.PollView `json:"data"`
}

type reactionEnvelope struct {
	Success bool                `json:"success"`
	Data    models.ReactionView `json:"data"`
}

type resultsEnvelope struct {
	Success bool               `json:"success"`
	Data    models.ResultsView `json:"data"`
}

func boolPtr(b bool) *bool { return &b }

// createTestPoll creates a poll through the handler and returns it
func createTestPoll(t *testing.T, svc *polls.Service, req models.CreatePollRequest) models.Poll {
	t.Helper()

	w := httptest.NewRecorder()
	NewPollHandler(svc).CreatePoll(w, testutil.MakeRequest("POST", "/api/polls", req, nil))
	if w.Code != http.StatusCreated {
		t.Fatalf("Failed to create poll: %d - %s", w.Code, w.Body.String())
	}

	var resp pollEnvelope
	testutil.AssertJSON(t, w, &resp)
	return resp.Data
}

func defaultPollRequest() models.CreatePollRequest {
	return models.CreatePollRequest{
		Title:   "Lunch today?",
		Options: []string{"Pizza", "Sushi", "Tacos"},
	}
}

// castVote votes as the client connecting directly from ip
func castVote(svc *polls.Service, pollID, optionID, ip string) *httptest.ResponseRecorder {
	return castForwardedVote(svc, nil, pollID, optionID, ip+":40000", "")
}

// castForwardedVote votes from remoteAddr with an X-Forwarded-For header,
// trusting proxies
func castForwardedVote(svc *polls.Service, proxies []netip.Prefix, pollID, optionID, remoteAddr, xff string) *httptest.ResponseRecorder {
	var headers map[string]string
	if xff != "" {
		headers = map[string]string{"X-Forwarded-For": xff}
	}
	req := testutil.MakeRequest("POST", "/api/polls/"+pollID+"/vote",
		models.VoteRequest{OptionID: optionID}, headers)
	req.RemoteAddr = remoteAddr
	req.SetPathValue("pollId", pollID)
	w := httptest.NewRecorder()
	NewVotingHandler(svc, proxies).Vote(w, req)
	return w
}

func react(svc *polls.Service, pollID, kind string) *httptest.ResponseRecorder {
	req := testutil.MakeRequest("POST", "/api/polls/"+pollID+"/reaction",
		models.ReactionRequest{ReactionType: kind}, nil)
	req.SetPathValue("pollId", pollID)
	w := httptest.NewRecorder()
	NewVotingHandler(svc, nil).AddReaction(w, req)
	return w
}

func getPoll(svc *polls.Service, pollID string) *httptest.ResponseRecorder {
	req := testutil.MakeRequest("GET", "/api/polls/"+pollID, nil, nil)
	req.SetPathValue("pollId", pollID)
	w := httptest.NewRecorder()
	NewPollHandler(svc).GetPoll(w, req)
	return w
}

func getResults(svc *polls.Service, pollID string) *httptest.ResponseRecorder {
	req := testutil.MakeRequest("GET", "/api/polls/"+pollID+"/results", nil, nil)
	req.SetPathValue("pollId", pollID)
	w := httptest.NewRecorder()
	NewResultsHandler(svc).GetResults(w, req)
	return w
}

// assertErrorKind checks status and the "error" field of an error body
func assertErrorKind(t *testing.T, w *httptest.ResponseRecorder, status int, kind string) {
	t.Helper()
	testutil.AssertStatus(t, w, status)

	var resp models.ErrorResponse
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("Failed to decode error response: %v", err)
	}
	if resp.Success {
		t.Error("expected success=false")
	}
	if resp.Error != kind {
		t.Errorf("expected error %q, got %q (%s)", kind, resp.Error, resp.Message)
	}
}
