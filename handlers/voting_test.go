// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"database/sql"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/danielhkuo/fedicontest/cliparse"
	"github.com/danielhkuo/fedicontest/contest"
	"github.com/danielhkuo/fedicontest/identity"
	"github.com/danielhkuo/fedicontest/ledger"
	"github.com/danielhkuo/fedicontest/models"
	"github.com/danielhkuo/fedicontest/testutil"
)

func newVotingHandler(conn *sql.DB, cfg cliparse.Config) *VotingHandler {
	gate := contest.NewGate(cfg)
	return NewVotingHandler(ledger.NewLedger(conn, gate), identity.NewBridge(conn, cfg))
}

func voteRequest(method, category string, id int64, credential string) *http.Request {
	idStr := strconv.FormatInt(id, 10)
	req := testutil.MakeRequest(method, "/api/contest/voting/"+category+"/"+idStr, nil, nil)
	req.SetPathValue("category", category)
	req.SetPathValue("id", idStr)
	if credential != "" {
		req.AddCookie(&http.Cookie{Name: "SESSION", Value: credential})
	}
	return req
}

func TestPostVote(t *testing.T) {
	conn := testutil.SetupTestDB(t)
	cfg := testutil.GetTestConfig()
	handler := newVotingHandler(conn, cfg)

	litID := testutil.CreateTestLiterature(t, conn, "author", "other.example")
	ownID := testutil.CreateTestArt(t, conn, "alice", "fedi.example")
	credential := testutil.LoginTestUser(t, conn, cfg, "alice", "fedi.example")

	t.Run("unauthenticated", func(t *testing.T) {
		w := httptest.NewRecorder()
		handler.PostVote(w, voteRequest("POST", "literature", litID, ""))
		testutil.AssertStatus(t, w, http.StatusUnauthorized)
	})

	t.Run("success", func(t *testing.T) {
		w := httptest.NewRecorder()
		handler.PostVote(w, voteRequest("POST", "literature", litID, credential))
		testutil.AssertStatus(t, w, http.StatusCreated)

		var resp models.CastVoteResponse
		testutil.AssertJSON(t, w, &resp)
		if !resp.OK {
			t.Errorf("Expected ok=true, got %+v", resp)
		}
	})

	t.Run("duplicate", func(t *testing.T) {
		w := httptest.NewRecorder()
		handler.PostVote(w, voteRequest("POST", "literature", litID, credential))
		testutil.AssertStatus(t, w, http.StatusConflict)
	})

	t.Run("own submission", func(t *testing.T) {
		w := httptest.NewRecorder()
		handler.PostVote(w, voteRequest("POST", "art", ownID, credential))
		testutil.AssertStatus(t, w, http.StatusConflict)
	})

	t.Run("unknown submission", func(t *testing.T) {
		w := httptest.NewRecorder()
		handler.PostVote(w, voteRequest("POST", "literature", 999, credential))
		testutil.AssertStatus(t, w, http.StatusNotFound)
	})

	t.Run("unknown category", func(t *testing.T) {
		w := httptest.NewRecorder()
		handler.PostVote(w, voteRequest("POST", "sculpture", litID, credential))
		testutil.AssertStatus(t, w, http.StatusNotFound)
	})
}

func TestGetVote(t *testing.T) {
	conn := testutil.SetupTestDB(t)
	cfg := testutil.GetTestConfig()
	handler := newVotingHandler(conn, cfg)

	litID := testutil.CreateTestLiterature(t, conn, "author", "other.example")
	otherID := testutil.CreateTestLiterature(t, conn, "author2", "other.example")
	credential := testutil.LoginTestUser(t, conn, cfg, "alice", "fedi.example")
	testutil.CastTestVote(t, conn, "alice", "fedi.example", contest.CategoryLiterature, litID)

	t.Run("voted", func(t *testing.T) {
		w := httptest.NewRecorder()
		handler.GetVote(w, voteRequest("GET", "literature", litID, credential))
		testutil.AssertStatus(t, w, http.StatusOK)

		var resp models.VoteState
		testutil.AssertJSON(t, w, &resp)
		if !resp.Voted || resp.VoteCount != 1 {
			t.Errorf("Expected voted with count 1, got %+v", resp)
		}
	})

	t.Run("not voted but quota spent elsewhere", func(t *testing.T) {
		w := httptest.NewRecorder()
		handler.GetVote(w, voteRequest("GET", "literature", otherID, credential))
		testutil.AssertStatus(t, w, http.StatusOK)

		var resp models.VoteState
		testutil.AssertJSON(t, w, &resp)
		if resp.Voted || resp.VoteCount != 1 {
			t.Errorf("Expected not voted with count 1, got %+v", resp)
		}
	})

	t.Run("unauthenticated", func(t *testing.T) {
		w := httptest.NewRecorder()
		handler.GetVote(w, voteRequest("GET", "literature", litID, ""))
		testutil.AssertStatus(t, w, http.StatusUnauthorized)
	})
}

func TestPostVotePhaseClosed(t *testing.T) {
	cfg := testutil.GetTestConfig()
	cfg.Literature.VotingOpenAt = cfg.Literature.VotingOpenAt.Add(-48 * time.Hour)
	cfg.Literature.VotingCloseAt = cfg.Literature.VotingCloseAt.Add(-48 * time.Hour)

	conn := testutil.SetupTestDB(t)
	handler := newVotingHandler(conn, cfg)

	litID := testutil.CreateTestLiterature(t, conn, "author", "other.example")
	credential := testutil.LoginTestUser(t, conn, cfg, "alice", "fedi.example")

	w := httptest.NewRecorder()
	handler.PostVote(w, voteRequest("POST", "literature", litID, credential))
	testutil.AssertStatus(t, w, http.StatusForbidden)
}
