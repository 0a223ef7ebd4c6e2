// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/danielhkuo/fedicontest/contest"
	"github.com/danielhkuo/fedicontest/ledger"
	"github.com/danielhkuo/fedicontest/models"
	"github.com/danielhkuo/fedicontest/testutil"
)

func TestResultsSealed(t *testing.T) {
	cfg := testutil.GetTestConfig()
	cfg.Literature.ResultOpenAt = time.Now().Add(time.Hour)
	cfg.Literature.ResultCloseAt = time.Now().Add(2 * time.Hour)

	conn := testutil.SetupTestDB(t)
	handler := NewResultsHandler(ledger.NewLedger(conn, contest.NewGate(cfg)))

	req := testutil.MakeRequest("GET", "/api/contest/result/literature", nil, nil)
	w := httptest.NewRecorder()
	handler.GetLiteratureResults(w, req)

	testutil.AssertStatus(t, w, http.StatusForbidden)
}

func TestResults(t *testing.T) {
	conn := testutil.SetupTestDB(t)
	cfg := testutil.GetTestConfig()
	handler := NewResultsHandler(ledger.NewLedger(conn, contest.NewGate(cfg)))

	quiet := testutil.CreateTestLiterature(t, conn, "a", "one.example")
	popular := testutil.CreateTestLiterature(t, conn, "b", "two.example")
	testutil.CastTestVote(t, conn, "v1", "fedi.example", contest.CategoryLiterature, popular)
	testutil.CastTestVote(t, conn, "v2", "fedi.example", contest.CategoryLiterature, popular)

	req := testutil.MakeRequest("GET", "/api/contest/result/literature", nil, nil)
	w := httptest.NewRecorder()
	handler.GetLiteratureResults(w, req)

	testutil.AssertStatus(t, w, http.StatusOK)
	var resp []models.LiteratureResult
	testutil.AssertJSON(t, w, &resp)
	if len(resp) != 2 {
		t.Fatalf("Expected 2 results, got %d", len(resp))
	}
	if resp[0].ID != popular || resp[0].VoteCount != 2 {
		t.Errorf("Expected popular entry first with 2 votes, got %+v", resp[0])
	}
	if resp[1].ID != quiet || resp[1].VoteCount != 0 {
		t.Errorf("Expected quiet entry second with 0 votes, got %+v", resp[1])
	}
}

func TestArtResultsIncludeDescription(t *testing.T) {
	conn := testutil.SetupTestDB(t)
	cfg := testutil.GetTestConfig()
	handler := NewResultsHandler(ledger.NewLedger(conn, contest.NewGate(cfg)))

	testutil.CreateTestArt(t, conn, "painter", "one.example")

	req := testutil.MakeRequest("GET", "/api/contest/result/art", nil, nil)
	w := httptest.NewRecorder()
	handler.GetArtResults(w, req)

	testutil.AssertStatus(t, w, http.StatusOK)
	var resp []models.ArtResult
	testutil.AssertJSON(t, w, &resp)
	if len(resp) != 1 || resp[0].Description == "" {
		t.Errorf("Expected art result with description, got %+v", resp)
	}
}
