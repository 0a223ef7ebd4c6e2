// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package router

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/danielhkuo/fedicontest/models"
	"github.com/danielhkuo/fedicontest/testutil"
)

func TestHealthCheck(t *testing.T) {
	conn := testutil.SetupTestDB(t)
	mux := NewRouter(conn, testutil.GetTestConfig())

	req := testutil.MakeRequest("GET", "/health", nil, nil)
	w := httptest.NewRecorder()
	mux.ServeHTTP(w, req)

	testutil.AssertStatus(t, w, http.StatusOK)
	if w.Body.String() != "OK" {
		t.Errorf("Expected OK, got %q", w.Body.String())
	}
}

// TestContestFlow walks the whole lifecycle through the real routes:
// directory, submission, voting, results.
func TestContestFlow(t *testing.T) {
	conn := testutil.SetupTestDB(t)
	cfg := testutil.GetTestConfig()
	mux := NewRouter(conn, cfg)

	// Directory
	req := testutil.MakeRequest("GET", "/api/contest/name", nil, nil)
	w := httptest.NewRecorder()
	mux.ServeHTTP(w, req)
	testutil.AssertStatus(t, w, http.StatusOK)
	if w.Body.String() != "Test Contest" {
		t.Errorf("Expected contest name, got %q", w.Body.String())
	}

	req = testutil.MakeRequest("GET", "/api/contest/submission/opened", nil, nil)
	w = httptest.NewRecorder()
	mux.ServeHTTP(w, req)
	testutil.AssertStatus(t, w, http.StatusOK)
	var opened models.GetOpenedResponse
	testutil.AssertJSON(t, w, &opened)
	if !opened.Opened {
		t.Fatalf("Expected submission window open, got %+v", opened)
	}

	// Alice submits
	alice := testutil.LoginTestUser(t, conn, cfg, "alice", "fedi.example")
	req = testutil.MakeRequest("POST", "/api/contest/submission/literature", models.PostLiteratureRequest{
		Title: "My Story",
		Text:  "Once upon a time.",
	}, nil)
	req.AddCookie(&http.Cookie{Name: "SESSION", Value: alice})
	w = httptest.NewRecorder()
	mux.ServeHTTP(w, req)
	testutil.AssertStatus(t, w, http.StatusCreated)
	var lit models.Literature
	testutil.AssertJSON(t, w, &lit)

	// Bob votes for it
	bob := testutil.LoginTestUser(t, conn, cfg, "bob", "other.example")
	votePath := fmt.Sprintf("/api/contest/voting/literature/%d", lit.ID)
	req = testutil.MakeRequest("POST", votePath, nil, nil)
	req.AddCookie(&http.Cookie{Name: "SESSION", Value: bob})
	w = httptest.NewRecorder()
	mux.ServeHTTP(w, req)
	testutil.AssertStatus(t, w, http.StatusCreated)

	// Bob's vote state reflects it
	req = testutil.MakeRequest("GET", votePath, nil, nil)
	req.AddCookie(&http.Cookie{Name: "SESSION", Value: bob})
	w = httptest.NewRecorder()
	mux.ServeHTTP(w, req)
	testutil.AssertStatus(t, w, http.StatusOK)
	var state models.VoteState
	testutil.AssertJSON(t, w, &state)
	if !state.Voted || state.VoteCount != 1 {
		t.Errorf("Expected voted with count 1, got %+v", state)
	}

	// Alice cannot vote for her own entry
	req = testutil.MakeRequest("POST", votePath, nil, nil)
	req.AddCookie(&http.Cookie{Name: "SESSION", Value: alice})
	w = httptest.NewRecorder()
	mux.ServeHTTP(w, req)
	testutil.AssertStatus(t, w, http.StatusConflict)

	// Results are visible (test config opens all windows)
	req = testutil.MakeRequest("GET", "/api/contest/result/literature", nil, nil)
	w = httptest.NewRecorder()
	mux.ServeHTTP(w, req)
	testutil.AssertStatus(t, w, http.StatusOK)
	var results []models.LiteratureResult
	testutil.AssertJSON(t, w, &results)
	if len(results) != 1 || results[0].VoteCount != 1 {
		t.Errorf("Expected one result with one vote, got %+v", results)
	}
}

func TestRouteShapes(t *testing.T) {
	conn := testutil.SetupTestDB(t)
	mux := NewRouter(conn, testutil.GetTestConfig())

	tests := []struct {
		name           string
		method         string
		path           string
		expectedStatus int
	}{
		{"root banner", "GET", "/", http.StatusOK},
		{"user without session", "GET", "/api/user", http.StatusUnauthorized},
		{"literature list", "GET", "/api/contest/literature/metadata", http.StatusOK},
		{"art list", "GET", "/api/contest/art/metadata", http.StatusOK},
		{"unknown art id", "GET", "/api/contest/art/999", http.StatusNotFound},
		{"unknown thumbnail", "GET", "/api/contest/art/thumbnail/999", http.StatusNotFound},
		{"vote without session", "POST", "/api/contest/voting/literature/1", http.StatusUnauthorized},
		{"method not allowed", "DELETE", "/api/contest/name", http.StatusMethodNotAllowed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := testutil.MakeRequest(tt.method, tt.path, nil, nil)
			w := httptest.NewRecorder()
			mux.ServeHTTP(w, req)
			testutil.AssertStatus(t, w, tt.expectedStatus)
		})
	}
}
