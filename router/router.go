// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package router

import (
	"database/sql"
	"net/http"

	"github.com/danielhkuo/fedicontest/cliparse"
	"github.com/danielhkuo/fedicontest/contest"
	"github.com/danielhkuo/fedicontest/handlers"
	"github.com/danielhkuo/fedicontest/identity"
	"github.com/danielhkuo/fedicontest/ledger"
	"github.com/danielhkuo/fedicontest/middleware"
	"github.com/danielhkuo/fedicontest/store"
)

func NewRouter(db *sql.DB, cfg cliparse.Config) *http.ServeMux {
	mux := http.NewServeMux()

	// Initialize components
	gate := contest.NewGate(cfg)
	bridge := identity.NewBridge(db, cfg)
	submissionStore := store.NewStore(db, gate)
	voteLedger := ledger.NewLedger(db, gate)

	// Initialize handlers
	contestHandler := handlers.NewContestHandler(cfg, gate)
	oauthHandler := handlers.NewOAuthHandler(bridge)
	submissionHandler := handlers.NewSubmissionHandler(submissionStore, bridge)
	votingHandler := handlers.NewVotingHandler(voteLedger, bridge)
	resultsHandler := handlers.NewResultsHandler(voteLedger)

	// Health check
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	// Contest directory
	mux.HandleFunc("GET /api/contest/name", middleware.WithLogging(contestHandler.GetName))
	mux.HandleFunc("GET /api/contest/enabled", middleware.WithLogging(contestHandler.GetEnabled))
	mux.HandleFunc("GET /api/contest/submission/opened", middleware.WithLogging(contestHandler.GetSubmissionOpened))
	mux.HandleFunc("GET /api/contest/voting/opened", middleware.WithLogging(contestHandler.GetVotingOpened))
	mux.HandleFunc("GET /api/contest/result/opened", middleware.WithLogging(contestHandler.GetResultOpened))

	// Login and sessions
	mux.HandleFunc("POST /api/oauth/authorize", middleware.WithLogging(oauthHandler.Authorize))
	mux.HandleFunc("GET /api/oauth/redirect", middleware.WithLogging(oauthHandler.Redirect))
	mux.HandleFunc("POST /api/oauth/logout", middleware.WithLogging(oauthHandler.Logout))
	mux.HandleFunc("GET /api/user", middleware.WithLogging(oauthHandler.GetUser))

	// Submissions
	mux.HandleFunc("POST /api/contest/submission/literature", middleware.WithLogging(submissionHandler.PostLiterature))
	mux.HandleFunc("POST /api/contest/submission/art", middleware.WithLogging(submissionHandler.PostArt))
	mux.HandleFunc("GET /api/contest/literature/metadata", middleware.WithLogging(submissionHandler.GetLiteratureList))
	mux.HandleFunc("GET /api/contest/literature/metadata/{id}", middleware.WithLogging(submissionHandler.GetLiteratureMetadata))
	mux.HandleFunc("GET /api/contest/literature/{id}", middleware.WithLogging(submissionHandler.GetLiterature))
	mux.HandleFunc("GET /api/contest/art/metadata", middleware.WithLogging(submissionHandler.GetArtList))
	mux.HandleFunc("GET /api/contest/art/metadata/{id}", middleware.WithLogging(submissionHandler.GetArtMetadata))
	mux.HandleFunc("GET /api/contest/art/{id}", middleware.WithLogging(submissionHandler.GetArtImage))
	mux.HandleFunc("GET /api/contest/art/thumbnail/{id}", middleware.WithLogging(submissionHandler.GetArtThumbnail))

	// Voting
	mux.HandleFunc("POST /api/contest/voting/{category}/{id}", middleware.WithLogging(votingHandler.PostVote))
	mux.HandleFunc("GET /api/contest/voting/{category}/{id}", middleware.WithLogging(votingHandler.GetVote))

	// Results (sealed until the result window opens)
	mux.HandleFunc("GET /api/contest/result/literature", middleware.WithLogging(resultsHandler.GetLiteratureResults))
	mux.HandleFunc("GET /api/contest/result/art", middleware.WithLogging(resultsHandler.GetArtResults))

	// Root endpoint
	mux.HandleFunc("GET /", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("fedicontest API v1"))
	})

	return mux
}
