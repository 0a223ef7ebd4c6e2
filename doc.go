// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package main provides the entry point for the fedicontest API server.

Fedicontest runs timed creative-work contests (literature and art) where
participants log in with their fediverse account, submit one entry per
category, and spend a small vote budget on their favorites.

# Starting the Server

The server reads environment variables (a .env file works too) or CLI
flags:

	BASE_URL=https://contest.example CONTEST_NAME="Summer Contest" \
	SESSION_SECRET=... SUBMISSION_OPEN_AT=2026-06-01T00:00:00Z ... \
	go run main.go

Or with flags:

	go run main.go -p 3000 -b https://contest.example -n "Summer Contest"

# Configuration

Required settings:

  - BASE_URL (-b): public base URL, used for OAuth redirect URIs
  - CONTEST_NAME (-n): contest display name
  - SESSION_SECRET: secret for session token signing
  - SUBMISSION_OPEN_AT / SUBMISSION_CLOSE_AT (RFC3339)
  - VOTING_OPEN_AT / VOTING_CLOSE_AT (RFC3339)

Optional settings:

  - PORT (-p): server port (default: 3000)
  - DATABASE_URL (-d): sqlite file or postgres URL (default: file:contest.sqlite)
  - DATABASE_TYPE (-t): "sqlite" or "postgres" (default: sqlite)
  - LITERATURE_ENABLED / ART_ENABLED: category switches (default: true)
  - RESULT_OPEN_AT / RESULT_CLOSE_AT: result window (default: opens at voting close)
  - LITERATURE_* / ART_* prefixed variants of any window instant

# Architecture

The server uses a handler-based architecture with dependency injection:

  - handlers: HTTP request handlers (contest, oauth, submissions, voting, results)
  - router: Route definitions using Go 1.22+ routing
  - middleware: CORS, logging, JSON helpers
  - models: Request/response types
  - identity: Federated login, sessions
  - contest: Categories, phase gate, domain errors
  - store: Submission storage and thumbnails
  - ledger: Vote recording and tallies
  - db: Schema creation
  - cliparse: Configuration parsing

See package documentation for each component.
*/
package main
