// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package handlers contains HTTP request handlers for the fedicontest API.

# Handler Types

Each handler is a struct holding the components it serves:

  - ContestHandler: directory info (name, enabled categories, phase windows)
  - OAuthHandler: federated login, sessions, logout
  - SubmissionHandler: submission writes and reads
  - VotingHandler: vote casting and per-voter vote state
  - ResultsHandler: sealed tallies

Handlers are created via constructor functions:

	oauthHandler := handlers.NewOAuthHandler(bridge)
	votingHandler := handlers.NewVotingHandler(ledger, bridge)

# Authentication

Authenticated endpoints read the SESSION cookie and resolve it through
the identity bridge. A missing or revoked session answers 401 with a
JSON envelope; handlers never distinguish why a credential is invalid.

# Error Mapping

Domain errors map to statuses in one place (writeError):

	400 validation, bad domain, state mismatch
	401 unauthenticated
	403 phase closed
	404 not found, category disabled, malformed id
	409 self-vote, duplicate vote, quota, duplicate submission
	502 instance discovery or code exchange failed

Anything outside the taxonomy logs server-side and answers an opaque
500; internal details never reach clients.
*/
package handlers
