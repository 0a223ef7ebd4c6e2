// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package router defines HTTP routes for the fedicontest API.

# Route Registration

NewRouter creates a configured http.ServeMux with all endpoints:

	mux := router.NewRouter(db, cfg)

# Endpoints

Health:

	GET /health

Contest directory:

	GET /api/contest/name               - Display name (plain text)
	GET /api/contest/enabled            - Enabled categories
	GET /api/contest/submission/opened  - Submission window status
	GET /api/contest/voting/opened      - Voting window status
	GET /api/contest/result/opened      - Result window status

The opened endpoints take an optional ?category= query (default
literature).

Login and sessions:

	POST /api/oauth/authorize - Start login, returns authorize URL
	GET  /api/oauth/redirect  - OAuth callback, sets SESSION cookie
	POST /api/oauth/logout    - Revoke session
	GET  /api/user            - Current identity

Submissions:

	POST /api/contest/submission/literature  - Submit literature (JSON)
	POST /api/contest/submission/art         - Submit art (multipart)
	GET  /api/contest/literature/metadata    - List literature
	GET  /api/contest/literature/metadata/{id}
	GET  /api/contest/literature/{id}        - Full text
	GET  /api/contest/art/metadata           - List art
	GET  /api/contest/art/metadata/{id}
	GET  /api/contest/art/{id}               - Original image bytes
	GET  /api/contest/art/thumbnail/{id}     - JPEG thumbnail

Voting (requires session):

	POST /api/contest/voting/{category}/{id} - Cast vote
	GET  /api/contest/voting/{category}/{id} - Own vote state

Results (sealed until the result window opens):

	GET /api/contest/result/literature
	GET /api/contest/result/art
*/
package router
