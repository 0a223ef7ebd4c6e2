// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package cliparse handles command-line argument parsing and configuration.

# Configuration

ParseFlags returns a Config struct with all settings:

	cfg, err := cliparse.ParseFlags(os.Args[1:])

CLI flags take precedence over environment variables.

# Config Fields

  - Port: server listen port (default: 3000)
  - DatabaseURL: sqlite file or postgres connection string
  - DatabaseType: "sqlite" or "postgres"
  - BaseURL: public base URL for OAuth redirects (required)
  - ContestName: contest display name (required)
  - SessionSecret: session signing secret (required)
  - LiteratureEnabled / ArtEnabled: category switches
  - Literature / Art: per-category phase windows

# Phase Windows

Each category has three windows (submission, voting, result), each an
open and close instant in RFC3339:

	SUBMISSION_OPEN_AT=2026-06-01T00:00:00Z
	SUBMISSION_CLOSE_AT=2026-06-15T00:00:00Z
	VOTING_OPEN_AT=2026-06-15T00:00:00Z
	VOTING_CLOSE_AT=2026-06-22T00:00:00Z

A category-prefixed variable overrides the shared one, so the art track
can run on its own schedule:

	ART_VOTING_OPEN_AT=2026-06-20T00:00:00Z

The result window defaults to opening the moment voting closes.

# Validation

ParseFlags returns an error if required values are missing, if the
database type is unknown, or if any window closes before it opens.
*/
package cliparse
