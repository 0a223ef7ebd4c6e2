// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package db

import (
	"database/sql"
	"fmt"
)

// CreateSchema creates all tables needed for the application.
// Safe to call multiple times - uses IF NOT EXISTS.
func CreateSchema(db *sql.DB, databaseType string) error {
	schema := sqliteSchema
	if databaseType == "postgres" {
		schema = postgresSchema
	}

	_, err := db.Exec(schema)
	if err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}

	return nil
}

const sqliteSchema = `
-- Registered app credentials, one row per federated instance
CREATE TABLE IF NOT EXISTS instance (
    hostname TEXT PRIMARY KEY,
    software TEXT NOT NULL,
    client_id TEXT NOT NULL,
    client_secret TEXT NOT NULL,
    created_at TIMESTAMP NOT NULL
);

-- Sessions (one row per live credential; deleting the row revokes it)
CREATE TABLE IF NOT EXISTS session (
    id TEXT PRIMARY KEY,
    handle TEXT NOT NULL,
    instance TEXT NOT NULL,
    created_at TIMESTAMP NOT NULL,
    expires_at TIMESTAMP NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_session_expires_at ON session(expires_at);

-- Submissions (immutable after creation; one per author per category)
CREATE TABLE IF NOT EXISTS submission (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    category TEXT NOT NULL CHECK (category IN ('literature', 'art')),
    title TEXT NOT NULL,
    body TEXT NOT NULL,
    is_nsfw BOOLEAN NOT NULL DEFAULT FALSE,
    author_handle TEXT NOT NULL,
    author_instance TEXT NOT NULL,
    created_at TIMESTAMP NOT NULL,
    UNIQUE (category, author_handle, author_instance)
);

CREATE INDEX IF NOT EXISTS idx_submission_category ON submission(category);

-- Art image payloads, split out so metadata queries never touch blobs
CREATE TABLE IF NOT EXISTS art_image (
    submission_id INTEGER PRIMARY KEY REFERENCES submission(id) ON DELETE CASCADE,
    content_type TEXT NOT NULL,
    data BLOB NOT NULL,
    thumbnail BLOB NOT NULL
);

-- Votes (at most one per voter per submission)
CREATE TABLE IF NOT EXISTS vote (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    handle TEXT NOT NULL,
    instance TEXT NOT NULL,
    category TEXT NOT NULL,
    submission_id INTEGER NOT NULL REFERENCES submission(id) ON DELETE CASCADE,
    created_at TIMESTAMP NOT NULL,
    UNIQUE (handle, instance, submission_id)
);

CREATE INDEX IF NOT EXISTS idx_vote_voter_category ON vote(handle, instance, category);
CREATE INDEX IF NOT EXISTS idx_vote_submission ON vote(submission_id);
`

const postgresSchema = `
CREATE TABLE IF NOT EXISTS instance (
    hostname TEXT PRIMARY KEY,
    software TEXT NOT NULL,
    client_id TEXT NOT NULL,
    client_secret TEXT NOT NULL,
    created_at TIMESTAMP NOT NULL
);

CREATE TABLE IF NOT EXISTS session (
    id TEXT PRIMARY KEY,
    handle TEXT NOT NULL,
    instance TEXT NOT NULL,
    created_at TIMESTAMP NOT NULL,
    expires_at TIMESTAMP NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_session_expires_at ON session(expires_at);

CREATE TABLE IF NOT EXISTS submission (
    id BIGSERIAL PRIMARY KEY,
    category TEXT NOT NULL CHECK (category IN ('literature', 'art')),
    title TEXT NOT NULL,
    body TEXT NOT NULL,
    is_nsfw BOOLEAN NOT NULL DEFAULT FALSE,
    author_handle TEXT NOT NULL,
    author_instance TEXT NOT NULL,
    created_at TIMESTAMP NOT NULL,
    UNIQUE (category, author_handle, author_instance)
);

CREATE INDEX IF NOT EXISTS idx_submission_category ON submission(category);

CREATE TABLE IF NOT EXISTS art_image (
    submission_id BIGINT PRIMARY KEY REFERENCES submission(id) ON DELETE CASCADE,
    content_type TEXT NOT NULL,
    data BYTEA NOT NULL,
    thumbnail BYTEA NOT NULL
);

CREATE TABLE IF NOT EXISTS vote (
    id BIGSERIAL PRIMARY KEY,
    handle TEXT NOT NULL,
    instance TEXT NOT NULL,
    category TEXT NOT NULL,
    submission_id BIGINT NOT NULL REFERENCES submission(id) ON DELETE CASCADE,
    created_at TIMESTAMP NOT NULL,
    UNIQUE (handle, instance, submission_id)
);

CREATE INDEX IF NOT EXISTS idx_vote_voter_category ON vote(handle, instance, category);
CREATE INDEX IF NOT EXISTS idx_vote_submission ON vote(submission_id);
`
