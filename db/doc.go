// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package db handles database schema creation.

# Schema Creation

CreateSchema initializes all required tables for the configured dialect:

	if err := db.CreateSchema(conn, cfg.DatabaseType); err != nil {
		log.Fatal(err)
	}

Safe to call multiple times - uses IF NOT EXISTS for all tables and
indexes. Both sqlite and postgres schemas describe the same shape; only
column types differ (AUTOINCREMENT vs BIGSERIAL, BLOB vs BYTEA).

# Tables

  - instance: per-instance app credentials from first login
  - session: one row per live credential; deleting revokes
  - submission: one entry per author per category
  - art_image: original bytes plus pre-rendered thumbnail
  - vote: at most one per voter per submission

# Constraints

The correctness-critical rules live in the schema, not just in code:

  - submission UNIQUE (category, author_handle, author_instance)
  - vote UNIQUE (handle, instance, submission_id)

# Indexes

  - session.expires_at
  - submission.category
  - vote.(handle, instance, category)
  - vote.submission_id
*/
package db
