// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package ledger records votes and computes tallies.

# Casting

CastVote enforces, in order: category enabled, voting window open,
submission exists in that category, not the voter's own entry, not
already voted, and fewer than 5 votes spent in the category. A rejected
cast has no effect at all.

# Concurrency

Correctness does not depend on request serialization by the HTTP
layer. A per-voter mutex stripe serializes one voter's concurrent
casts so the quota check and insert are atomic, and the database
unique index on (handle, instance, submission_id) backstops duplicate
votes even across processes sharing a database.

# Tallies

Tallies are sealed until the result window opens; before that every
read fails with contest.ErrPhaseClosed. Results are ordered by vote
count descending, ties broken by submission order, and the ordering is
stable across calls.
*/
package ledger
