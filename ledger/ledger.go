// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package ledger

import (
	"context"
	"database/sql"
	"fmt"
	"hash/fnv"
	"strings"
	"sync"
	"time"

	"github.com/danielhkuo/fedicontest/contest"
	"github.com/danielhkuo/fedicontest/identity"
	"github.com/danielhkuo/fedicontest/models"
)

// voteQuota is the per-voter, per-category vote budget.
const voteQuota = 5

// Ledger records votes. Correctness under concurrency comes from two
// layers: a per-voter mutex stripe serializes a voter's own casts, and
// the unique index on (handle, instance, submission_id) backstops
// duplicates across processes sharing a database.
type Ledger struct {
	db    *sql.DB
	gate  *contest.Gate
	locks [64]sync.Mutex
}

func NewLedger(db *sql.DB, gate *contest.Gate) *Ledger {
	return &Ledger{db: db, gate: gate}
}

func (l *Ledger) lockFor(voter identity.Identity) *sync.Mutex {
	h := fnv.New32a()
	h.Write([]byte(voter.Handle))
	h.Write([]byte{'@'})
	h.Write([]byte(voter.Instance))
	return &l.locks[h.Sum32()%uint32(len(l.locks))]
}

// CastVote records one vote by voter for a submission. All-or-nothing:
// a rejected cast leaves the voter's quota untouched.
func (l *Ledger) CastVote(ctx context.Context, voter identity.Identity, category contest.Category, submissionID int64) error {
	if !l.gate.IsEnabled(category) {
		return contest.ErrFeatureDisabled
	}
	if !l.gate.Check(category, contest.PhaseVoting).Open {
		return contest.ErrPhaseClosed
	}

	var ownerHandle, ownerInstance string
	err := l.db.QueryRowContext(ctx, `
		SELECT author_handle, author_instance FROM submission
		WHERE id = $1 AND category = $2
	`, submissionID, category).Scan(&ownerHandle, &ownerInstance)
	if err == sql.ErrNoRows {
		return contest.ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("failed to query submission: %w", err)
	}
	if ownerHandle == voter.Handle && ownerInstance == voter.Instance {
		return contest.ErrSelfVote
	}

	mu := l.lockFor(voter)
	mu.Lock()
	defer mu.Unlock()

	// The window can close while waiting on the stripe lock; re-check
	// so no vote lands past the close instant.
	if !l.gate.Check(category, contest.PhaseVoting).Open {
		return contest.ErrPhaseClosed
	}

	tx, err := l.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	var voted bool
	err = tx.QueryRowContext(ctx, `
		SELECT EXISTS (
			SELECT 1 FROM vote WHERE handle = $1 AND instance = $2 AND submission_id = $3
		)
	`, voter.Handle, voter.Instance, submissionID).Scan(&voted)
	if err != nil {
		return fmt.Errorf("failed to query existing vote: %w", err)
	}
	if voted {
		return contest.ErrAlreadyVoted
	}

	var count int
	err = tx.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM vote WHERE handle = $1 AND instance = $2 AND category = $3
	`, voter.Handle, voter.Instance, category).Scan(&count)
	if err != nil {
		return fmt.Errorf("failed to count votes: %w", err)
	}
	if count >= voteQuota {
		return contest.ErrQuotaExceeded
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO vote (handle, instance, category, submission_id, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`, voter.Handle, voter.Instance, category, submissionID, time.Now().UTC())
	if err != nil {
		if isUniqueViolation(err) {
			return contest.ErrAlreadyVoted
		}
		return fmt.Errorf("failed to insert vote: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit: %w", err)
	}
	return nil
}

// GetVoteState reports whether the voter has voted for a submission and
// how many of their quota votes are spent in its category.
func (l *Ledger) GetVoteState(ctx context.Context, voter identity.Identity, category contest.Category, submissionID int64) (models.VoteState, error) {
	if !l.gate.IsEnabled(category) {
		return models.VoteState{}, contest.ErrFeatureDisabled
	}

	var exists bool
	err := l.db.QueryRowContext(ctx, `
		SELECT EXISTS (SELECT 1 FROM submission WHERE id = $1 AND category = $2)
	`, submissionID, category).Scan(&exists)
	if err != nil {
		return models.VoteState{}, fmt.Errorf("failed to query submission: %w", err)
	}
	if !exists {
		return models.VoteState{}, contest.ErrNotFound
	}

	var state models.VoteState
	err = l.db.QueryRowContext(ctx, `
		SELECT EXISTS (
			SELECT 1 FROM vote WHERE handle = $1 AND instance = $2 AND submission_id = $3
		)
	`, voter.Handle, voter.Instance, submissionID).Scan(&state.Voted)
	if err != nil {
		return models.VoteState{}, fmt.Errorf("failed to query vote: %w", err)
	}

	err = l.db.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM vote WHERE handle = $1 AND instance = $2 AND category = $3
	`, voter.Handle, voter.Instance, category).Scan(&state.VoteCount)
	if err != nil {
		return models.VoteState{}, fmt.Errorf("failed to count votes: %w", err)
	}
	return state, nil
}

// Tally returns the number of distinct voters who voted for a
// submission. Sealed until the category's result window opens.
func (l *Ledger) Tally(ctx context.Context, category contest.Category, submissionID int64) (int, error) {
	if err := l.resultsOpen(category); err != nil {
		return 0, err
	}
	var exists bool
	err := l.db.QueryRowContext(ctx, `
		SELECT EXISTS (SELECT 1 FROM submission WHERE id = $1 AND category = $2)
	`, submissionID, category).Scan(&exists)
	if err != nil {
		return 0, fmt.Errorf("failed to query submission: %w", err)
	}
	if !exists {
		return 0, contest.ErrNotFound
	}
	var count int
	err = l.db.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM vote WHERE submission_id = $1
	`, submissionID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count votes: %w", err)
	}
	return count, nil
}

// ListLiteratureResults tallies literature entries, most votes first,
// ties broken by submission order. Tallies stay sealed until the result
// window opens.
func (l *Ledger) ListLiteratureResults(ctx context.Context) ([]models.LiteratureResult, error) {
	if err := l.resultsOpen(contest.CategoryLiterature); err != nil {
		return nil, err
	}
	rows, err := l.db.QueryContext(ctx, `
		SELECT s.id, s.title, s.is_nsfw, s.author_handle, s.author_instance, s.created_at,
		       COUNT(v.id) AS vote_count
		FROM submission s
		LEFT JOIN vote v ON v.submission_id = s.id
		WHERE s.category = $1
		GROUP BY s.id, s.title, s.is_nsfw, s.author_handle, s.author_instance, s.created_at
		ORDER BY vote_count DESC, s.id ASC
	`, contest.CategoryLiterature)
	if err != nil {
		return nil, fmt.Errorf("failed to tally literature: %w", err)
	}
	defer rows.Close()

	out := []models.LiteratureResult{}
	for rows.Next() {
		var r models.LiteratureResult
		if err := rows.Scan(&r.ID, &r.Title, &r.IsNsfw, &r.AuthorHandle, &r.AuthorInstance, &r.CreatedAt, &r.VoteCount); err != nil {
			return nil, fmt.Errorf("failed to scan result row: %w", err)
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// ListArtResults tallies art entries, most votes first, ties broken by
// submission order.
func (l *Ledger) ListArtResults(ctx context.Context) ([]models.ArtResult, error) {
	if err := l.resultsOpen(contest.CategoryArt); err != nil {
		return nil, err
	}
	rows, err := l.db.QueryContext(ctx, `
		SELECT s.id, s.title, s.body, s.is_nsfw, s.author_handle, s.author_instance, s.created_at,
		       COUNT(v.id) AS vote_count
		FROM submission s
		LEFT JOIN vote v ON v.submission_id = s.id
		WHERE s.category = $1
		GROUP BY s.id, s.title, s.body, s.is_nsfw, s.author_handle, s.author_instance, s.created_at
		ORDER BY vote_count DESC, s.id ASC
	`, contest.CategoryArt)
	if err != nil {
		return nil, fmt.Errorf("failed to tally art: %w", err)
	}
	defer rows.Close()

	out := []models.ArtResult{}
	for rows.Next() {
		var r models.ArtResult
		if err := rows.Scan(&r.ID, &r.Title, &r.Description, &r.IsNsfw, &r.AuthorHandle, &r.AuthorInstance, &r.CreatedAt, &r.VoteCount); err != nil {
			return nil, fmt.Errorf("failed to scan result row: %w", err)
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

func (l *Ledger) resultsOpen(c contest.Category) error {
	if !l.gate.IsEnabled(c) {
		return contest.ErrFeatureDisabled
	}
	if !l.gate.Check(c, contest.PhaseResult).Open {
		return contest.ErrPhaseClosed
	}
	return nil
}

func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	return strings.Contains(msg, "UNIQUE constraint failed") ||
		strings.Contains(msg, "duplicate key value")
}
