// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/danielhkuo/fedicontest/contest"
	"github.com/danielhkuo/fedicontest/identity"
	"github.com/danielhkuo/fedicontest/models"
)

const (
	titleMaxRunes       = 100
	descriptionMaxRunes = 2000
	literatureMaxRunes  = 7000
	artMaxBytes         = 10 << 20
)

// Store owns the submission tables. Writes are gated on the submission
// window and the one-entry-per-identity-per-category rule; reads are
// gated only on the category being enabled.
type Store struct {
	db   *sql.DB
	gate *contest.Gate
}

func NewStore(db *sql.DB, gate *contest.Gate) *Store {
	return &Store{db: db, gate: gate}
}

// CreateLiterature validates and stores a literature entry, returning
// its assigned id.
func (s *Store) CreateLiterature(ctx context.Context, author identity.Identity, req models.PostLiteratureRequest) (int64, error) {
	if !s.gate.IsEnabled(contest.CategoryLiterature) {
		return 0, contest.ErrFeatureDisabled
	}
	if err := validateTitle(req.Title); err != nil {
		return 0, err
	}
	if strings.TrimSpace(req.Text) == "" {
		return 0, fmt.Errorf("text must not be empty: %w", contest.ErrValidation)
	}
	if utf8.RuneCountInString(req.Text) > literatureMaxRunes {
		return 0, fmt.Errorf("text exceeds %d characters: %w", literatureMaxRunes, contest.ErrValidation)
	}
	if !s.gate.Check(contest.CategoryLiterature, contest.PhaseSubmission).Open {
		return 0, contest.ErrPhaseClosed
	}

	var id int64
	err := s.db.QueryRowContext(ctx, `
		INSERT INTO submission (category, title, body, is_nsfw, author_handle, author_instance, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id
	`, contest.CategoryLiterature, req.Title, req.Text, req.IsNsfw,
		author.Handle, author.Instance, time.Now().UTC()).Scan(&id)
	if err != nil {
		if isUniqueViolation(err) {
			return 0, contest.ErrAlreadySubmitted
		}
		return 0, fmt.Errorf("failed to insert literature: %w", err)
	}
	return id, nil
}

// CreateArt validates, thumbnails, and stores an art entry. The
// submission row and the image row commit together or not at all.
func (s *Store) CreateArt(ctx context.Context, author identity.Identity, title, description string, isNsfw bool, contentType string, data []byte) (int64, error) {
	if !s.gate.IsEnabled(contest.CategoryArt) {
		return 0, contest.ErrFeatureDisabled
	}
	if err := validateTitle(title); err != nil {
		return 0, err
	}
	if utf8.RuneCountInString(description) > descriptionMaxRunes {
		return 0, fmt.Errorf("description exceeds %d characters: %w", descriptionMaxRunes, contest.ErrValidation)
	}
	if len(data) == 0 {
		return 0, fmt.Errorf("image must not be empty: %w", contest.ErrValidation)
	}
	if len(data) > artMaxBytes {
		return 0, fmt.Errorf("image exceeds %d bytes: %w", artMaxBytes, contest.ErrValidation)
	}

	img, err := decodeImage(data)
	if err != nil {
		return 0, fmt.Errorf("%v: %w", err, contest.ErrValidation)
	}
	thumbnail, err := encodeThumbnail(img)
	if err != nil {
		return 0, err
	}

	if !s.gate.Check(contest.CategoryArt, contest.PhaseSubmission).Open {
		return 0, contest.ErrPhaseClosed
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	var id int64
	err = tx.QueryRowContext(ctx, `
		INSERT INTO submission (category, title, body, is_nsfw, author_handle, author_instance, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id
	`, contest.CategoryArt, title, description, isNsfw,
		author.Handle, author.Instance, time.Now().UTC()).Scan(&id)
	if err != nil {
		if isUniqueViolation(err) {
			return 0, contest.ErrAlreadySubmitted
		}
		return 0, fmt.Errorf("failed to insert art: %w", err)
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO art_image (submission_id, content_type, data, thumbnail)
		VALUES ($1, $2, $3, $4)
	`, id, contentType, data, thumbnail)
	if err != nil {
		return 0, fmt.Errorf("failed to insert art image: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit: %w", err)
	}
	return id, nil
}

// GetLiterature returns a full literature entry including its text.
func (s *Store) GetLiterature(ctx context.Context, id int64) (models.Literature, error) {
	if !s.gate.IsEnabled(contest.CategoryLiterature) {
		return models.Literature{}, contest.ErrFeatureDisabled
	}
	var lit models.Literature
	err := s.db.QueryRowContext(ctx, `
		SELECT id, title, body, is_nsfw, author_handle, author_instance, created_at
		FROM submission
		WHERE id = $1 AND category = $2
	`, id, contest.CategoryLiterature).Scan(
		&lit.ID, &lit.Title, &lit.Text, &lit.IsNsfw,
		&lit.AuthorHandle, &lit.AuthorInstance, &lit.CreatedAt)
	if err == sql.ErrNoRows {
		return models.Literature{}, contest.ErrNotFound
	}
	if err != nil {
		return models.Literature{}, fmt.Errorf("failed to query literature: %w", err)
	}
	return lit, nil
}

// GetLiteratureMetadata returns a literature entry without its text.
func (s *Store) GetLiteratureMetadata(ctx context.Context, id int64) (models.LiteratureMetadata, error) {
	if !s.gate.IsEnabled(contest.CategoryLiterature) {
		return models.LiteratureMetadata{}, contest.ErrFeatureDisabled
	}
	var m models.LiteratureMetadata
	err := s.db.QueryRowContext(ctx, `
		SELECT id, title, is_nsfw, author_handle, author_instance, created_at
		FROM submission
		WHERE id = $1 AND category = $2
	`, id, contest.CategoryLiterature).Scan(
		&m.ID, &m.Title, &m.IsNsfw, &m.AuthorHandle, &m.AuthorInstance, &m.CreatedAt)
	if err == sql.ErrNoRows {
		return models.LiteratureMetadata{}, contest.ErrNotFound
	}
	if err != nil {
		return models.LiteratureMetadata{}, fmt.Errorf("failed to query literature metadata: %w", err)
	}
	return m, nil
}

// ListLiteratureMetadata lists all literature entries in insertion
// order. Every caller sees the same ordering.
func (s *Store) ListLiteratureMetadata(ctx context.Context) ([]models.LiteratureMetadata, error) {
	if !s.gate.IsEnabled(contest.CategoryLiterature) {
		return nil, contest.ErrFeatureDisabled
	}
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, title, is_nsfw, author_handle, author_instance, created_at
		FROM submission
		WHERE category = $1
		ORDER BY id ASC
	`, contest.CategoryLiterature)
	if err != nil {
		return nil, fmt.Errorf("failed to list literature: %w", err)
	}
	defer rows.Close()

	out := []models.LiteratureMetadata{}
	for rows.Next() {
		var m models.LiteratureMetadata
		if err := rows.Scan(&m.ID, &m.Title, &m.IsNsfw, &m.AuthorHandle, &m.AuthorInstance, &m.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan literature row: %w", err)
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

// GetArtMetadata returns an art entry's metadata.
func (s *Store) GetArtMetadata(ctx context.Context, id int64) (models.ArtMetadata, error) {
	if !s.gate.IsEnabled(contest.CategoryArt) {
		return models.ArtMetadata{}, contest.ErrFeatureDisabled
	}
	var m models.ArtMetadata
	err := s.db.QueryRowContext(ctx, `
		SELECT id, title, body, is_nsfw, author_handle, author_instance, created_at
		FROM submission
		WHERE id = $1 AND category = $2
	`, id, contest.CategoryArt).Scan(
		&m.ID, &m.Title, &m.Description, &m.IsNsfw,
		&m.AuthorHandle, &m.AuthorInstance, &m.CreatedAt)
	if err == sql.ErrNoRows {
		return models.ArtMetadata{}, contest.ErrNotFound
	}
	if err != nil {
		return models.ArtMetadata{}, fmt.Errorf("failed to query art metadata: %w", err)
	}
	return m, nil
}

// ListArtMetadata lists all art entries in insertion order.
func (s *Store) ListArtMetadata(ctx context.Context) ([]models.ArtMetadata, error) {
	if !s.gate.IsEnabled(contest.CategoryArt) {
		return nil, contest.ErrFeatureDisabled
	}
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, title, body, is_nsfw, author_handle, author_instance, created_at
		FROM submission
		WHERE category = $1
		ORDER BY id ASC
	`, contest.CategoryArt)
	if err != nil {
		return nil, fmt.Errorf("failed to list art: %w", err)
	}
	defer rows.Close()

	out := []models.ArtMetadata{}
	for rows.Next() {
		var m models.ArtMetadata
		if err := rows.Scan(&m.ID, &m.Title, &m.Description, &m.IsNsfw, &m.AuthorHandle, &m.AuthorInstance, &m.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan art row: %w", err)
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

// GetArtImage returns the original image bytes and their content type.
func (s *Store) GetArtImage(ctx context.Context, id int64) ([]byte, string, error) {
	if !s.gate.IsEnabled(contest.CategoryArt) {
		return nil, "", contest.ErrFeatureDisabled
	}
	var data []byte
	var contentType string
	err := s.db.QueryRowContext(ctx, `
		SELECT data, content_type FROM art_image WHERE submission_id = $1
	`, id).Scan(&data, &contentType)
	if err == sql.ErrNoRows {
		return nil, "", contest.ErrNotFound
	}
	if err != nil {
		return nil, "", fmt.Errorf("failed to query art image: %w", err)
	}
	return data, contentType, nil
}

// GetArtThumbnail returns the pre-rendered JPEG thumbnail.
func (s *Store) GetArtThumbnail(ctx context.Context, id int64) ([]byte, error) {
	if !s.gate.IsEnabled(contest.CategoryArt) {
		return nil, contest.ErrFeatureDisabled
	}
	var data []byte
	err := s.db.QueryRowContext(ctx, `
		SELECT thumbnail FROM art_image WHERE submission_id = $1
	`, id).Scan(&data)
	if err == sql.ErrNoRows {
		return nil, contest.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query art thumbnail: %w", err)
	}
	return data, nil
}

func validateTitle(title string) error {
	if strings.TrimSpace(title) == "" {
		return fmt.Errorf("title must not be empty: %w", contest.ErrValidation)
	}
	if utf8.RuneCountInString(title) > titleMaxRunes {
		return fmt.Errorf("title exceeds %d characters: %w", titleMaxRunes, contest.ErrValidation)
	}
	return nil
}

// isUniqueViolation matches driver error text because database/sql has
// no portable error code for constraint violations across sqlite and
// postgres drivers.
func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	return strings.Contains(msg, "UNIQUE constraint failed") ||
		strings.Contains(msg, "duplicate key value")
}
