// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package testutil

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"image"
	"image/color"
	"image/png"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/danielhkuo/fedicontest/cliparse"
	"github.com/danielhkuo/fedicontest/contest"
	"github.com/danielhkuo/fedicontest/db"
	"github.com/danielhkuo/fedicontest/identity"
)

// SetupTestDB creates a fresh in-memory database with the full schema.
// Each call gets its own uniquely named shared-cache database, so tests
// never see each other's rows.
func SetupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	dsn := "file:" + uuid.NewString() + "?mode=memory&cache=shared"
	conn, err := sql.Open("sqlite", dsn)
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}
	// A single connection keeps the in-memory database alive and
	// serializes access, matching sqlite's single-writer model.
	conn.SetMaxOpenConns(1)

	if err := db.CreateSchema(conn, "sqlite"); err != nil {
		t.Fatalf("Failed to create schema: %v", err)
	}

	t.Cleanup(func() { conn.Close() })
	return conn
}

// GetTestConfig returns a standard test configuration with every phase
// window currently open and both categories enabled.
func GetTestConfig() cliparse.Config {
	now := time.Now()
	open := cliparse.Windows{
		SubmissionOpenAt:  now.Add(-time.Hour),
		SubmissionCloseAt: now.Add(time.Hour),
		VotingOpenAt:      now.Add(-time.Hour),
		VotingCloseAt:     now.Add(time.Hour),
		ResultOpenAt:      now.Add(-time.Hour),
		ResultCloseAt:     now.Add(time.Hour),
	}
	return cliparse.Config{
		Port:              3318,
		DatabaseURL:       ":memory:",
		DatabaseType:      "sqlite",
		BaseURL:           "http://contest.test",
		ContestName:       "Test Contest",
		SessionSecret:     "test-session-secret",
		LiteratureEnabled: true,
		ArtEnabled:        true,
		Literature:        open,
		Art:               open,
	}
}

// CreateTestLiterature inserts a literature entry and returns its id
func CreateTestLiterature(t *testing.T, conn *sql.DB, handle, instance string) int64 {
	t.Helper()

	var id int64
	err := conn.QueryRow(`
		INSERT INTO submission (category, title, body, is_nsfw, author_handle, author_instance, created_at)
		VALUES ($1, 'Test Story', 'Once upon a time.', FALSE, $2, $3, $4)
		RETURNING id
	`, contest.CategoryLiterature, handle, instance, time.Now().UTC()).Scan(&id)
	if err != nil {
		t.Fatalf("Failed to create test literature: %v", err)
	}
	return id
}

// CreateTestArt inserts an art entry with a tiny image and returns its id
func CreateTestArt(t *testing.T, conn *sql.DB, handle, instance string) int64 {
	t.Helper()

	var id int64
	err := conn.QueryRow(`
		INSERT INTO submission (category, title, body, is_nsfw, author_handle, author_instance, created_at)
		VALUES ($1, 'Test Piece', 'A test piece.', FALSE, $2, $3, $4)
		RETURNING id
	`, contest.CategoryArt, handle, instance, time.Now().UTC()).Scan(&id)
	if err != nil {
		t.Fatalf("Failed to create test art: %v", err)
	}

	img := TestPNG(t, 8, 8)
	_, err = conn.Exec(`
		INSERT INTO art_image (submission_id, content_type, data, thumbnail)
		VALUES ($1, 'image/png', $2, $3)
	`, id, img, img)
	if err != nil {
		t.Fatalf("Failed to create test art image: %v", err)
	}
	return id
}

// CastTestVote records a vote directly in the database
func CastTestVote(t *testing.T, conn *sql.DB, handle, instance string, category contest.Category, submissionID int64) {
	t.Helper()

	_, err := conn.Exec(`
		INSERT INTO vote (handle, instance, category, submission_id, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`, handle, instance, category, submissionID, time.Now().UTC())
	if err != nil {
		t.Fatalf("Failed to cast test vote: %v", err)
	}
}

// LoginTestUser mints a real session for an identity and returns the
// credential suitable for a SESSION cookie
func LoginTestUser(t *testing.T, conn *sql.DB, cfg cliparse.Config, handle, instance string) string {
	t.Helper()

	bridge := identity.NewBridge(conn, cfg)
	credential, err := bridge.MintSession(context.Background(), identity.Identity{
		Handle:   handle,
		Instance: instance,
	})
	if err != nil {
		t.Fatalf("Failed to mint test session: %v", err)
	}
	return credential
}

// TestPNG encodes a solid-color PNG of the given dimensions
func TestPNG(t *testing.T, width, height int) []byte {
	t.Helper()

	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.Set(x, y, color.RGBA{R: 200, G: 40, B: 120, A: 255})
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("Failed to encode test PNG: %v", err)
	}
	return buf.Bytes()
}

// MakeRequest creates an HTTP test request
func MakeRequest(method, path string, body interface{}, headers map[string]string) *http.Request {
	var req *http.Request
	if body != nil {
		jsonBody, _ := json.Marshal(body)
		req = httptest.NewRequest(method, path, bytes.NewReader(jsonBody))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}

	for k, v := range headers {
		req.Header.Set(k, v)
	}

	return req
}

// AssertStatus checks that the response has the expected status code
func AssertStatus(t *testing.T, w *httptest.ResponseRecorder, expected int) {
	t.Helper()
	if w.Code != expected {
		t.Errorf("Expected status %d, got %d. Body: %s", expected, w.Code, w.Body.String())
	}
}

// AssertJSON decodes the response body into the provided struct
func AssertJSON(t *testing.T, w *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	if err := json.NewDecoder(w.Body).Decode(v); err != nil {
		t.Fatalf("Failed to decode JSON response: %v", err)
	}
}
