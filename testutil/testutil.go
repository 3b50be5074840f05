// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package testutil

import (
	"bytes"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/danielhkuo/propose/auth"
	"github.com/danielhkuo/propose/cliparse"
	"github.com/danielhkuo/propose/db"
)

// SetupTestDB creates a fresh SQLite database with the full schema.
// The database file lives in t.TempDir and is closed when the test ends.
func SetupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	path := filepath.Join(t.TempDir(), "test.db")
	conn, err := db.Open(db.TypeSQLite, path)
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}
	t.Cleanup(func() { conn.Close() })

	if err := db.CreateSchema(conn, db.TypeSQLite); err != nil {
		t.Fatalf("Failed to create schema: %v", err)
	}

	return conn
}

// GetTestConfig returns a standard test configuration
func GetTestConfig() cliparse.Config {
	return cliparse.Config{
		Port:               3318,
		DatabaseURL:        "test.db",
		DatabaseType:       db.TypeSQLite,
		SessionSalt:        "test-session-salt",
		AutosaveDelay:      cliparse.DefaultAutosaveDelay,
		SessionIdleTimeout: cliparse.DefaultSessionIdleTimeout,
		PublicBaseURL:      "https://propose.test",
	}
}

// AuthHeaders returns request headers carrying a valid session for userID
func AuthHeaders(cfg cliparse.Config, userID string) map[string]string {
	return map[string]string{
		"Authorization": "Bearer " + auth.GenerateSessionToken(userID, cfg.SessionSalt),
	}
}

// CreateTestClient inserts a client owned by userID and returns its ID
func CreateTestClient(t *testing.T, db *sql.DB, userID, name string) string {
	t.Helper()

	clientID := uuid.NewString()
	_, err := db.Exec(`
		INSERT INTO client (id, user_id, name, archived, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`, clientID, userID, name, false, time.Now().UTC())
	if err != nil {
		t.Fatalf("Failed to create test client: %v", err)
	}

	return clientID
}

// CreateTestProposal inserts a draft proposal and returns its ID.
// A non-empty shareToken is stored on the row.
func CreateTestProposal(t *testing.T, db *sql.DB, userID, clientID, name, shareToken string) string {
	t.Helper()

	var token *string
	if shareToken != "" {
		token = &shareToken
	}

	proposalID := uuid.NewString()
	now := time.Now().UTC()
	_, err := db.Exec(`
		INSERT INTO proposal (id, client_id, user_id, name, status, share_token, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`, proposalID, clientID, userID, name, "draft", token, now, now)
	if err != nil {
		t.Fatalf("Failed to create test proposal: %v", err)
	}

	return proposalID
}

// SaveTestAnswers stores a raw JSON answer document for a proposal
func SaveTestAnswers(t *testing.T, db *sql.DB, proposalID, answersJSON string) {
	t.Helper()

	_, err := db.Exec(`
		INSERT INTO proposal_answers (proposal_id, answers, updated_at)
		VALUES ($1, $2, $3)
	`, proposalID, answersJSON, time.Now().UTC())
	if err != nil {
		t.Fatalf("Failed to save test answers: %v", err)
	}
}

// LoadTestAnswers returns the stored answer JSON, or "" when there is no row
func LoadTestAnswers(t *testing.T, db *sql.DB, proposalID string) string {
	t.Helper()

	var raw string
	err := db.QueryRow(`SELECT answers FROM proposal_answers WHERE proposal_id = $1`, proposalID).Scan(&raw)
	if err == sql.ErrNoRows {
		return ""
	}
	if err != nil {
		t.Fatalf("Failed to load test answers: %v", err)
	}
	return raw
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
