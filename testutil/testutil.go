// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package testutil

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"

	"github.com/danielhkuo/peerscreen/cliparse"
	"github.com/danielhkuo/peerscreen/db"
	"github.com/danielhkuo/peerscreen/session"
	"github.com/danielhkuo/peerscreen/store"
)

// SetupTestDB opens a private in-memory SQLite database with the full schema
func SetupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	dsn := "file:" + uuid.NewString() + "?mode=memory&cache=shared"
	conn, err := db.Open(context.Background(), db.DriverSQLite, dsn)
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}
	t.Cleanup(func() { conn.Close() })

	return conn
}

// GetTestConfig returns a standard test configuration
func GetTestConfig() cliparse.Config {
	return cliparse.Config{
		Port:          3318,
		StoreBackend:  cliparse.BackendMemory,
		SlugSalt:      "test-slug-salt",
		SurveyName:    "ordinal",
		ScoringPolicy: "ordinal-sum",
		CORSOrigins:   []string{"*"},
	}
}

// SetupRegistry returns an empty registry backed by memory stores
func SetupRegistry(t *testing.T) *session.Registry {
	t.Helper()
	return session.NewRegistry(GetTestConfig().SlugSalt, store.MemoryFactory())
}

// SetupSQLRegistry returns an empty registry backed by a fresh SQLite database
func SetupSQLRegistry(t *testing.T) *session.Registry {
	t.Helper()
	return session.NewRegistry(GetTestConfig().SlugSalt, store.SQLFactory(SetupTestDB(t)))
}

// CreateTestRun creates a run with the given participants and moves it to phase.
// phase should be "registration", "testing", or "results"
func CreateTestRun(t *testing.T, reg *session.Registry, phase session.Phase, names ...string) *session.Session {
	t.Helper()
	ctx := context.Background()

	s := reg.Create(session.Options{})
	for _, name := range names {
		if _, err := s.Register(ctx, name); err != nil {
			t.Fatalf("Failed to register %q: %v", name, err)
		}
	}

	if phase == session.PhaseRegistration {
		return s
	}
	if err := s.StartTesting(ctx); err != nil {
		t.Fatalf("Failed to start testing: %v", err)
	}

	if phase == session.PhaseResults {
		if err := s.Finish(ctx); err != nil {
			t.Fatalf("Failed to finish: %v", err)
		}
	}
	return s
}

// MakeRequest creates an HTTP test request
func MakeRequest(method, path string, body any, headers map[string]string) *http.Request {
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
func AssertJSON(t *testing.T, w *httptest.ResponseRecorder, v any) {
	t.Helper()
	if err := json.NewDecoder(w.Body).Decode(v); err != nil {
		t.Fatalf("Failed to decode JSON response: %v", err)
	}
}
