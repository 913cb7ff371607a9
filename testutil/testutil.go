// Package testutil provides a throwaway database and request helpers for tests.
package testutil

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/google/uuid"
	"github.com/rpupo63/devsearch-backend/auth"
	"github.com/rpupo63/devsearch-backend/database"
	"github.com/rpupo63/devsearch-backend/models"
)

// TestPassword satisfies every password rule.
const TestPassword = "Sup3r$ecret"

// TestSecret signs tokens in tests.
const TestSecret = "test-secret"

// SetupTestDB creates a fresh file-backed sqlite database with the full schema and triggers.
func SetupTestDB(t *testing.T) database.Database {
	t.Helper()

	path := filepath.Join(t.TempDir(), "devsearch_test.db")
	db, err := database.Open(database.Options{URL: "sqlite://" + path, LogLevel: "silent"})
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})

	if err := database.Migrate(db); err != nil {
		t.Fatalf("Failed to migrate test database: %v", err)
	}
	return database.New(db)
}

// CreateTestProfile inserts a profile whose password is TestPassword.
func CreateTestProfile(t *testing.T, db database.Database, username string) *models.Profile {
	t.Helper()

	hash, err := auth.HashPassword(TestPassword)
	if err != nil {
		t.Fatalf("Failed to hash password: %v", err)
	}
	profile := &models.Profile{
		Username: username,
		Email:    username + "@example.com",
		Password: hash,
		IsActive: true,
	}
	if err := db.ProfileRepo().Add(context.Background(), profile); err != nil {
		t.Fatalf("Failed to create test profile: %v", err)
	}
	return profile
}

// CreateTestProject inserts a project owned by owner and links the named tags.
func CreateTestProject(t *testing.T, db database.Database, owner *models.Profile, title string, tags ...string) *models.Project {
	t.Helper()
	ctx := context.Background()

	project := &models.Project{Title: title}
	if owner != nil {
		project.OwnerID = &owner.ID
	}
	if err := db.ProjectRepo().Add(ctx, project); err != nil {
		t.Fatalf("Failed to create test project: %v", err)
	}

	for _, name := range tags {
		tag, err := db.TagRepo().FindByName(ctx, name)
		if err != nil {
			tag = &models.Tag{Name: name}
			if err := db.TagRepo().Add(ctx, tag); err != nil {
				t.Fatalf("Failed to create test tag: %v", err)
			}
		}
		if err := db.TagRepo().Attach(ctx, project.ID, tag.ID); err != nil {
			t.Fatalf("Failed to attach test tag: %v", err)
		}
	}
	return project
}

// AccessToken issues a bearer token for profile signed with TestSecret.
func AccessToken(t *testing.T, profile *models.Profile) string {
	t.Helper()

	token, err := auth.NewIssuer(TestSecret).Issue(auth.Identity{ID: profile.ID, Username: profile.Username}, auth.PurposeAccess, auth.AccessTokenTTL)
	if err != nil {
		t.Fatalf("Failed to issue token: %v", err)
	}
	return token
}

// BearerHeader is the Authorization header for profile.
func BearerHeader(t *testing.T, profile *models.Profile) map[string]string {
	return map[string]string{"Authorization": "Bearer " + AccessToken(t, profile)}
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

// ParseID parses a uuid or fails the test.
func ParseID(t *testing.T, s string) uuid.UUID {
	t.Helper()
	id, err := uuid.Parse(s)
	if err != nil {
		t.Fatalf("invalid uuid %q: %v", s, err)
	}
	return id
}
