package handlers_test

import (
	"net/http"
	"testing"
)

func TestSignupAndLogin(t *testing.T) {
	app := setupTestApp(t)

	signupUser(t, app, "mrsmith", "smith@example.com", "teacher")

	tests := []struct {
		name       string
		username   string
		password   string
		role       string
		wantStatus int
	}{
		{"valid login", "mrsmith", "secret123", "teacher", http.StatusOK},
		{"wrong password", "mrsmith", "wrong-password", "teacher", http.StatusUnauthorized},
		{"wrong role", "mrsmith", "secret123", "student", http.StatusUnauthorized},
		{"unknown user", "nobody", "secret123", "teacher", http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, body := doJSON(t, app, http.MethodPost, "/api/auth/login", "", map[string]interface{}{
				"username": tt.username,
				"password": tt.password,
				"role":     tt.role,
			})
			if status != tt.wantStatus {
				t.Fatalf("expected status %d, got %d: %v", tt.wantStatus, status, body)
			}
			if tt.wantStatus == http.StatusOK {
				if token, _ := body["access_token"].(string); token == "" {
					t.Fatalf("expected a token, got %v", body)
				}
			}
		})
	}
}

func TestSignupDuplicateEmail(t *testing.T) {
	app := setupTestApp(t)

	signupUser(t, app, "alice", "alice@example.com", "student")

	status, body := doJSON(t, app, http.MethodPost, "/api/auth/signup", "", map[string]interface{}{
		"username": "alice2",
		"email":    "alice@example.com",
		"password": "secret123",
		"role":     "student",
	})
	if status != http.StatusBadRequest {
		t.Fatalf("expected 400 for duplicate email, got %d: %v", status, body)
	}
}

func TestRolesMayShareUsername(t *testing.T) {
	app := setupTestApp(t)

	signupUser(t, app, "jordan", "jordan-s@example.com", "student")
	signupUser(t, app, "jordan", "jordan-t@example.com", "teacher")

	for _, role := range []string{"student", "teacher"} {
		status, body := doJSON(t, app, http.MethodPost, "/api/auth/login", "", map[string]interface{}{
			"username": "jordan",
			"password": "secret123",
			"role":     role,
		})
		if status != http.StatusOK {
			t.Fatalf("login as %s jordan returned %d: %v", role, status, body)
		}
	}
}

func TestProtectedRouteRejectsBadToken(t *testing.T) {
	app := setupTestApp(t)

	status, _ := doJSON(t, app, http.MethodGet, "/api/quizzes/all", "", nil)
	if status != http.StatusUnauthorized {
		t.Fatalf("expected 401 without a token, got %d", status)
	}

	status, _ = doJSON(t, app, http.MethodGet, "/api/quizzes/all", "not-a-jwt", nil)
	if status != http.StatusUnauthorized {
		t.Fatalf("expected 401 for a malformed token, got %d", status)
	}
}
