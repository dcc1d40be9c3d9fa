package handlers_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/quizsecure/quizsecure/database"
	"github.com/quizsecure/quizsecure/models"
	"github.com/quizsecure/quizsecure/routes"
	"gorm.io/gorm"
)

// setupTestApp wires the full route surface against a fresh in-memory
// database and returns the app under test.
func setupTestApp(t *testing.T) *fiber.App {
	t.Helper()
	t.Setenv("JWT_SECRET", "test-secret")

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		SkipDefaultTransaction: true,
		TranslateError:         true,
	})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}

	err = db.AutoMigrate(
		&models.User{},
		&models.Quiz{},
		&models.Question{},
		&models.Choice{},
		&models.Submission{},
		&models.Answer{},
		&models.RedFlag{},
		&models.RedeemedCode{},
		&models.QuizResult{},
		&models.Certificate{},
	)
	if err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}
	database.DB = db

	app := fiber.New()
	routes.AuthRoutes(app)
	routes.QuizRoutes(app)
	return app
}

// doJSON sends a JSON request through the app and decodes the JSON
// response body into a generic map.
func doJSON(t *testing.T, app *fiber.App, method, path, token string, body interface{}) (int, map[string]interface{}) {
	t.Helper()

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("failed to marshal request body: %v", err)
		}
		reader = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := app.Test(req, -1)
	if err != nil {
		t.Fatalf("request %s %s failed: %v", method, path, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("failed to read response body: %v", err)
	}

	var decoded map[string]interface{}
	if len(raw) > 0 && raw[0] == '{' {
		if err := json.Unmarshal(raw, &decoded); err != nil {
			t.Fatalf("failed to decode response %s: %v", raw, err)
		}
	}
	return resp.StatusCode, decoded
}

// doJSONList is doJSON for endpoints returning a JSON array.
func doJSONList(t *testing.T, app *fiber.App, method, path, token string) (int, []map[string]interface{}) {
	t.Helper()

	req := httptest.NewRequest(method, path, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := app.Test(req, -1)
	if err != nil {
		t.Fatalf("request %s %s failed: %v", method, path, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("failed to read response body: %v", err)
	}

	var decoded []map[string]interface{}
	if len(raw) > 0 && raw[0] == '[' {
		if err := json.Unmarshal(raw, &decoded); err != nil {
			t.Fatalf("failed to decode response %s: %v", raw, err)
		}
	}
	return resp.StatusCode, decoded
}

func signupUser(t *testing.T, app *fiber.App, username, email, role string) string {
	t.Helper()

	status, body := doJSON(t, app, http.MethodPost, "/api/auth/signup", "", map[string]interface{}{
		"full_name": "Test " + username,
		"username":  username,
		"email":     email,
		"password":  "secret123",
		"role":      role,
	})
	if status != http.StatusOK {
		t.Fatalf("signup for %s returned %d: %v", username, status, body)
	}
	token, _ := body["access_token"].(string)
	if token == "" {
		t.Fatalf("signup for %s returned no token: %v", username, body)
	}
	return token
}

func createQuiz(t *testing.T, app *fiber.App, token, title, paperCode, start, end string) string {
	t.Helper()

	status, body := doJSON(t, app, http.MethodPost, "/api/quizzes/create", token, map[string]interface{}{
		"title":      title,
		"start_time": start,
		"end_time":   end,
		"timer":      30,
		"paper_code": paperCode,
	})
	if status != http.StatusOK {
		t.Fatalf("create quiz %q returned %d: %v", title, status, body)
	}
	quizID, _ := body["quiz_id"].(string)
	if quizID == "" {
		t.Fatalf("create quiz %q returned no id: %v", title, body)
	}
	return quizID
}
