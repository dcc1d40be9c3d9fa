package handlers_test

import (
	"net/http"
	"testing"
	"time"
)

func openWindow() (string, string) {
	now := time.Now()
	return now.Add(-time.Hour).Format(time.RFC3339), now.Add(time.Hour).Format(time.RFC3339)
}

func closedWindow() (string, string) {
	now := time.Now()
	return now.Add(-48 * time.Hour).Format(time.RFC3339), now.Add(-24 * time.Hour).Format(time.RFC3339)
}

func TestCreateQuizDuplicatePaperCode(t *testing.T) {
	app := setupTestApp(t)
	teacher := signupUser(t, app, "teach", "teach@example.com", "teacher")

	start, end := openWindow()
	createQuiz(t, app, teacher, "Midterms", "ABC123", start, end)

	status, body := doJSON(t, app, http.MethodPost, "/api/quizzes/create", teacher, map[string]interface{}{
		"title":      "Finals",
		"start_time": start,
		"end_time":   end,
		"paper_code": "ABC123",
	})
	if status != http.StatusBadRequest {
		t.Fatalf("expected 400 for duplicate paper code, got %d: %v", status, body)
	}

	// The original quiz is untouched.
	status, quizzes := doJSONList(t, app, http.MethodGet, "/api/quizzes/all", teacher)
	if status != http.StatusOK || len(quizzes) != 1 {
		t.Fatalf("expected exactly one surviving quiz, got %d quizzes (status %d)", len(quizzes), status)
	}
	if quizzes[0]["title"] != "Midterms" {
		t.Fatalf("expected the first quiz to survive, got %v", quizzes[0])
	}
}

func TestCreateQuizGeneratesPaperCode(t *testing.T) {
	app := setupTestApp(t)
	teacher := signupUser(t, app, "teach", "teach@example.com", "teacher")

	start, end := openWindow()
	status, body := doJSON(t, app, http.MethodPost, "/api/quizzes/create", teacher, map[string]interface{}{
		"title":      "Pop quiz",
		"start_time": start,
		"end_time":   end,
	})
	if status != http.StatusOK {
		t.Fatalf("create returned %d: %v", status, body)
	}
	code, _ := body["paper_code"].(string)
	if len(code) != 6 {
		t.Fatalf("expected a generated 6-char paper code, got %q", code)
	}
}

func TestCreateQuizRequiresTeacher(t *testing.T) {
	app := setupTestApp(t)
	student := signupUser(t, app, "stu", "stu@example.com", "student")

	start, end := openWindow()
	status, _ := doJSON(t, app, http.MethodPost, "/api/quizzes/create", student, map[string]interface{}{
		"title":      "Sneaky quiz",
		"start_time": start,
		"end_time":   end,
	})
	if status != http.StatusForbidden {
		t.Fatalf("expected 403 for a student creating a quiz, got %d", status)
	}
}

func TestListQuizzesFiltersByWindowForStudents(t *testing.T) {
	app := setupTestApp(t)
	teacher := signupUser(t, app, "teach", "teach@example.com", "teacher")
	student := signupUser(t, app, "stu", "stu@example.com", "student")

	openStart, openEnd := openWindow()
	closedStart, closedEnd := closedWindow()
	createQuiz(t, app, teacher, "Open quiz", "OPEN01", openStart, openEnd)
	createQuiz(t, app, teacher, "Closed quiz", "CLOSE1", closedStart, closedEnd)

	status, all := doJSONList(t, app, http.MethodGet, "/api/quizzes/all", teacher)
	if status != http.StatusOK || len(all) != 2 {
		t.Fatalf("teacher should see both quizzes, got %d (status %d)", len(all), status)
	}

	status, visible := doJSONList(t, app, http.MethodGet, "/api/quizzes/all", student)
	if status != http.StatusOK || len(visible) != 1 {
		t.Fatalf("student should see only the open quiz, got %d (status %d)", len(visible), status)
	}
	if visible[0]["title"] != "Open quiz" {
		t.Fatalf("student sees the wrong quiz: %v", visible[0])
	}
}

func TestRedeemCodeIdempotent(t *testing.T) {
	app := setupTestApp(t)
	teacher := signupUser(t, app, "teach", "teach@example.com", "teacher")
	student := signupUser(t, app, "stu", "stu@example.com", "student")

	start, end := openWindow()
	createQuiz(t, app, teacher, "Quiz", "RDM001", start, end)

	status, first := doJSON(t, app, http.MethodPost, "/api/quizzes/redeem/RDM001", student, nil)
	if status != http.StatusOK {
		t.Fatalf("first redemption returned %d: %v", status, first)
	}

	status, second := doJSON(t, app, http.MethodPost, "/api/quizzes/redeem/RDM001", student, nil)
	if status != http.StatusOK {
		t.Fatalf("repeat redemption returned %d: %v", status, second)
	}
	if first["id"] != second["id"] {
		t.Fatalf("repeat redemption created a new record: %v vs %v", first["id"], second["id"])
	}

	status, body := doJSON(t, app, http.MethodPost, "/api/quizzes/redeem/NOSUCH", student, nil)
	if status != http.StatusNotFound {
		t.Fatalf("expected 404 for an unknown code, got %d: %v", status, body)
	}
}

func TestTakeQuizRequiresRedemption(t *testing.T) {
	app := setupTestApp(t)
	teacher := signupUser(t, app, "teach", "teach@example.com", "teacher")
	student := signupUser(t, app, "stu", "stu@example.com", "student")

	start, end := openWindow()
	createQuiz(t, app, teacher, "Quiz", "TAKE01", start, end)

	if status, body := doJSON(t, app, http.MethodPost, "/api/quizzes/questions/create/TAKE01", teacher, map[string]interface{}{
		"question_text":  "2+2?",
		"question_type":  "mcq",
		"options":        []string{"3", "4"},
		"correct_answer": "1",
	}); status != http.StatusOK {
		t.Fatalf("question creation failed with %d: %v", status, body)
	}

	status, body := doJSON(t, app, http.MethodGet, "/api/quizzes/take/TAKE01", student, nil)
	if status != http.StatusForbidden {
		t.Fatalf("expected 403 before redemption, got %d: %v", status, body)
	}

	if status, _ := doJSON(t, app, http.MethodPost, "/api/quizzes/redeem/TAKE01", student, nil); status != http.StatusOK {
		t.Fatalf("redemption failed with %d", status)
	}

	status, body = doJSON(t, app, http.MethodGet, "/api/quizzes/take/TAKE01", student, nil)
	if status != http.StatusOK {
		t.Fatalf("expected 200 after redemption, got %d: %v", status, body)
	}

	questions, _ := body["questions"].([]interface{})
	if len(questions) != 1 {
		t.Fatalf("expected one delivered question, got %v", body["questions"])
	}
	question := questions[0].(map[string]interface{})
	if _, leaked := question["correct_answer"]; leaked {
		t.Fatalf("delivered question leaks the answer key: %v", question)
	}
	choices, _ := question["choices"].([]interface{})
	if len(choices) != 2 {
		t.Fatalf("expected two delivered choices, got %v", question["choices"])
	}
	for _, raw := range choices {
		if _, leaked := raw.(map[string]interface{})["is_correct"]; leaked {
			t.Fatalf("delivered choice leaks is_correct: %v", raw)
		}
	}
}
