package handlers

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/quizsecure/quizsecure/database"
	"github.com/quizsecure/quizsecure/models"
	"github.com/quizsecure/quizsecure/notifications"
	"github.com/quizsecure/quizsecure/services"
	"github.com/quizsecure/quizsecure/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type QuizSubmissionRequest struct {
	QuizID string `json:"quiz_id" validate:"required,uuid"`
	// question id -> selected choice id (mcq) or answer text (identification)
	Answers map[string]string `json:"answers"`
}

// gradeAnswer decides whether one submitted value earns the question's
// points. Multiple choice compares against the id of the correct choice;
// identification compares text, case-insensitively unless the question
// says otherwise.
func gradeAnswer(question models.Question, correctChoiceID string, submitted string) bool {
	switch question.QuestionType {
	case models.QuestionTypeMCQ:
		return correctChoiceID != "" && submitted == correctChoiceID
	case models.QuestionTypeIdentification:
		got := strings.TrimSpace(submitted)
		want := strings.TrimSpace(question.CorrectAnswer)
		if question.CaseSensitive {
			return got == want
		}
		return strings.EqualFold(got, want)
	}
	return false
}

func SubmitQuiz(c *fiber.Ctx) error {
	var req QuizSubmissionRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	quizID, _ := uuid.Parse(req.QuizID)
	studentID := principalID(c)

	var quiz models.Quiz
	if err := database.DB.First(&quiz, "id = ?", quizID).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Quiz not found"})
	}

	var questions []models.Question
	if err := database.DB.Where("quiz_id = ?", quizID).Find(&questions).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to load questions"})
	}

	questionByID := make(map[string]models.Question, len(questions))
	for _, q := range questions {
		questionByID[q.ID.String()] = q
	}

	correctChoiceByQuestion := make(map[string]string)
	if len(questions) > 0 {
		var correctChoices []models.Choice
		questionIDs := make([]uuid.UUID, len(questions))
		for i, q := range questions {
			questionIDs[i] = q.ID
		}
		if err := database.DB.Where("question_id IN ? AND is_correct = ?", questionIDs, true).
			Find(&correctChoices).Error; err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to load answer key"})
		}
		for _, ch := range correctChoices {
			correctChoiceByQuestion[ch.QuestionID.String()] = ch.ID.String()
		}
	}

	var score, total float64
	var answerRows []models.Answer
	for questionID, submitted := range req.Answers {
		question, known := questionByID[questionID]
		if !known {
			// Entries for unknown questions still count against the
			// total, at the default weight.
			total += 1.0
			continue
		}
		total += question.Points
		if gradeAnswer(question, correctChoiceByQuestion[questionID], submitted) {
			score += question.Points
		}
		answerRows = append(answerRows, models.Answer{
			QuestionID: question.ID,
			AnswerText: submitted,
		})
	}

	now := time.Now()
	submission := models.Submission{
		QuizID:      quizID,
		StudentID:   studentID,
		SubmittedAt: now,
		Score:       score,
	}
	result := models.QuizResult{
		UserID:      studentID,
		QuizID:      quizID,
		Score:       score,
		Total:       total,
		SubmittedAt: now,
	}

	err := database.DB.Transaction(func(tx *gorm.DB) error {
		// The unique index on quiz_results (user_id, quiz_id) rejects a
		// second submission and rolls the whole attempt back.
		if err := tx.Create(&result).Error; err != nil {
			return err
		}
		if err := tx.Create(&submission).Error; err != nil {
			return err
		}
		for i := range answerRows {
			answerRows[i].SubmissionID = submission.ID
		}
		if len(answerRows) > 0 {
			if err := tx.Create(&answerRows).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": "Quiz already submitted"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to save submission"})
	}

	var student models.User
	if err := database.DB.First(&student, "id = ?", studentID).Error; err == nil {
		go notifications.SendEmail(student.FullName, student.Email, "Your quiz result",
			fmt.Sprintf("<p>You scored %.1f out of %.1f on %s.</p>", score, total, quiz.Title))
		go services.GenerateResultCertificate(student, quiz, result)
	}

	return c.JSON(fiber.Map{
		"submission_id": submission.ID,
		"score":         score,
		"total":         total,
		"message":       "Quiz submitted successfully",
	})
}

func GetResult(c *fiber.Ctx) error {
	quizID := c.Params("quizId")

	var result models.QuizResult
	err := database.DB.Where("user_id = ? AND quiz_id = ?", principalID(c), quizID).First(&result).Error
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Result not found"})
	}
	return c.JSON(result)
}

type RedFlagRequest struct {
	FlagType string `json:"flag_type" validate:"required,oneof=no_face multiple_faces tab_switch"`
}

// ReportFlag records a proctoring event against the caller's own
// submission and relays it to any live monitor.
func ReportFlag(c *fiber.Ctx) error {
	var req RedFlagRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	var submission models.Submission
	err := database.DB.Where("id = ? AND student_id = ?", c.Params("submissionId"), principalID(c)).
		First(&submission).Error
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Submission not found"})
	}

	flag := models.RedFlag{
		SubmissionID: submission.ID,
		Timestamp:    time.Now(),
		FlagType:     req.FlagType,
	}
	if err := database.DB.Create(&flag).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to record flag"})
	}

	websocket.BroadcastFlag(&flag)

	return c.JSON(flag)
}

func ListCertificates(c *fiber.Ctx) error {
	var certificates []models.Certificate
	err := database.DB.Where("student_id = ?", principalID(c)).Order("issued_at desc").
		Find(&certificates).Error
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to list certificates"})
	}
	return c.JSON(certificates)
}
