package handlers

import (
	"errors"
	"time"

	"github.com/quizsecure/quizsecure/database"
	"github.com/quizsecure/quizsecure/models"
	"github.com/quizsecure/quizsecure/utils"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type QuizCreateRequest struct {
	Title       string `json:"title" validate:"required"`
	Description string `json:"description"`
	StartTime   string `json:"start_time" validate:"required"`
	EndTime     string `json:"end_time" validate:"required"`
	Timer       int    `json:"timer" validate:"gte=0"`
	ForwardOnly bool   `json:"forward_only"`
	// Optional; a fresh code is generated when omitted.
	PaperCode string `json:"paper_code" validate:"omitempty,min=4,max=20"`
}

func CreateQuiz(c *fiber.Ctx) error {
	var req QuizCreateRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	startTime, err := time.Parse(time.RFC3339, req.StartTime)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "start_time must be RFC3339"})
	}
	endTime, err := time.Parse(time.RFC3339, req.EndTime)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "end_time must be RFC3339"})
	}
	if endTime.Before(startTime) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "end_time must not precede start_time"})
	}

	paperCode := req.PaperCode
	if paperCode == "" {
		paperCode, err = utils.GenerateUniquePaperCode(database.DB)
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to generate paper code"})
		}
	}

	quiz := models.Quiz{
		Title:        req.Title,
		Description:  req.Description,
		CreatedBy:    principalID(c),
		PaperCode:    paperCode,
		StartTime:    startTime,
		EndTime:      endTime,
		TimerMinutes: req.Timer,
		ForwardOnly:  req.ForwardOnly,
	}
	if err := database.DB.Create(&quiz).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Paper code already in use"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to create quiz"})
	}

	return c.JSON(fiber.Map{
		"quiz_id":    quiz.ID,
		"paper_code": quiz.PaperCode,
		"message":    "Quiz created successfully",
	})
}

// ListQuizzes returns every quiz to teachers. Students only see quizzes
// whose delivery window is currently open.
func ListQuizzes(c *fiber.Ctx) error {
	query := database.DB.Order("created_at")
	if principalRole(c) != "teacher" {
		now := time.Now()
		query = query.Where("start_time <= ? AND end_time >= ?", now, now)
	}

	var quizzes []models.Quiz
	if err := query.Find(&quizzes).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to list quizzes"})
	}
	return c.JSON(quizzes)
}

// RedeemCode unlocks a quiz for the calling student. Redeeming the same
// code twice returns the original record; the unique index on
// (paper_code, student_id) settles concurrent first redemptions.
func RedeemCode(c *fiber.Ctx) error {
	paperCode := c.Params("paperCode")
	studentID := principalID(c)

	var quiz models.Quiz
	if err := database.DB.Where("paper_code = ?", paperCode).First(&quiz).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Quiz not found"})
	}

	var existing models.RedeemedCode
	err := database.DB.Where("paper_code = ? AND student_id = ?", paperCode, studentID).First(&existing).Error
	if err == nil {
		return c.JSON(existing)
	}

	redemption := models.RedeemedCode{
		QuizID:     quiz.ID,
		PaperCode:  paperCode,
		StudentID:  studentID,
		RedeemedAt: time.Now(),
	}
	if err := database.DB.Create(&redemption).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			// Lost the race against another redemption of the same code;
			// hand back the row that won.
			if err := database.DB.Where("paper_code = ? AND student_id = ?", paperCode, studentID).
				First(&existing).Error; err == nil {
				return c.JSON(existing)
			}
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to redeem code"})
	}

	return c.JSON(redemption)
}

type choiceForStudent struct {
	ID         string `json:"id"`
	ChoiceText string `json:"choice_text"`
}

type questionForStudent struct {
	ID           string             `json:"id"`
	QuestionText string             `json:"question_text"`
	QuestionType string             `json:"question_type"`
	Points       float64            `json:"points"`
	Choices      []choiceForStudent `json:"choices,omitempty"`
}

// TakeQuiz hands a redeemed quiz to a student for delivery: quiz metadata
// plus its questions with the answer key stripped out.
func TakeQuiz(c *fiber.Ctx) error {
	paperCode := c.Params("paperCode")
	studentID := principalID(c)

	var quiz models.Quiz
	if err := database.DB.Where("paper_code = ?", paperCode).First(&quiz).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Quiz not found"})
	}

	var redemption models.RedeemedCode
	if err := database.DB.Where("paper_code = ? AND student_id = ?", paperCode, studentID).
		First(&redemption).Error; err != nil {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "Paper code has not been redeemed"})
	}

	var questions []models.Question
	if err := database.DB.Preload("Choices", func(db *gorm.DB) *gorm.DB {
		return db.Order("created_at")
	}).Where("quiz_id = ?", quiz.ID).Order("created_at").Find(&questions).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to load questions"})
	}

	view := make([]questionForStudent, len(questions))
	for i, q := range questions {
		view[i] = questionForStudent{
			ID:           q.ID.String(),
			QuestionText: q.QuestionText,
			QuestionType: q.QuestionType,
			Points:       q.Points,
		}
		for _, ch := range q.Choices {
			view[i].Choices = append(view[i].Choices, choiceForStudent{
				ID:         ch.ID.String(),
				ChoiceText: ch.ChoiceText,
			})
		}
	}

	return c.JSON(fiber.Map{
		"quiz_id":       quiz.ID,
		"title":         quiz.Title,
		"description":   quiz.Description,
		"timer_minutes": quiz.TimerMinutes,
		"forward_only":  quiz.ForwardOnly,
		"questions":     view,
	})
}
