package handlers

import (
	"strconv"

	"github.com/quizsecure/quizsecure/database"
	"github.com/quizsecure/quizsecure/models"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type QuestionRequest struct {
	QuestionText  string   `json:"question_text" validate:"required"`
	QuestionType  string   `json:"question_type" validate:"required,oneof=mcq identification"`
	Options       []string `json:"options"`
	CorrectAnswer string   `json:"correct_answer" validate:"required"`
	CaseSensitive bool     `json:"case_sensitive"`
	Points        float64  `json:"points" validate:"gte=0"`
}

type ChoiceView struct {
	ID         uuid.UUID `json:"id"`
	ChoiceText string    `json:"choice_text"`
	IsCorrect  bool      `json:"is_correct"`
}

type QuestionView struct {
	ID            uuid.UUID    `json:"id"`
	QuestionText  string       `json:"question_text"`
	QuestionType  string       `json:"question_type"`
	CorrectAnswer string       `json:"correct_answer"`
	CaseSensitive bool         `json:"case_sensitive"`
	Points        float64      `json:"points"`
	Options       []ChoiceView `json:"options,omitempty"`
}

// findQuizForCreator resolves a quiz by paper code and checks that the
// caller authored it. Every question mutation goes through this gate.
func findQuizForCreator(paperCode string, creatorID uuid.UUID) (models.Quiz, *fiber.Error) {
	var quiz models.Quiz
	if err := database.DB.Where("paper_code = ?", paperCode).First(&quiz).Error; err != nil {
		return quiz, fiber.NewError(fiber.StatusNotFound, "Quiz not found")
	}
	if quiz.CreatedBy != creatorID {
		return quiz, fiber.NewError(fiber.StatusForbidden, "Only the quiz creator may manage its questions")
	}
	return quiz, nil
}

// mcqCorrectIndex validates a multiple-choice spec: at least two options
// and a correct_answer that indexes one of them.
func mcqCorrectIndex(req QuestionRequest) (int, *fiber.Error) {
	if len(req.Options) < 2 {
		return 0, fiber.NewError(fiber.StatusBadRequest, "Multiple-choice questions need at least two options")
	}
	idx, err := strconv.Atoi(req.CorrectAnswer)
	if err != nil || idx < 0 || idx >= len(req.Options) {
		return 0, fiber.NewError(fiber.StatusBadRequest, "correct_answer must be the index of one of the options")
	}
	return idx, nil
}

func CreateQuestion(c *fiber.Ctx) error {
	var req QuestionRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	quiz, ferr := findQuizForCreator(c.Params("paperCode"), principalID(c))
	if ferr != nil {
		return c.Status(ferr.Code).JSON(fiber.Map{"error": ferr.Message})
	}

	correctIdx := -1
	if req.QuestionType == models.QuestionTypeMCQ {
		var verr *fiber.Error
		if correctIdx, verr = mcqCorrectIndex(req); verr != nil {
			return c.Status(verr.Code).JSON(fiber.Map{"error": verr.Message})
		}
	}

	points := req.Points
	if points == 0 {
		points = 1.0
	}

	question := models.Question{
		QuizID:        quiz.ID,
		QuestionText:  req.QuestionText,
		QuestionType:  req.QuestionType,
		CorrectAnswer: req.CorrectAnswer,
		CaseSensitive: req.CaseSensitive,
		Points:        points,
	}

	// Question and choices land together or not at all; a failed choice
	// insert must not leave an orphaned question behind.
	err := database.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&question).Error; err != nil {
			return err
		}
		if question.QuestionType != models.QuestionTypeMCQ {
			return nil
		}
		for i, option := range req.Options {
			choice := models.Choice{
				QuestionID: question.ID,
				ChoiceText: option,
				IsCorrect:  i == correctIdx,
			}
			if err := tx.Create(&choice).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to create question"})
	}

	return c.JSON(fiber.Map{"question_id": question.ID, "message": "Question created successfully"})
}

func ListQuestions(c *fiber.Ctx) error {
	quiz, ferr := findQuizForCreator(c.Params("paperCode"), principalID(c))
	if ferr != nil {
		return c.Status(ferr.Code).JSON(fiber.Map{"error": ferr.Message})
	}

	var questions []models.Question
	err := database.DB.Preload("Choices", func(db *gorm.DB) *gorm.DB {
		return db.Order("created_at")
	}).Where("quiz_id = ?", quiz.ID).Order("created_at").Find(&questions).Error
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to list questions"})
	}

	views := make([]QuestionView, len(questions))
	for i, q := range questions {
		views[i] = QuestionView{
			ID:            q.ID,
			QuestionText:  q.QuestionText,
			QuestionType:  q.QuestionType,
			CorrectAnswer: q.CorrectAnswer,
			CaseSensitive: q.CaseSensitive,
			Points:        q.Points,
		}
		for _, ch := range q.Choices {
			views[i].Options = append(views[i].Options, ChoiceView{
				ID:         ch.ID,
				ChoiceText: ch.ChoiceText,
				IsCorrect:  ch.IsCorrect,
			})
		}
	}

	return c.JSON(views)
}

func UpdateQuestion(c *fiber.Ctx) error {
	var req QuestionRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	quiz, ferr := findQuizForCreator(c.Params("paperCode"), principalID(c))
	if ferr != nil {
		return c.Status(ferr.Code).JSON(fiber.Map{"error": ferr.Message})
	}

	var question models.Question
	if err := database.DB.Where("id = ? AND quiz_id = ?", c.Params("questionId"), quiz.ID).
		First(&question).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Question not found"})
	}

	correctIdx := -1
	if req.QuestionType == models.QuestionTypeMCQ {
		var verr *fiber.Error
		if correctIdx, verr = mcqCorrectIndex(req); verr != nil {
			return c.Status(verr.Code).JSON(fiber.Map{"error": verr.Message})
		}
	}

	points := req.Points
	if points == 0 {
		points = 1.0
	}

	question.QuestionText = req.QuestionText
	question.QuestionType = req.QuestionType
	question.CorrectAnswer = req.CorrectAnswer
	question.CaseSensitive = req.CaseSensitive
	question.Points = points

	// Updating is a full replace of the choice set, not a diff: drop
	// every prior choice and recreate from the new option list.
	err := database.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(&question).Error; err != nil {
			return err
		}
		if err := tx.Where("question_id = ?", question.ID).Delete(&models.Choice{}).Error; err != nil {
			return err
		}
		if question.QuestionType != models.QuestionTypeMCQ {
			return nil
		}
		for i, option := range req.Options {
			choice := models.Choice{
				QuestionID: question.ID,
				ChoiceText: option,
				IsCorrect:  i == correctIdx,
			}
			if err := tx.Create(&choice).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to update question"})
	}

	return c.JSON(fiber.Map{"message": "Question updated successfully"})
}

func DeleteQuestion(c *fiber.Ctx) error {
	quiz, ferr := findQuizForCreator(c.Params("paperCode"), principalID(c))
	if ferr != nil {
		return c.Status(ferr.Code).JSON(fiber.Map{"error": ferr.Message})
	}

	var question models.Question
	if err := database.DB.Where("id = ? AND quiz_id = ?", c.Params("questionId"), quiz.ID).
		First(&question).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Question not found"})
	}

	// Answers reference the question from outside its cascade graph, so
	// they are removed explicitly inside the same transaction.
	err := database.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("question_id = ?", question.ID).Delete(&models.Answer{}).Error; err != nil {
			return err
		}
		if err := tx.Where("question_id = ?", question.ID).Delete(&models.Choice{}).Error; err != nil {
			return err
		}
		return tx.Delete(&question).Error
	})
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to delete question"})
	}

	return c.JSON(fiber.Map{"message": "Question deleted successfully"})
}
