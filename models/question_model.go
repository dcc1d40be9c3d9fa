package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	QuestionTypeMCQ            = "mcq"
	QuestionTypeIdentification = "identification"
)

type Question struct {
	ID           uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	QuizID       uuid.UUID `gorm:"type:uuid;not null;index" json:"quiz_id"`
	QuestionText string    `gorm:"type:text;not null" json:"question_text"`
	QuestionType string    `gorm:"size:50;not null;default:'mcq'" json:"question_type"`

	// For mcq this is the zero-based index of the correct option, as a
	// string; for identification it is the expected answer text.
	CorrectAnswer string  `gorm:"type:text;not null" json:"correct_answer"`
	CaseSensitive bool    `gorm:"not null;default:false" json:"case_sensitive"`
	Points        float64 `gorm:"not null;default:1.0" json:"points"`

	Quiz    Quiz     `gorm:"foreignkey:QuizID" json:"-"`
	Choices []Choice `gorm:"foreignKey:QuestionID" json:"choices,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (q *Question) BeforeCreate(tx *gorm.DB) error {
	if q.ID == uuid.Nil {
		q.ID = uuid.New()
	}
	return nil
}
