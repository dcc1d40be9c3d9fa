package models

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Answer struct {
	ID           uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	SubmissionID uuid.UUID `gorm:"type:uuid;not null;index" json:"submission_id"`
	QuestionID   uuid.UUID `gorm:"type:uuid;not null;index" json:"question_id"`
	AnswerText   string    `gorm:"type:text" json:"answer_text"`

	Submission Submission `gorm:"foreignkey:SubmissionID" json:"-"`
	Question   Question   `gorm:"foreignkey:QuestionID" json:"-"`
}

func (a *Answer) BeforeCreate(tx *gorm.DB) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	return nil
}
