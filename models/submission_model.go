package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Submission struct {
	ID          uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	QuizID      uuid.UUID `gorm:"type:uuid;not null;index" json:"quiz_id"`
	StudentID   uuid.UUID `gorm:"type:uuid;not null;index" json:"student_id"`
	SubmittedAt time.Time `gorm:"not null" json:"submitted_at"`
	Score       float64   `gorm:"not null" json:"score"`

	Quiz     Quiz      `gorm:"foreignkey:QuizID" json:"-"`
	Student  User      `gorm:"foreignkey:StudentID" json:"-"`
	Answers  []Answer  `gorm:"foreignKey:SubmissionID" json:"answers,omitempty"`
	RedFlags []RedFlag `gorm:"foreignKey:SubmissionID" json:"red_flags,omitempty"`
}

func (s *Submission) BeforeCreate(tx *gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return nil
}
