package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// QuizResult holds the persisted outcome of one quiz submission. The
// composite unique index on (user_id, quiz_id) is what guarantees
// at-most-one result per student per quiz; a second insert fails at the
// storage layer rather than racing an application-level check.
type QuizResult struct {
	ID          uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	UserID      uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_result_user_quiz" json:"user_id"`
	QuizID      uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_result_user_quiz" json:"quiz_id"`
	Score       float64   `gorm:"not null" json:"score"`
	Total       float64   `gorm:"not null" json:"total"`
	SubmittedAt time.Time `gorm:"not null" json:"submitted_at"`

	User User `gorm:"foreignkey:UserID" json:"-"`
	Quiz Quiz `gorm:"foreignkey:QuizID" json:"-"`
}

func (r *QuizResult) BeforeCreate(tx *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return nil
}
