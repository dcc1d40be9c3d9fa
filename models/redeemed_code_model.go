package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// RedeemedCode records that a student unlocked a quiz with its paper code.
// The composite unique index makes repeat redemptions collapse onto the
// first row.
type RedeemedCode struct {
	ID         uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	QuizID     uuid.UUID `gorm:"type:uuid;not null;index" json:"quiz_id"`
	PaperCode  string    `gorm:"size:20;not null;uniqueIndex:idx_redemption_code_student" json:"paper_code"`
	StudentID  uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_redemption_code_student" json:"student_id"`
	RedeemedAt time.Time `gorm:"not null" json:"redeemed_at"`

	Quiz    Quiz `gorm:"foreignkey:QuizID" json:"-"`
	Student User `gorm:"foreignkey:StudentID" json:"-"`
}

func (r *RedeemedCode) BeforeCreate(tx *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return nil
}
