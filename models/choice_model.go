package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Choice struct {
	ID         uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	QuestionID uuid.UUID `gorm:"type:uuid;not null;index" json:"question_id"`
	ChoiceText string    `gorm:"type:text;not null" json:"choice_text"`
	IsCorrect  bool      `gorm:"not null;default:false" json:"is_correct"`

	Question Question `gorm:"foreignkey:QuestionID" json:"-"`

	CreatedAt time.Time `json:"created_at"`
}

func (c *Choice) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}
