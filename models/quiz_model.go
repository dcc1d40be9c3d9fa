package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Quiz struct {
	ID           uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	Title        string    `gorm:"size:255;not null" json:"title"`
	Description  string    `gorm:"type:text" json:"description"`
	CreatedBy    uuid.UUID `gorm:"type:uuid;not null;index" json:"created_by"`
	PaperCode    string    `gorm:"size:20;not null;unique" json:"paper_code"`
	StartTime    time.Time `gorm:"not null" json:"start_time"`
	EndTime      time.Time `gorm:"not null" json:"end_time"`
	TimerMinutes int       `gorm:"not null;default:0" json:"timer_minutes"`
	ForwardOnly  bool      `gorm:"not null;default:false" json:"forward_only"`

	Creator     User           `gorm:"foreignkey:CreatedBy" json:"-"`
	Questions   []Question     `gorm:"foreignKey:QuizID" json:"questions,omitempty"`
	Submissions []Submission   `gorm:"foreignKey:QuizID" json:"-"`
	Redemptions []RedeemedCode `gorm:"foreignKey:QuizID" json:"-"`
	Results     []QuizResult   `gorm:"foreignKey:QuizID" json:"-"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (q *Quiz) BeforeCreate(tx *gorm.DB) error {
	if q.ID == uuid.Nil {
		q.ID = uuid.New()
	}
	return nil
}
