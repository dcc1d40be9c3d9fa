package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Certificate struct {
	ID             uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	StudentID      uuid.UUID `gorm:"type:uuid;not null;index" json:"student_id"`
	QuizID         uuid.UUID `gorm:"type:uuid;not null" json:"quiz_id"`
	CourseTitle    string    `gorm:"size:255;not null" json:"course_title"`
	CertificateURL string    `gorm:"size:512;not null" json:"certificate_url"`
	IssuedAt       time.Time `gorm:"not null" json:"issued_at"`

	Student User `gorm:"foreignkey:StudentID" json:"-"`
	Quiz    Quiz `gorm:"foreignkey:QuizID" json:"-"`
}

func (c *Certificate) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}
