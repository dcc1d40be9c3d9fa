package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	FlagNoFace        = "no_face"
	FlagMultipleFaces = "multiple_faces"
	FlagTabSwitch     = "tab_switch"
)

// RedFlag records a proctoring event reported by the exam client. The
// backend stores these verbatim and never acts on them.
type RedFlag struct {
	ID           uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	SubmissionID uuid.UUID `gorm:"type:uuid;not null;index" json:"submission_id"`
	Timestamp    time.Time `gorm:"not null" json:"timestamp"`
	FlagType     string    `gorm:"size:50;not null" json:"flag_type"`

	Submission Submission `gorm:"foreignkey:SubmissionID" json:"-"`
}

func (r *RedFlag) BeforeCreate(tx *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return nil
}
