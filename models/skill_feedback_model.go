package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// FeedbackUpdateWindow is how long after creation the rating and
// recommendation stay editable. The comment can be edited at any time.
const FeedbackUpdateWindow = 72 * time.Hour

// SkillFeedback is the one-time rating a learner leaves on a completed
// exchange. Rating is optional; when present it is 0-5 in half-point steps.
type SkillFeedback struct {
	ID            uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	ExchangeID    uuid.UUID `gorm:"type:uuid;not null;unique" json:"exchange_id"`
	StudentID     uuid.UUID `gorm:"type:uuid;not null;index" json:"student_id"`
	Rating        *float64  `gorm:"type:numeric(3,2)" json:"rating"`
	Comment       string    `gorm:"type:text;not null" json:"comment"`
	IsRecommended bool      `gorm:"default:true" json:"is_recommended"`

	Exchange SkillExchange `gorm:"foreignKey:ExchangeID" json:"exchange,omitempty"`
	Student  User          `gorm:"foreignKey:StudentID" json:"student,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (f *SkillFeedback) BeforeCreate(tx *gorm.DB) error {
	if f.ID == uuid.Nil {
		f.ID = uuid.New()
	}
	return nil
}

// IsWithinUpdateWindow reports whether rating/is_recommended may still change.
func (f *SkillFeedback) IsWithinUpdateWindow() bool {
	return time.Since(f.CreatedAt) <= FeedbackUpdateWindow
}
