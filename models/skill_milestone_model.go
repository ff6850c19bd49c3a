package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// SkillMilestone is a checkpoint in the learning path of a teaching offer.
// Order is unique within the offer.
type SkillMilestone struct {
	ID             uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	UserSkillID    uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_milestone_order" json:"user_skill_id"`
	Title          string    `gorm:"size:200;not null" json:"title"`
	Description    string    `gorm:"type:text" json:"description"`
	Order          int       `gorm:"column:sort_order;not null;uniqueIndex:idx_milestone_order" json:"order"`
	EstimatedHours int       `gorm:"not null" json:"estimated_hours"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (m *SkillMilestone) BeforeCreate(tx *gorm.DB) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	return nil
}
