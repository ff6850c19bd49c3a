package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// SkillCategory groups skills for discovery (Programming, Music, Languages...).
type SkillCategory struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Name        string    `gorm:"size:100;not null;unique" json:"name"`
	Description string    `gorm:"type:text" json:"description"`
	Icon        string    `gorm:"size:50" json:"icon"`
	IsActive    bool      `gorm:"default:true" json:"is_active"`

	Skills []Skill `gorm:"foreignKey:CategoryID" json:"-"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (sc *SkillCategory) BeforeCreate(tx *gorm.DB) error {
	if sc.ID == uuid.Nil {
		sc.ID = uuid.New()
	}
	return nil
}
