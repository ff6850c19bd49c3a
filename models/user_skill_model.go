package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	ProficiencyBeginner     = "BEGINNER"
	ProficiencyIntermediate = "INTERMEDIATE"
	ProficiencyAdvanced     = "ADVANCED"
	ProficiencyExpert       = "EXPERT"
)

const (
	DurationHours  = "HOURS"
	DurationDays   = "DAYS"
	DurationWeeks  = "WEEKS"
	DurationMonths = "MONTHS"
)

// MaxEstimatedDuration caps estimated_duration per duration_type
// (72 hours, 90 days, 52 weeks, 12 months).
var MaxEstimatedDuration = map[string]int{
	DurationHours:  72,
	DurationDays:   90,
	DurationWeeks:  52,
	DurationMonths: 12,
}

// UserSkill is a user's offer to teach one catalog skill. A user may teach a
// given skill at most once.
type UserSkill struct {
	ID      uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	UserID  uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_user_skill" json:"user_id"`
	SkillID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_user_skill" json:"skill_id"`

	ProficiencyLevel  string `gorm:"size:20;not null;default:'INTERMEDIATE'" json:"proficiency_level"`
	YearsOfExperience int    `gorm:"not null" json:"years_of_experience"`
	Certifications    string `gorm:"type:text" json:"certifications"`
	PortfolioLinks    string `gorm:"type:text" json:"portfolio_links"`

	Prerequisites     string `gorm:"type:text" json:"prerequisites"`
	LearningOutcomes  string `gorm:"type:text" json:"learning_outcomes"`
	TeachingMethods   string `gorm:"type:text" json:"teaching_methods"`
	EstimatedDuration int    `gorm:"not null" json:"estimated_duration"`
	DurationType      string `gorm:"size:10;not null;default:'HOURS'" json:"duration_type"`

	IsActive           bool   `gorm:"default:true;index" json:"is_active"`
	MaxStudents        int    `gorm:"not null;default:1" json:"max_students"`
	AvailableTimeSlots string `gorm:"type:text" json:"available_time_slots"`

	User       User             `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Skill      Skill            `gorm:"foreignKey:SkillID" json:"skill,omitempty"`
	Milestones []SkillMilestone `gorm:"foreignKey:UserSkillID" json:"milestones,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (us *UserSkill) BeforeCreate(tx *gorm.DB) error {
	if us.ID == uuid.Nil {
		us.ID = uuid.New()
	}
	return nil
}
