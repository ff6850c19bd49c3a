package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	ExchangePending    = "PENDING"
	ExchangeAccepted   = "ACCEPTED"
	ExchangeInProgress = "IN_PROGRESS"
	ExchangeCompleted  = "COMPLETED"
	ExchangeCancelled  = "CANCELLED"
)

// ActiveExchangeStatuses are the states in which a learner counts as having an
// open request against an offer.
var ActiveExchangeStatuses = []string{ExchangePending, ExchangeAccepted, ExchangeInProgress}

// CapacityStatuses are the states that consume a seat against max_students.
var CapacityStatuses = []string{ExchangeAccepted, ExchangeInProgress}

// ExchangeTransitions is the closed transition table. A target status missing
// from the map, or a current status missing from the target's allowed set, is
// an invalid transition. COMPLETED and CANCELLED have no outgoing edges.
var ExchangeTransitions = map[string][]string{
	ExchangeAccepted:   {ExchangePending},
	ExchangeInProgress: {ExchangeAccepted},
	ExchangeCompleted:  {ExchangeInProgress},
	ExchangeCancelled:  {ExchangePending, ExchangeAccepted},
}

// CanTransition reports whether an exchange in status from may move to to,
// per ExchangeTransitions.
func CanTransition(from, to string) bool {
	for _, allowed := range ExchangeTransitions[to] {
		if allowed == from {
			return true
		}
	}
	return false
}

func IsValidExchangeStatus(status string) bool {
	switch status {
	case ExchangePending, ExchangeAccepted, ExchangeInProgress, ExchangeCompleted, ExchangeCancelled:
		return true
	}
	return false
}

// SkillExchange records the agreement between a learner and a teaching offer.
type SkillExchange struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	UserSkillID uuid.UUID `gorm:"type:uuid;not null;index:idx_exchange_offer_status" json:"user_skill_id"`
	LearnerID   uuid.UUID `gorm:"type:uuid;not null;index" json:"learner_id"`
	Status      string    `gorm:"size:20;not null;default:'PENDING';index:idx_exchange_offer_status" json:"status"`

	LearningGoals    string  `gorm:"type:text" json:"learning_goals"`
	Availability     string  `gorm:"type:text" json:"availability"`
	ProposedDuration int     `gorm:"not null" json:"proposed_duration"`
	Notes            string  `gorm:"type:text" json:"notes"`
	CancelReason     *string `gorm:"type:text" json:"cancel_reason,omitempty"`

	UserSkill UserSkill `gorm:"foreignKey:UserSkillID" json:"user_skill,omitempty"`
	Learner   User      `gorm:"foreignKey:LearnerID" json:"learner,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (e *SkillExchange) BeforeCreate(tx *gorm.DB) error {
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	return nil
}

// IsTerminal reports whether the exchange can never change status again.
func (e *SkillExchange) IsTerminal() bool {
	return e.Status == ExchangeCompleted || e.Status == ExchangeCancelled
}

// IsParticipant reports whether userID is the teacher or the learner. The
// UserSkill association must be loaded.
func (e *SkillExchange) IsParticipant(userID uuid.UUID) bool {
	return e.LearnerID == userID || e.UserSkill.UserID == userID
}
