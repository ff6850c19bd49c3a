package services

import (
	"errors"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/skillswaphq/skillswap/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// lockForUpdate takes a row lock so a capacity guard and its write commit as
// one unit. SQLite rejects FOR UPDATE syntax but serializes writing
// transactions on its own, so the clause is only added under Postgres.
func lockForUpdate(tx *gorm.DB) *gorm.DB {
	if tx.Dialector.Name() == "postgres" {
		return tx.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	return tx
}

type CreateExchangeInput struct {
	UserSkillID      uuid.UUID
	LearningGoals    string
	Availability     string
	ProposedDuration int
	Notes            string
}

// CreateExchange opens a PENDING request from learner against a teaching
// offer, enforcing the creation guards: active offer, not the learner's own,
// seats available, and no other open request by this learner on this offer.
func CreateExchange(db *gorm.DB, learnerID uuid.UUID, input CreateExchangeInput) (*models.SkillExchange, error) {
	if input.ProposedDuration < 1 {
		return nil, &ValidationError{Message: "Proposed duration must be at least one hour."}
	}
	if input.ProposedDuration > 1000 {
		return nil, &ValidationError{Message: "Proposed duration seems unreasonably long."}
	}
	availability := strings.TrimSpace(input.Availability)
	if utf8.RuneCountInString(availability) < 10 {
		return nil, &ValidationError{Message: "Please provide more detailed availability information."}
	}

	var exchange models.SkillExchange
	err := db.Transaction(func(tx *gorm.DB) error {
		var offer models.UserSkill
		if err := lockForUpdate(tx).First(&offer, "id = ?", input.UserSkillID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return &NotFoundError{Message: "Teaching skill not found."}
			}
			return err
		}

		if !offer.IsActive {
			return &ValidationError{Message: "This skill is not currently available for teaching."}
		}
		if offer.UserID == learnerID {
			return &ValidationError{Message: "You cannot request to learn your own teaching skill."}
		}

		var activeCount int64
		if err := tx.Model(&models.SkillExchange{}).
			Where("user_skill_id = ? AND status IN ?", offer.ID, models.CapacityStatuses).
			Count(&activeCount).Error; err != nil {
			return err
		}
		if activeCount >= int64(offer.MaxStudents) {
			return &ValidationError{Message: "This teacher has reached their maximum number of students."}
		}

		var openCount int64
		if err := tx.Model(&models.SkillExchange{}).
			Where("user_skill_id = ? AND learner_id = ? AND status IN ?",
				offer.ID, learnerID, models.ActiveExchangeStatuses).
			Count(&openCount).Error; err != nil {
			return err
		}
		if openCount > 0 {
			return &ValidationError{Message: "You already have an active request for this skill."}
		}

		exchange = models.SkillExchange{
			UserSkillID:      offer.ID,
			LearnerID:        learnerID,
			Status:           models.ExchangePending,
			LearningGoals:    input.LearningGoals,
			Availability:     availability,
			ProposedDuration: input.ProposedDuration,
			Notes:            input.Notes,
		}
		return tx.Create(&exchange).Error
	})
	if err != nil {
		return nil, err
	}

	if err := db.Preload("UserSkill.Skill").Preload("UserSkill.User").Preload("Learner").
		First(&exchange, "id = ?", exchange.ID).Error; err != nil {
		return nil, err
	}
	return &exchange, nil
}

// transitionError is the rejection for an edge models.ExchangeTransitions does
// not allow, worded for the attempted target.
func transitionError(target string) error {
	switch target {
	case models.ExchangeAccepted:
		return &ValidationError{Message: "Only pending requests can be accepted."}
	case models.ExchangeInProgress:
		return &ValidationError{Message: "Only accepted exchanges can be started."}
	case models.ExchangeCompleted:
		return &ValidationError{Message: "Only in-progress exchanges can be completed."}
	case models.ExchangeCancelled:
		return &ValidationError{Message: "Only pending or accepted exchanges can be cancelled."}
	}
	return &ValidationError{Message: "Invalid status."}
}

// UpdateExchangeStatus drives the state machine:
//
//	PENDING -> ACCEPTED (teacher only, seats re-checked)
//	ACCEPTED -> IN_PROGRESS (either participant)
//	IN_PROGRESS -> COMPLETED (either participant)
//	PENDING/ACCEPTED -> CANCELLED (either participant, reason required)
//
// COMPLETED and CANCELLED are terminal. The edges come from
// models.ExchangeTransitions; this function adds the actor guards on top. The
// guard and the status write run in one transaction; accepting locks the offer
// row so two accepts cannot both take the last seat.
func UpdateExchangeStatus(db *gorm.DB, actorID uuid.UUID, exchangeID uuid.UUID, newStatus, reason string) (*models.SkillExchange, error) {
	if !models.IsValidExchangeStatus(newStatus) || newStatus == models.ExchangePending {
		return nil, &ValidationError{Message: "Invalid status."}
	}

	var exchange models.SkillExchange
	err := db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Preload("UserSkill").First(&exchange, "id = ?", exchangeID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return &NotFoundError{Message: "Exchange not found."}
			}
			return err
		}

		if !models.CanTransition(exchange.Status, newStatus) {
			return transitionError(newStatus)
		}

		switch newStatus {
		case models.ExchangeAccepted:
			if exchange.UserSkill.UserID != actorID {
				return &PermissionError{Message: "Only the teacher can accept this request."}
			}

			// Re-check capacity under a lock on the offer row: concurrent
			// pending requests can outnumber seats, and the last accept past
			// capacity must lose.
			var offer models.UserSkill
			if err := lockForUpdate(tx).First(&offer, "id = ?", exchange.UserSkillID).Error; err != nil {
				return err
			}
			var activeCount int64
			if err := tx.Model(&models.SkillExchange{}).
				Where("user_skill_id = ? AND status IN ?", offer.ID, models.CapacityStatuses).
				Count(&activeCount).Error; err != nil {
				return err
			}
			if activeCount >= int64(offer.MaxStudents) {
				return &ConflictError{Message: "Maximum student limit reached."}
			}

		case models.ExchangeCancelled:
			if !exchange.IsParticipant(actorID) {
				return &PermissionError{Message: "Only participants can cancel this exchange."}
			}
			trimmed := strings.TrimSpace(reason)
			if utf8.RuneCountInString(trimmed) < 10 {
				return &ValidationError{Message: "A cancellation reason of at least 10 characters is required."}
			}
			exchange.CancelReason = &trimmed

		case models.ExchangeInProgress:
			if !exchange.IsParticipant(actorID) {
				return &PermissionError{Message: "Only participants can start this exchange."}
			}

		case models.ExchangeCompleted:
			if !exchange.IsParticipant(actorID) {
				return &PermissionError{Message: "Only participants can complete this exchange."}
			}
		}

		exchange.Status = newStatus
		return tx.Save(&exchange).Error
	})
	if err != nil {
		return nil, err
	}

	if err := db.Preload("UserSkill.Skill").Preload("UserSkill.User").Preload("Learner").
		First(&exchange, "id = ?", exchange.ID).Error; err != nil {
		return nil, err
	}
	return &exchange, nil
}
