package services

import (
	"errors"
	"math"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/skillswaphq/skillswap/models"
	"gorm.io/gorm"
)

type CreateFeedbackInput struct {
	ExchangeID    uuid.UUID
	Rating        *float64
	Comment       string
	IsRecommended *bool
}

type UpdateFeedbackInput struct {
	Rating        *float64
	Comment       *string
	IsRecommended *bool
}

func validateRating(rating float64) error {
	if rating < 0 || rating > 5 {
		return &ValidationError{Message: "Rating must be between 0 and 5."}
	}
	if rating*2 != math.Trunc(rating*2) {
		return &ValidationError{Message: "Rating must be in half-point increments (e.g. 3.5, 4.0)."}
	}
	return nil
}

func validateComment(comment string) error {
	// Length limits count characters, not bytes.
	if utf8.RuneCountInString(strings.TrimSpace(comment)) < 20 {
		return &ValidationError{Message: "Comment must be at least 20 characters long."}
	}
	if utf8.RuneCountInString(comment) > 2000 {
		return &ValidationError{Message: "Comment cannot exceed 2000 characters."}
	}
	if strings.Count(strings.ToLower(comment), "http") > 2 {
		return &ValidationError{Message: "Comment contains too many URLs. Please keep it concise and relevant."}
	}
	if strings.Contains(comment, "<") && strings.Contains(comment, ">") {
		return &ValidationError{Message: "Comment cannot contain HTML tags."}
	}
	return nil
}

// CreateFeedback records the learner's one-time feedback on a completed
// exchange. Guard chain: exchange exists, requester is its learner, status is
// COMPLETED, and no feedback exists for it yet.
func CreateFeedback(db *gorm.DB, studentID uuid.UUID, input CreateFeedbackInput) (*models.SkillFeedback, error) {
	if input.Rating != nil {
		if err := validateRating(*input.Rating); err != nil {
			return nil, err
		}
	}
	if err := validateComment(input.Comment); err != nil {
		return nil, err
	}

	var feedback models.SkillFeedback
	err := db.Transaction(func(tx *gorm.DB) error {
		var exchange models.SkillExchange
		if err := tx.First(&exchange, "id = ?", input.ExchangeID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return &NotFoundError{Message: "Exchange not found."}
			}
			return err
		}

		if exchange.LearnerID != studentID {
			return &PermissionError{Message: "Only the learner can leave feedback on this exchange."}
		}
		if exchange.Status != models.ExchangeCompleted {
			return &ValidationError{Message: "Feedback can only be left on completed exchanges."}
		}

		var existing int64
		if err := tx.Model(&models.SkillFeedback{}).
			Where("exchange_id = ?", exchange.ID).Count(&existing).Error; err != nil {
			return err
		}
		if existing > 0 {
			return &ValidationError{Message: "Feedback for this exchange has already been submitted."}
		}

		recommended := true
		if input.IsRecommended != nil {
			recommended = *input.IsRecommended
		}

		feedback = models.SkillFeedback{
			ExchangeID:    exchange.ID,
			StudentID:     studentID,
			Rating:        input.Rating,
			Comment:       strings.TrimSpace(input.Comment),
			IsRecommended: recommended,
		}
		return tx.Create(&feedback).Error
	})
	if err != nil {
		return nil, err
	}
	return &feedback, nil
}

// UpdateFeedback lets the owning learner revise their feedback. Rating and
// recommendation only change within the 72-hour window after creation; the
// comment can be rewritten at any time, through the same validators.
func UpdateFeedback(db *gorm.DB, studentID uuid.UUID, feedbackID uuid.UUID, input UpdateFeedbackInput) (*models.SkillFeedback, error) {
	var feedback models.SkillFeedback
	if err := db.First(&feedback, "id = ?", feedbackID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &NotFoundError{Message: "Feedback not found."}
		}
		return nil, err
	}

	if feedback.StudentID != studentID {
		return nil, &PermissionError{Message: "You can only edit your own feedback."}
	}

	ratingChanged := input.Rating != nil &&
		(feedback.Rating == nil || *input.Rating != *feedback.Rating)
	recommendChanged := input.IsRecommended != nil && *input.IsRecommended != feedback.IsRecommended
	if (ratingChanged || recommendChanged) && !feedback.IsWithinUpdateWindow() {
		return nil, &ValidationError{Message: "The update window for rating and recommendation has closed."}
	}

	if input.Rating != nil {
		if err := validateRating(*input.Rating); err != nil {
			return nil, err
		}
		feedback.Rating = input.Rating
	}
	if input.Comment != nil {
		if err := validateComment(*input.Comment); err != nil {
			return nil, err
		}
		feedback.Comment = strings.TrimSpace(*input.Comment)
	}
	if input.IsRecommended != nil {
		feedback.IsRecommended = *input.IsRecommended
	}

	if err := db.Save(&feedback).Error; err != nil {
		return nil, err
	}
	return &feedback, nil
}
