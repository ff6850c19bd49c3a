package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/skillswaphq/skillswap/database"
	"github.com/skillswaphq/skillswap/models"
	"github.com/skillswaphq/skillswap/services"
	"github.com/skillswaphq/skillswap/utils"
)

type CreateFeedbackRequest struct {
	ExchangeID    string   `json:"exchange_id" validate:"required,uuid"`
	Rating        *float64 `json:"rating"`
	Comment       string   `json:"comment" validate:"required"`
	IsRecommended *bool    `json:"is_recommended"`
}

type UpdateFeedbackRequest struct {
	Rating        *float64 `json:"rating"`
	Comment       *string  `json:"comment"`
	IsRecommended *bool    `json:"is_recommended"`
}

type FeedbackResponse struct {
	models.SkillFeedback
	IsWithinUpdateWindow bool `json:"is_within_update_window"`
}

func feedbackResponse(f *models.SkillFeedback) FeedbackResponse {
	return FeedbackResponse{SkillFeedback: *f, IsWithinUpdateWindow: f.IsWithinUpdateWindow()}
}

func CreateFeedback(c *fiber.Ctx) error {
	studentID := currentUserID(c)

	var req CreateFeedbackRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	exchangeID, err := uuid.Parse(req.ExchangeID)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid exchange_id"})
	}

	feedback, err := services.CreateFeedback(database.DB, studentID, services.CreateFeedbackInput{
		ExchangeID:    exchangeID,
		Rating:        req.Rating,
		Comment:       req.Comment,
		IsRecommended: req.IsRecommended,
	})
	if err != nil {
		return serviceError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(feedbackResponse(feedback))
}

func GetFeedback(c *fiber.Ctx) error {
	var feedback models.SkillFeedback
	err := database.DB.Preload("Student").Preload("Exchange").
		First(&feedback, "id = ?", c.Params("feedbackId")).Error
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Feedback not found"})
	}
	return c.JSON(feedbackResponse(&feedback))
}

func UpdateFeedback(c *fiber.Ctx) error {
	studentID := currentUserID(c)

	feedbackID, err := uuid.Parse(c.Params("feedbackId"))
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Feedback not found"})
	}

	var req UpdateFeedbackRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}

	feedback, err := services.UpdateFeedback(database.DB, studentID, feedbackID, services.UpdateFeedbackInput{
		Rating:        req.Rating,
		Comment:       req.Comment,
		IsRecommended: req.IsRecommended,
	})
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(feedbackResponse(feedback))
}

// ListUserSkillFeedback pages through the feedback left on one teaching
// offer, newest first.
func ListUserSkillFeedback(c *fiber.Ctx) error {
	var offer models.UserSkill
	if err := database.DB.First(&offer, "id = ?", c.Params("userSkillId")).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Teaching skill not found"})
	}

	params := utils.ParsePageParams(c, utils.StandardPageSize, utils.StandardMaxPageSize)

	query := database.DB.Model(&models.SkillFeedback{}).
		Joins("JOIN skill_exchanges ON skill_exchanges.id = skill_feedbacks.exchange_id").
		Where("skill_exchanges.user_skill_id = ?", offer.ID)

	var count int64
	if err := query.Count(&count).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to list feedback"})
	}

	var feedbacks []models.SkillFeedback
	if err := query.Preload("Student").
		Order("skill_feedbacks.created_at desc").
		Offset(params.Offset()).Limit(params.PageSize).
		Find(&feedbacks).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to list feedback"})
	}

	results := make([]FeedbackResponse, len(feedbacks))
	for i := range feedbacks {
		results[i] = feedbackResponse(&feedbacks[i])
	}
	return c.JSON(utils.PaginatedResponse(c, params, count, results))
}

func AdminDeleteFeedback(c *fiber.Ctx) error {
	result := database.DB.Where("id = ?", c.Params("feedbackId")).Delete(&models.SkillFeedback{})
	if result.Error != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to delete feedback"})
	}
	if result.RowsAffected == 0 {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Feedback not found"})
	}
	return c.SendStatus(fiber.StatusNoContent)
}
