package handlers

import (
	"fmt"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/skillswaphq/skillswap/database"
	"github.com/skillswaphq/skillswap/models"
	"github.com/skillswaphq/skillswap/notifications"
	"github.com/skillswaphq/skillswap/services"
	"github.com/skillswaphq/skillswap/utils"
)

type CreateExchangeRequest struct {
	UserSkillID      string `json:"user_skill_id" validate:"required,uuid"`
	LearningGoals    string `json:"learning_goals" validate:"required"`
	Availability     string `json:"availability" validate:"required"`
	ProposedDuration int    `json:"proposed_duration" validate:"required"`
	Notes            string `json:"notes"`
}

type UpdateExchangeStatusRequest struct {
	Status string `json:"status" validate:"required"`
	Reason string `json:"reason"`
}

// ListExchanges returns the exchanges the requester participates in, as
// teacher or learner. Admins see everything. Filterable by status and role.
func ListExchanges(c *fiber.Ctx) error {
	userID := currentUserID(c)
	params := utils.ParsePageParams(c, utils.StandardPageSize, utils.StandardMaxPageSize)

	query := database.DB.Model(&models.SkillExchange{}).
		Joins("JOIN user_skills ON user_skills.id = skill_exchanges.user_skill_id")

	if !isAdmin(c) {
		switch c.Query("role") {
		case "teacher":
			query = query.Where("user_skills.user_id = ?", userID)
		case "learner":
			query = query.Where("skill_exchanges.learner_id = ?", userID)
		default:
			query = query.Where("(skill_exchanges.learner_id = ? OR user_skills.user_id = ?)", userID, userID)
		}
	}
	if status := c.Query("status"); status != "" {
		if !models.IsValidExchangeStatus(status) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid status."})
		}
		query = query.Where("skill_exchanges.status = ?", status)
	}

	var count int64
	if err := query.Count(&count).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to list exchanges"})
	}

	var exchanges []models.SkillExchange
	if err := query.Preload("UserSkill.Skill").Preload("UserSkill.User").Preload("Learner").
		Order("skill_exchanges.created_at desc").
		Offset(params.Offset()).Limit(params.PageSize).
		Find(&exchanges).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to list exchanges"})
	}

	return c.JSON(utils.PaginatedResponse(c, params, count, exchanges))
}

func CreateExchange(c *fiber.Ctx) error {
	learnerID := currentUserID(c)

	var req CreateExchangeRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	offerID, err := uuid.Parse(req.UserSkillID)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid user_skill_id"})
	}

	exchange, err := services.CreateExchange(database.DB, learnerID, services.CreateExchangeInput{
		UserSkillID:      offerID,
		LearningGoals:    req.LearningGoals,
		Availability:     req.Availability,
		ProposedDuration: req.ProposedDuration,
		Notes:            req.Notes,
	})
	if err != nil {
		return serviceError(c, err)
	}

	teacher := exchange.UserSkill.User
	go notifications.SendEmail(teacher.FullName, teacher.Email,
		"New skill exchange request",
		fmt.Sprintf("<p>Hi %s,</p><p>%s has requested to learn <strong>%s</strong> from you. Log in to review the request.</p>",
			teacher.FullName, exchange.Learner.FullName, exchange.UserSkill.Skill.Name))

	return c.Status(fiber.StatusCreated).JSON(exchange)
}

func GetExchange(c *fiber.Ctx) error {
	var exchange models.SkillExchange
	err := database.DB.Preload("UserSkill.Skill").Preload("UserSkill.User").Preload("Learner").
		First(&exchange, "id = ?", c.Params("exchangeId")).Error
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Exchange not found"})
	}

	if !exchange.IsParticipant(currentUserID(c)) && !isAdmin(c) {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "Only participants can view this exchange"})
	}
	return c.JSON(exchange)
}

// UpdateExchangeStatus applies a state transition and notifies the other
// participant.
func UpdateExchangeStatus(c *fiber.Ctx) error {
	actorID := currentUserID(c)

	exchangeID, err := uuid.Parse(c.Params("exchangeId"))
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Exchange not found"})
	}

	var req UpdateExchangeStatusRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	exchange, err := services.UpdateExchangeStatus(database.DB, actorID, exchangeID, req.Status, req.Reason)
	if err != nil {
		return serviceError(c, err)
	}

	notifyStatusChange(exchange, actorID)
	return c.JSON(exchange)
}

// notifyStatusChange emails whichever participant did not perform the change.
func notifyStatusChange(exchange *models.SkillExchange, actorID uuid.UUID) {
	recipient := exchange.UserSkill.User
	if recipient.ID == actorID {
		recipient = exchange.Learner
	}

	var subject, body string
	skillName := exchange.UserSkill.Skill.Name
	switch exchange.Status {
	case models.ExchangeAccepted:
		subject = "Your exchange request was accepted"
		body = fmt.Sprintf("<p>Hi %s,</p><p>Your request to learn <strong>%s</strong> has been accepted.</p>", recipient.FullName, skillName)
	case models.ExchangeInProgress:
		subject = "Your skill exchange has started"
		body = fmt.Sprintf("<p>Hi %s,</p><p>The exchange for <strong>%s</strong> is now in progress.</p>", recipient.FullName, skillName)
	case models.ExchangeCompleted:
		subject = "Your skill exchange is complete"
		body = fmt.Sprintf("<p>Hi %s,</p><p>The exchange for <strong>%s</strong> has been marked completed.</p>", recipient.FullName, skillName)
	case models.ExchangeCancelled:
		subject = "Your skill exchange was cancelled"
		body = fmt.Sprintf("<p>Hi %s,</p><p>The exchange for <strong>%s</strong> has been cancelled.</p>", recipient.FullName, skillName)
	default:
		return
	}

	go notifications.SendEmail(recipient.FullName, recipient.Email, subject, body)
}
