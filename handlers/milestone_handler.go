package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/skillswaphq/skillswap/database"
	"github.com/skillswaphq/skillswap/models"
	"gorm.io/gorm"
)

type MilestoneRequest struct {
	Title          string `json:"title" validate:"required,max=200"`
	Description    string `json:"description" validate:"required"`
	Order          int    `json:"order" validate:"required,min=1"`
	EstimatedHours int    `json:"estimated_hours" validate:"required,min=1"`
}

type ReorderMilestonesRequest struct {
	Orders []struct {
		ID    string `json:"id" validate:"required,uuid"`
		Order int    `json:"order" validate:"required,min=1"`
	} `json:"orders" validate:"required,dive"`
}

// loadOwnedUserSkill fetches the offer and enforces ownership for milestone
// management.
func loadOwnedUserSkill(c *fiber.Ctx) (*models.UserSkill, error) {
	var offer models.UserSkill
	if err := database.DB.First(&offer, "id = ?", c.Params("userSkillId")).Error; err != nil {
		return nil, c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Teaching skill not found"})
	}
	if offer.UserID != currentUserID(c) && !isAdmin(c) {
		return nil, c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "You can only manage milestones on your own teaching skills"})
	}
	return &offer, nil
}

func AddMilestone(c *fiber.Ctx) error {
	offer, errResp := loadOwnedUserSkill(c)
	if offer == nil {
		return errResp
	}

	var req MilestoneRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	var clash int64
	if err := database.DB.Model(&models.SkillMilestone{}).
		Where("user_skill_id = ? AND sort_order = ?", offer.ID, req.Order).
		Count(&clash).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to add milestone"})
	}
	if clash > 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "A milestone with this order number already exists."})
	}

	milestone := models.SkillMilestone{
		UserSkillID:    offer.ID,
		Title:          req.Title,
		Description:    req.Description,
		Order:          req.Order,
		EstimatedHours: req.EstimatedHours,
	}
	if err := database.DB.Create(&milestone).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to add milestone"})
	}
	return c.Status(fiber.StatusCreated).JSON(milestone)
}

func UpdateMilestone(c *fiber.Ctx) error {
	offer, errResp := loadOwnedUserSkill(c)
	if offer == nil {
		return errResp
	}

	var milestone models.SkillMilestone
	if err := database.DB.First(&milestone, "id = ? AND user_skill_id = ?",
		c.Params("milestoneId"), offer.ID).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Milestone not found"})
	}

	var req MilestoneRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	if req.Order != milestone.Order {
		var clash int64
		if err := database.DB.Model(&models.SkillMilestone{}).
			Where("user_skill_id = ? AND sort_order = ?", offer.ID, req.Order).
			Count(&clash).Error; err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to update milestone"})
		}
		if clash > 0 {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "A milestone with this order number already exists."})
		}
	}

	milestone.Title = req.Title
	milestone.Description = req.Description
	milestone.Order = req.Order
	milestone.EstimatedHours = req.EstimatedHours
	if err := database.DB.Save(&milestone).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to update milestone"})
	}
	return c.JSON(milestone)
}

func DeleteMilestone(c *fiber.Ctx) error {
	offer, errResp := loadOwnedUserSkill(c)
	if offer == nil {
		return errResp
	}

	result := database.DB.Where("id = ? AND user_skill_id = ?",
		c.Params("milestoneId"), offer.ID).Delete(&models.SkillMilestone{})
	if result.Error != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to delete milestone"})
	}
	if result.RowsAffected == 0 {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Milestone not found"})
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// ReorderMilestones applies a full set of new order values. Orders must be
// unique and every id must belong to the offer. Rows park on negative orders
// first so the unique index never trips mid-swap.
func ReorderMilestones(c *fiber.Ctx) error {
	offer, errResp := loadOwnedUserSkill(c)
	if offer == nil {
		return errResp
	}

	var req ReorderMilestonesRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	var milestones []models.SkillMilestone
	if err := database.DB.Where("user_skill_id = ?", offer.ID).Find(&milestones).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to reorder milestones"})
	}
	known := make(map[uuid.UUID]bool, len(milestones))
	for _, m := range milestones {
		known[m.ID] = true
	}

	usedOrders := make(map[int]bool, len(req.Orders))
	for _, item := range req.Orders {
		id, err := uuid.Parse(item.ID)
		if err != nil || !known[id] {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Milestone not found: " + item.ID})
		}
		if usedOrders[item.Order] {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Duplicate order values are not allowed."})
		}
		usedOrders[item.Order] = true
	}

	err := database.DB.Transaction(func(tx *gorm.DB) error {
		for i, item := range req.Orders {
			if err := tx.Model(&models.SkillMilestone{}).Where("id = ?", item.ID).
				Update("sort_order", -(i + 1)).Error; err != nil {
				return err
			}
		}
		for _, item := range req.Orders {
			if err := tx.Model(&models.SkillMilestone{}).Where("id = ?", item.ID).
				Update("sort_order", item.Order).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to reorder milestones"})
	}

	var updated []models.SkillMilestone
	if err := database.DB.Where("user_skill_id = ?", offer.ID).
		Order("sort_order asc").Find(&updated).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to reorder milestones"})
	}
	return c.JSON(updated)
}
