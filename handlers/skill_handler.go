package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/skillswaphq/skillswap/database"
	"github.com/skillswaphq/skillswap/models"
	"github.com/skillswaphq/skillswap/services"
	"github.com/skillswaphq/skillswap/utils"
	"gorm.io/gorm"
)

type SkillRequest struct {
	Name        string `json:"name" validate:"required"`
	CategoryID  string `json:"category_id" validate:"required,uuid"`
	Description string `json:"description" validate:"required"`
	IsActive    *bool  `json:"is_active"`
}

type SkillResponse struct {
	models.Skill
	TotalTeachers int64 `json:"total_teachers"`
}

// activeTeacherCounts returns the number of active teaching offers per skill.
func activeTeacherCounts(skillIDs []uuid.UUID) (map[uuid.UUID]int64, error) {
	counts := make(map[uuid.UUID]int64, len(skillIDs))
	if len(skillIDs) == 0 {
		return counts, nil
	}

	var rows []struct {
		SkillID uuid.UUID
		Count   int64
	}
	err := database.DB.Model(&models.UserSkill{}).
		Select("skill_id, count(*) as count").
		Where("skill_id IN ? AND is_active = ?", skillIDs, true).
		Group("skill_id").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	for _, row := range rows {
		counts[row.SkillID] = row.Count
	}
	return counts, nil
}

func listSkills(c *fiber.Ctx, base *gorm.DB) error {
	params := utils.ParsePageParams(c, utils.LargePageSize, utils.LargeMaxPageSize)

	query := base
	if name := c.Query("name"); name != "" {
		query = query.Where("LOWER(skills.name) LIKE LOWER(?)", "%"+name+"%")
	}
	if c.Query("is_active") != "" {
		query = query.Where("skills.is_active = ?", c.QueryBool("is_active"))
	}

	var count int64
	if err := query.Count(&count).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to list skills"})
	}

	var skills []models.Skill
	if err := query.Preload("Category").Order("skills.name asc").
		Offset(params.Offset()).Limit(params.PageSize).Find(&skills).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to list skills"})
	}

	ids := make([]uuid.UUID, len(skills))
	for i, skill := range skills {
		ids[i] = skill.ID
	}
	counts, err := activeTeacherCounts(ids)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to list skills"})
	}

	results := make([]SkillResponse, len(skills))
	for i, skill := range skills {
		results[i] = SkillResponse{Skill: skill, TotalTeachers: counts[skill.ID]}
	}
	return c.JSON(utils.PaginatedResponse(c, params, count, results))
}

func ListSkills(c *fiber.Ctx) error {
	query := database.DB.Model(&models.Skill{})
	if categoryID := c.Query("category_id"); categoryID != "" {
		query = query.Where("category_id = ?", categoryID)
	}
	return listSkills(c, query)
}

// ListSkillsByCategory serves the by-category browse path.
func ListSkillsByCategory(c *fiber.Ctx) error {
	var category models.SkillCategory
	if err := database.DB.First(&category, "id = ?", c.Params("categoryId")).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Category not found"})
	}
	return listSkills(c, database.DB.Model(&models.Skill{}).Where("category_id = ?", category.ID))
}

func CreateSkill(c *fiber.Ctx) error {
	var req SkillRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	name, err := services.ValidateSkillName(database.DB, req.Name, uuid.Nil)
	if err != nil {
		return serviceError(c, err)
	}
	description, err := services.ValidateSkillDescription(req.Description)
	if err != nil {
		return serviceError(c, err)
	}

	var category models.SkillCategory
	if err := database.DB.First(&category, "id = ?", req.CategoryID).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Category not found"})
	}

	isActive := true
	if req.IsActive != nil {
		isActive = *req.IsActive
	}
	if isActive && !category.IsActive {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot create an active skill in an inactive category."})
	}

	skill := models.Skill{
		Name:        name,
		CategoryID:  category.ID,
		Description: description,
		IsActive:    isActive,
	}
	if err := database.DB.Create(&skill).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "A skill with this name already exists."})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to create skill"})
	}

	skill.Category = category
	return c.Status(fiber.StatusCreated).JSON(skill)
}

func GetSkill(c *fiber.Ctx) error {
	var skill models.Skill
	if err := database.DB.Preload("Category").First(&skill, "id = ?", c.Params("skillId")).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Skill not found"})
	}

	counts, err := activeTeacherCounts([]uuid.UUID{skill.ID})
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to load skill"})
	}
	return c.JSON(SkillResponse{Skill: skill, TotalTeachers: counts[skill.ID]})
}

func UpdateSkill(c *fiber.Ctx) error {
	var skill models.Skill
	if err := database.DB.First(&skill, "id = ?", c.Params("skillId")).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Skill not found"})
	}

	var req SkillRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	name, err := services.ValidateSkillName(database.DB, req.Name, skill.ID)
	if err != nil {
		return serviceError(c, err)
	}
	description, err := services.ValidateSkillDescription(req.Description)
	if err != nil {
		return serviceError(c, err)
	}

	var category models.SkillCategory
	if err := database.DB.First(&category, "id = ?", req.CategoryID).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Category not found"})
	}

	isActive := skill.IsActive
	if req.IsActive != nil {
		isActive = *req.IsActive
	}
	if isActive && !category.IsActive {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot update an active skill in an inactive category."})
	}

	skill.Name = name
	skill.CategoryID = category.ID
	skill.Description = description
	skill.IsActive = isActive
	if err := database.DB.Save(&skill).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to update skill"})
	}

	skill.Category = category
	return c.JSON(skill)
}

func ToggleSkillStatus(c *fiber.Ctx) error {
	var skill models.Skill
	if err := database.DB.Preload("Category").First(&skill, "id = ?", c.Params("skillId")).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Skill not found"})
	}

	if !skill.IsActive && !skill.Category.IsActive {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot activate skill because its category is inactive."})
	}

	skill.IsActive = !skill.IsActive
	if err := database.DB.Save(&skill).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to toggle skill"})
	}
	return c.JSON(skill)
}

func DeleteSkill(c *fiber.Ctx) error {
	var skill models.Skill
	if err := database.DB.First(&skill, "id = ?", c.Params("skillId")).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Skill not found"})
	}

	if err := services.DeleteSkill(database.DB, &skill); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to delete skill"})
	}
	return c.SendStatus(fiber.StatusNoContent)
}
