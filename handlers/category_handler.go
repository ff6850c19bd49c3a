package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/skillswaphq/skillswap/database"
	"github.com/skillswaphq/skillswap/models"
	"github.com/skillswaphq/skillswap/services"
	"github.com/skillswaphq/skillswap/utils"
)

type CategoryRequest struct {
	Name        string `json:"name" validate:"required"`
	Description string `json:"description"`
	Icon        string `json:"icon"`
	IsActive    *bool  `json:"is_active"`
}

type CategoryResponse struct {
	models.SkillCategory
	SkillsCount int64 `json:"skills_count"`
}

// activeSkillCounts returns active-skill counts per category id.
func activeSkillCounts(categoryIDs []uuid.UUID) (map[uuid.UUID]int64, error) {
	counts := make(map[uuid.UUID]int64, len(categoryIDs))
	if len(categoryIDs) == 0 {
		return counts, nil
	}

	var rows []struct {
		CategoryID uuid.UUID
		Count      int64
	}
	err := database.DB.Model(&models.Skill{}).
		Select("category_id, count(*) as count").
		Where("category_id IN ? AND is_active = ?", categoryIDs, true).
		Group("category_id").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	for _, row := range rows {
		counts[row.CategoryID] = row.Count
	}
	return counts, nil
}

func ListCategories(c *fiber.Ctx) error {
	params := utils.ParsePageParams(c, utils.StandardPageSize, utils.StandardMaxPageSize)

	query := database.DB.Model(&models.SkillCategory{})
	if name := c.Query("name"); name != "" {
		query = query.Where("LOWER(name) LIKE LOWER(?)", "%"+name+"%")
	}
	if c.Query("is_active") != "" {
		query = query.Where("is_active = ?", c.QueryBool("is_active"))
	}

	var count int64
	if err := query.Count(&count).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to list categories"})
	}

	var categories []models.SkillCategory
	if err := query.Order("name asc").Offset(params.Offset()).Limit(params.PageSize).Find(&categories).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to list categories"})
	}

	ids := make([]uuid.UUID, len(categories))
	for i, cat := range categories {
		ids[i] = cat.ID
	}
	counts, err := activeSkillCounts(ids)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to list categories"})
	}

	results := make([]CategoryResponse, len(categories))
	for i, cat := range categories {
		results[i] = CategoryResponse{SkillCategory: cat, SkillsCount: counts[cat.ID]}
	}

	return c.JSON(utils.PaginatedResponse(c, params, count, results))
}

func CreateCategory(c *fiber.Ctx) error {
	var req CategoryRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	name, err := services.ValidateCategoryName(database.DB, req.Name, uuid.Nil)
	if err != nil {
		return serviceError(c, err)
	}
	icon, err := services.ValidateCategoryIcon(req.Icon)
	if err != nil {
		return serviceError(c, err)
	}

	category := models.SkillCategory{
		Name:        name,
		Description: req.Description,
		Icon:        icon,
		IsActive:    true,
	}
	if req.IsActive != nil {
		category.IsActive = *req.IsActive
	}

	if err := database.DB.Create(&category).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to create category"})
	}
	return c.Status(fiber.StatusCreated).JSON(category)
}

func GetCategory(c *fiber.Ctx) error {
	var category models.SkillCategory
	if err := database.DB.First(&category, "id = ?", c.Params("categoryId")).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Category not found"})
	}

	counts, err := activeSkillCounts([]uuid.UUID{category.ID})
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to load category"})
	}
	return c.JSON(CategoryResponse{SkillCategory: category, SkillsCount: counts[category.ID]})
}

func UpdateCategory(c *fiber.Ctx) error {
	var category models.SkillCategory
	if err := database.DB.First(&category, "id = ?", c.Params("categoryId")).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Category not found"})
	}

	var req CategoryRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	name, err := services.ValidateCategoryName(database.DB, req.Name, category.ID)
	if err != nil {
		return serviceError(c, err)
	}
	icon, err := services.ValidateCategoryIcon(req.Icon)
	if err != nil {
		return serviceError(c, err)
	}

	category.Name = name
	category.Description = req.Description
	category.Icon = icon
	if req.IsActive != nil && *req.IsActive != category.IsActive {
		if !*req.IsActive {
			if err := services.DeactivateCategoryCascade(database.DB, category.ID); err != nil {
				return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to update category"})
			}
		}
		category.IsActive = *req.IsActive
	}

	if err := database.DB.Save(&category).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to update category"})
	}
	return c.JSON(category)
}

// ToggleCategoryStatus flips is_active; deactivating cascades to the
// category's skills.
func ToggleCategoryStatus(c *fiber.Ctx) error {
	var category models.SkillCategory
	if err := database.DB.First(&category, "id = ?", c.Params("categoryId")).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Category not found"})
	}

	category.IsActive = !category.IsActive
	if !category.IsActive {
		if err := services.DeactivateCategoryCascade(database.DB, category.ID); err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to toggle category"})
		}
	} else {
		if err := database.DB.Save(&category).Error; err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to toggle category"})
		}
	}
	return c.JSON(category)
}

func DeleteCategory(c *fiber.Ctx) error {
	var category models.SkillCategory
	if err := database.DB.First(&category, "id = ?", c.Params("categoryId")).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Category not found"})
	}

	if err := services.DeleteCategory(database.DB, &category); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to delete category"})
	}
	return c.SendStatus(fiber.StatusNoContent)
}
