package routes

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/skillswaphq/skillswap/handlers"
	"github.com/skillswaphq/skillswap/middleware"
)

// CatalogRoutes covers the category and skill catalog. Any logged-in user can
// read and can propose a new category or skill; updates, status toggles and
// deletes are admin-only.
func CatalogRoutes(app *fiber.App) {
	api := app.Group("/api/v1")

	categories := api.Group("/categories", middleware.Protected())
	categories.Get("", handlers.ListCategories)
	categories.Get("/:categoryId", handlers.GetCategory)
	categories.Get("/:categoryId/skills", handlers.ListSkillsByCategory)
	categories.Post("", handlers.CreateCategory)
	categories.Put("/:categoryId", middleware.AdminRequired(), handlers.UpdateCategory)
	categories.Post("/:categoryId/toggle-status", middleware.AdminRequired(), handlers.ToggleCategoryStatus)
	categories.Delete("/:categoryId", middleware.AdminRequired(), handlers.DeleteCategory)

	skills := api.Group("/skills", middleware.Protected())
	skills.Get("", handlers.ListSkills)
	skills.Get("/:skillId", handlers.GetSkill)
	skills.Post("",
		middleware.RateLimit("skills-hour", 10, time.Hour),
		middleware.RateLimit("skills-day", 100, 24*time.Hour),
		handlers.CreateSkill)
	skills.Put("/:skillId", middleware.AdminRequired(), handlers.UpdateSkill)
	skills.Post("/:skillId/toggle-status", middleware.AdminRequired(), handlers.ToggleSkillStatus)
	skills.Delete("/:skillId", middleware.AdminRequired(), handlers.DeleteSkill)
}
