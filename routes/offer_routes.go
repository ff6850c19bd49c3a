package routes

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/skillswaphq/skillswap/handlers"
	"github.com/skillswaphq/skillswap/middleware"
)

// OfferRoutes covers teaching offers, their milestones, and the feedback left
// on them.
func OfferRoutes(app *fiber.App) {
	api := app.Group("/api/v1")

	offers := api.Group("/teaching-skills", middleware.Protected())
	offers.Get("", handlers.ListUserSkills)
	offers.Post("",
		middleware.RateLimit("offers-hour", 10, time.Hour),
		middleware.RateLimit("offers-day", 100, 24*time.Hour),
		handlers.CreateUserSkill)
	offers.Get("/:userSkillId", handlers.GetUserSkill)
	offers.Put("/:userSkillId", handlers.UpdateUserSkill)
	offers.Post("/:userSkillId/toggle-availability", handlers.ToggleUserSkillAvailability)
	offers.Delete("/:userSkillId", handlers.DeleteUserSkill)

	offers.Get("/:userSkillId/feedback", handlers.ListUserSkillFeedback)

	milestones := offers.Group("/:userSkillId/milestones")
	milestones.Post("", handlers.AddMilestone)
	milestones.Post("/reorder", handlers.ReorderMilestones)
	milestones.Put("/:milestoneId", handlers.UpdateMilestone)
	milestones.Delete("/:milestoneId", handlers.DeleteMilestone)
}
