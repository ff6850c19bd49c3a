package routes

import (
	"github.com/gofiber/fiber/v2"
	"github.com/skillswaphq/skillswap/handlers"
	"github.com/skillswaphq/skillswap/middleware"
)

func AdminRoutes(app *fiber.App) {
	api := app.Group("/api/v1")

	admin := api.Group("/admin", middleware.Protected(), middleware.AdminRequired())

	admin.Get("/dashboard-analytics", handlers.GetDashboardAnalytics)

	users := admin.Group("/users")
	users.Get("", handlers.GetAllUsers)
	users.Put("/:userId/status", handlers.ToggleUserStatus)
	users.Delete("/:userId", handlers.AdminDeleteUser)

	feedback := admin.Group("/feedback")
	feedback.Delete("/:feedbackId", handlers.AdminDeleteFeedback)
}
