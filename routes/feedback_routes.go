package routes

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/skillswaphq/skillswap/handlers"
	"github.com/skillswaphq/skillswap/middleware"
)

func FeedbackRoutes(app *fiber.App) {
	api := app.Group("/api/v1")

	feedback := api.Group("/feedback", middleware.Protected())
	feedback.Post("",
		middleware.RateLimit("feedback-hour", 5, time.Hour),
		middleware.RateLimit("feedback-day", 30, 24*time.Hour),
		handlers.CreateFeedback)
	feedback.Get("/:feedbackId", handlers.GetFeedback)
	feedback.Put("/:feedbackId", handlers.UpdateFeedback)
}
