package routes

import (
	"github.com/gofiber/fiber/v2"
	"github.com/skillswaphq/skillswap/handlers"
	"github.com/skillswaphq/skillswap/middleware"
)

func ExchangeRoutes(app *fiber.App) {
	api := app.Group("/api/v1")

	exchanges := api.Group("/exchanges", middleware.Protected())
	exchanges.Get("", handlers.ListExchanges)
	exchanges.Post("", handlers.CreateExchange)
	exchanges.Get("/:exchangeId", handlers.GetExchange)
	exchanges.Post("/:exchangeId/status", handlers.UpdateExchangeStatus)
}
