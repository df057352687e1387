package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/DedS3t/monopoly-engine/app/controllers"
	"github.com/DedS3t/monopoly-engine/app/rooms"
)

func GameRoutes(a *fiber.App, registry *rooms.Registry) {
	route := a.Group("/game")

	route.Get("/health", controllers.Health)
	route.Get("/rooms", controllers.ListRooms(registry))
	route.Get("/verify", controllers.VerifyRoom(registry))
	route.Get("/stats", controllers.GetStats(registry))
	route.Get("/results", controllers.RecentResults)
}
