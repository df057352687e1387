package controllers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/DedS3t/monopoly-engine/app/rooms"
	"github.com/DedS3t/monopoly-engine/platform/database"
	"github.com/DedS3t/monopoly-engine/platform/queries"
)

func Health(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"status": "ok"})
}

// ListRooms returns the public lobbies a player can browse and join.
func ListRooms(registry *rooms.Registry) fiber.Handler {
	return func(c *fiber.Ctx) error {
		return c.JSON(registry.PublicRooms())
	}
}

// VerifyRoom reports whether a room code refers to a live room.
func VerifyRoom(registry *rooms.Registry) fiber.Handler {
	return func(c *fiber.Ctx) error {
		code := c.Query("code")
		if code == "" {
			return c.SendStatus(fiber.StatusBadRequest)
		}
		return c.JSON(fiber.Map{"status": registry.RoomByCode(code) != nil})
	}
}

func GetStats(registry *rooms.Registry) fiber.Handler {
	return func(c *fiber.Ctx) error {
		return c.JSON(registry.Stats())
	}
}

// RecentResults lists the latest finished games.
func RecentResults(c *fiber.Ctx) error {
	db := database.PostgreSQLConnection()
	if db == nil {
		return c.JSON([]interface{}{})
	}
	defer db.Close()

	results, err := queries.RecentResults(20, db)
	if err != nil {
		return c.SendStatus(fiber.StatusInternalServerError)
	}
	return c.JSON(results)
}
