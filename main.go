package main

import (
	"os"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	jwtware "github.com/gofiber/jwt/v2"
	"github.com/sirupsen/logrus"

	"github.com/DedS3t/monopoly-engine/app/controllers"
	"github.com/DedS3t/monopoly-engine/app/rooms"
	"github.com/DedS3t/monopoly-engine/pkg/routes"
	"github.com/DedS3t/monopoly-engine/platform/cache"
	"github.com/DedS3t/monopoly-engine/platform/database"
	"github.com/DedS3t/monopoly-engine/platform/logging"
	socket "github.com/DedS3t/monopoly-engine/platform/sockets"
)

const roomMaxAge = time.Hour

func main() {
	logging.Init()

	registry := rooms.NewRegistry()
	snapshots := cache.NewSnapshotStore(cache.CreateRedisPool())
	db := database.PostgreSQLConnection()

	go func() {
		ticker := time.NewTicker(10 * time.Minute)
		defer ticker.Stop()
		for range ticker.C {
			if deleted := registry.CleanupInactiveRooms(roomMaxAge); len(deleted) > 0 {
				logrus.WithField("count", len(deleted)).Info("cleaned up inactive rooms")
			}
		}
	}()

	go socket.CreateSocketIOServer(registry, snapshots, db)

	app := fiber.New()
	app.Use(cors.New())
	routes.AuthRoutes(app)
	routes.GameRoutes(app, registry)

	app.Use(jwtware.New(jwtware.Config{
		SigningKey: controllers.JWTSecret(),
	}))
	app.Get("/user/cur", controllers.Cur)

	port := os.Getenv("PORT")
	if port == "" {
		port = "4101"
	}
	logrus.WithField("port", port).Info("http server listening")
	app.Listen(":" + port)
}
