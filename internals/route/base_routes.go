// file: internals/route/base_routes.go
package routes

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"sekolahku_backend/internals/configs"
	database "sekolahku_backend/internals/databases"
)

// BaseRoutes — sapaan root + liveness check untuk load balancer.
func BaseRoutes(app *fiber.App, public fiber.Router) {
	app.Get("/", func(c *fiber.Ctx) error {
		return c.SendString("Sekolahku backend & PostgreSQL siap 🚀")
	})

	public.Get("/health", func(c *fiber.Ctx) error {
		dbStatus := "Connected"
		serverStatus := "OK"
		httpStatus := fiber.StatusOK

		sqlDB, err := database.DB.DB()
		if err != nil || sqlDB.Ping() != nil {
			dbStatus = "Database connection error"
			serverStatus = "DOWN"
			httpStatus = fiber.StatusServiceUnavailable
		}

		uptime := time.Since(startTime).Seconds()

		return c.Status(httpStatus).JSON(fiber.Map{
			"status":         serverStatus,
			"database":       dbStatus,
			"server_time":    time.Now().Format(time.RFC3339),
			"uptime_seconds": int(uptime),
			"environment":    configs.AppEnv,
		})
	})
}
