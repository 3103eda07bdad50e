// file: internals/middlewares/middleware.go
package middlewares

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"sekolahku_backend/internals/middlewares/logger"
)

// SetupMiddlewares memasang rantai middleware dasar dengan urutan:
// recovery → access log → CORS → global rate limit → db ke locals.
func SetupMiddlewares(app *fiber.App, db *gorm.DB) {
	app.Use(RecoveryMiddleware())
	app.Use(logger.LoggerMiddleware())
	app.Use(CorsMiddleware())
	app.Use(GlobalRateLimiter())
	app.Use(DBMiddleware(db))
}
