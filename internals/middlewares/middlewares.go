package middlewares

import (
	"github.com/gofiber/fiber/v2"

	"kantorku_backend/internals/middlewares/logger"
)

// SetupMiddlewares memasang middleware lintas fitur. Urutan penting:
// recovery paling luar supaya panic dari middleware lain ikut tertangkap,
// limiter sebelum logger supaya request yang ditolak tidak bikin log bising.
func SetupMiddlewares(app *fiber.App) {
	app.Use(RecoveryMiddleware())
	app.Use(CorsMiddleware())
	app.Use(GlobalRateLimiter())
	app.Use(logger.LoggerMiddleware())
}
