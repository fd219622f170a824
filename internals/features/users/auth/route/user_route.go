// file: internals/features/users/auth/route/user_route.go
package route

import (
	controller "kantorku_backend/internals/features/users/auth/controller"
	authService "kantorku_backend/internals/features/users/auth/service"
	rateLimiter "kantorku_backend/internals/middlewares"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// AuthRoutes memasang seluruh endpoint autentikasi di bawah /api.
// Logout sengaja tidak lewat authMiddleware: token yang sudah expired
// tetap boleh logout (best-effort revoke), service yang urus parsing.
func AuthRoutes(app *fiber.App, db *gorm.DB, registry *authService.RevocationRegistry, authMw fiber.Handler) {
	authController := controller.NewAuthController(db, registry)

	api := app.Group("/api")

	// 🔓 Public
	api.Post("/login", rateLimiter.LoginRateLimiter(), authController.Login)
	api.Post("/refresh-token", rateLimiter.RefreshRateLimiter(), authController.RefreshToken)
	api.Post("/logout", authController.Logout)

	// 🔒 Butuh access token valid
	api.Post("/change-password", authMw, authController.ChangePassword)
	api.Get("/me", authMw, authController.Me)
}
