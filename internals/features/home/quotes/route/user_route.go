// file: internals/features/home/quotes/route/user_route.go
package route

import (
	controller "kantorku_backend/internals/features/home/quotes/controller"
	quoteService "kantorku_backend/internals/features/home/quotes/service"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// QuoteUserRoutes mendaftarkan endpoint kutipan harian untuk halaman home.
// Base: /api/u/home
func QuoteUserRoutes(user fiber.Router, db *gorm.DB, quotes *quoteService.QuoteService) {
	quoteController := controller.NewQuoteController(db, quotes)

	home := user.Group("/home")
	home.Get("/quote", quoteController.TodayQuote)
}
