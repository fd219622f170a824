// file: internals/features/home/quotes/route/admin_route.go
package route

import (
	controller "kantorku_backend/internals/features/home/quotes/controller"
	quoteService "kantorku_backend/internals/features/home/quotes/service"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// QuoteAdminRoutes mendaftarkan endpoint kelola pool kutipan.
// Base: /api/a/quotes
func QuoteAdminRoutes(admin fiber.Router, db *gorm.DB, quotes *quoteService.QuoteService) {
	quoteController := controller.NewQuoteController(db, quotes)

	quote := admin.Group("/quotes")
	quote.Get("/", quoteController.ListQuotes)
	quote.Post("/", quoteController.CreateQuote)
	quote.Post("/bulk", quoteController.CreateQuotes)
	quote.Delete("/:id", quoteController.DeleteQuote)
}
