// file: internals/features/attendance/summary/route/user_route.go
package route

import (
	controller "kantorku_backend/internals/features/attendance/summary/controller"
	summaryService "kantorku_backend/internals/features/attendance/summary/service"

	"github.com/gofiber/fiber/v2"
)

// SummaryUserRoutes mendaftarkan endpoint rekap harian milik sendiri.
// Base: /api/u/attendance
func SummaryUserRoutes(user fiber.Router, archive *summaryService.ArchiveService) {
	summaryController := controller.NewSummaryController(archive)

	attendance := user.Group("/attendance")
	attendance.Get("/summary", summaryController.MySummary)
}
