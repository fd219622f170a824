// file: internals/features/attendance/summary/route/admin_route.go
package route

import (
	controller "kantorku_backend/internals/features/attendance/summary/controller"
	summaryService "kantorku_backend/internals/features/attendance/summary/service"

	"github.com/gofiber/fiber/v2"
)

// SummaryAdminRoutes mendaftarkan endpoint rekap harian karyawan lain.
// Base: /api/a/attendance
func SummaryAdminRoutes(admin fiber.Router, archive *summaryService.ArchiveService) {
	summaryController := controller.NewSummaryController(archive)

	attendance := admin.Group("/attendance")
	attendance.Get("/summary/:employee_id", summaryController.EmployeeSummary)
}
