// file: internals/features/attendance/sessions/route/admin_route.go
package route

import (
	controller "kantorku_backend/internals/features/attendance/sessions/controller"
	sessionService "kantorku_backend/internals/features/attendance/sessions/service"

	"github.com/gofiber/fiber/v2"
)

// AttendanceAdminRoutes mendaftarkan endpoint pemantauan absensi untuk admin.
// Base: /api/a/attendance
func AttendanceAdminRoutes(admin fiber.Router, ledger *sessionService.SessionService) {
	attendanceController := controller.NewAttendanceController(ledger)

	attendance := admin.Group("/attendance")
	attendance.Get("/realtime", attendanceController.Realtime)
}
