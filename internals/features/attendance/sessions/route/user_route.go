// file: internals/features/attendance/sessions/route/user_route.go
package route

import (
	controller "kantorku_backend/internals/features/attendance/sessions/controller"
	sessionService "kantorku_backend/internals/features/attendance/sessions/service"

	"github.com/gofiber/fiber/v2"
)

// AttendanceUserRoutes mendaftarkan endpoint absensi karyawan.
// Base: /api/u/attendance
func AttendanceUserRoutes(user fiber.Router, ledger *sessionService.SessionService) {
	attendanceController := controller.NewAttendanceController(ledger)

	attendance := user.Group("/attendance")
	attendance.Post("/clock-in", attendanceController.ClockIn)
	attendance.Post("/clock-out", attendanceController.ClockOut)
	attendance.Post("/break/start", attendanceController.StartBreak)
	attendance.Post("/break/stop", attendanceController.StopBreak)
	attendance.Get("/state", attendanceController.State)
	attendance.Get("/sessions", attendanceController.Sessions)
}
