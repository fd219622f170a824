// file: internals/features/leave/route/user_route.go
package route

import (
	controller "kantorku_backend/internals/features/leave/controller"
	leaveService "kantorku_backend/internals/features/leave/service"

	"github.com/gofiber/fiber/v2"
)

// LeaveUserRoutes mendaftarkan endpoint cuti sisi karyawan.
// Base: /api/u/leave
func LeaveUserRoutes(user fiber.Router, leaveSvc *leaveService.LeaveService, coins *leaveService.LeaveCoinService) {
	leaveController := controller.NewLeaveController(leaveSvc, coins)

	leave := user.Group("/leave")
	leave.Post("/request", leaveController.Request)
	leave.Get("/", leaveController.MyLeaves)
	leave.Post("/:id/cancel", leaveController.Cancel)
	leave.Get("/coins", leaveController.Wallet)
}
