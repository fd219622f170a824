// file: internals/features/leave/route/admin_route.go
package route

import (
	controller "kantorku_backend/internals/features/leave/controller"
	leaveService "kantorku_backend/internals/features/leave/service"

	"github.com/gofiber/fiber/v2"
)

// LeaveAdminRoutes mendaftarkan endpoint keputusan cuti untuk admin.
// Base: /api/a/leave
func LeaveAdminRoutes(admin fiber.Router, leaveSvc *leaveService.LeaveService, coins *leaveService.LeaveCoinService) {
	leaveController := controller.NewLeaveController(leaveSvc, coins)

	leave := admin.Group("/leave")
	leave.Get("/pending", leaveController.Pending)
	leave.Post("/:id/approve", leaveController.Approve)
	leave.Post("/:id/reject", leaveController.Reject)
}
