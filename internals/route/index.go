// file: internals/route/index.go
package routes

import (
	"log"
	"time"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	sessionRoute "kantorku_backend/internals/features/attendance/sessions/route"
	sessionService "kantorku_backend/internals/features/attendance/sessions/service"
	summaryRoute "kantorku_backend/internals/features/attendance/summary/route"
	summaryService "kantorku_backend/internals/features/attendance/summary/service"
	quoteRoute "kantorku_backend/internals/features/home/quotes/route"
	quoteService "kantorku_backend/internals/features/home/quotes/service"
	leaveRoute "kantorku_backend/internals/features/leave/route"
	leaveService "kantorku_backend/internals/features/leave/service"
	authRoute "kantorku_backend/internals/features/users/auth/route"
	authService "kantorku_backend/internals/features/users/auth/service"

	"kantorku_backend/internals/constants"
	authMiddleware "kantorku_backend/internals/middlewares/auth"
	"kantorku_backend/internals/scheduler"
)

var startTime time.Time

// Services membawa semua dependensi stateful yang dirakit sekali di main.
// AggregationService pakai lock per (karyawan, tanggal); kalau tiap route
// bikin instance sendiri, lock-nya tidak saling lihat. Jadi service dirakit
// SEKALI lalu dibagikan ke route dan scheduler lewat struct ini.
type Services struct {
	Registry *authService.RevocationRegistry
	Ledger   *sessionService.SessionService
	Archive  *summaryService.ArchiveService
	Leave    *leaveService.LeaveService
	Coins    *leaveService.LeaveCoinService
	Quotes   *quoteService.QuoteService
	Runner   *scheduler.Runner
}

func SetupRoutes(app *fiber.App, db *gorm.DB, svcs *Services) {
	startTime = time.Now()

	BaseRoutes(app, db)

	// Satu instance middleware auth untuk semua group supaya cek revocation
	// konsisten memakai registry yang sama.
	authMw := authMiddleware.AuthMiddleware(db, svcs.Registry)

	// ===================== AUTH =====================
	log.Println("[INFO] Setting up AuthRoutes...")
	authRoute.AuthRoutes(app, db, svcs.Registry, authMw)

	// ===================== USER (/api/u) =====================
	log.Println("[INFO] Setting up USER group...")
	user := app.Group("/api/u", authMw)

	sessionRoute.AttendanceUserRoutes(user, svcs.Ledger)
	summaryRoute.SummaryUserRoutes(user, svcs.Archive)
	leaveRoute.LeaveUserRoutes(user, svcs.Leave, svcs.Coins)
	quoteRoute.QuoteUserRoutes(user, db, svcs.Quotes)

	// ===================== ADMIN (/api/a) =====================
	log.Println("[INFO] Setting up ADMIN group (Auth + RoleCheck)...")
	admin := app.Group("/api/a",
		authMw,
		authMiddleware.OnlyRolesSlice(constants.RoleErrorAdmin("panel admin"), constants.AdminAndAbove),
	)

	sessionRoute.AttendanceAdminRoutes(admin, svcs.Ledger)
	summaryRoute.SummaryAdminRoutes(admin, svcs.Archive)
	leaveRoute.LeaveAdminRoutes(admin, svcs.Leave, svcs.Coins)
	quoteRoute.QuoteAdminRoutes(admin, db, svcs.Quotes)

	if svcs.Runner != nil {
		JobRoutes(admin, db, svcs.Runner)
	}
}
