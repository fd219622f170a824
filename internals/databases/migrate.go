// file: internals/databases/migrate.go
package database

import (
	"log"

	"gorm.io/gorm"

	sessionModel "kantorku_backend/internals/features/attendance/sessions/model"
	summaryModel "kantorku_backend/internals/features/attendance/summary/model"
	quoteModel "kantorku_backend/internals/features/home/quotes/model"
	leaveModel "kantorku_backend/internals/features/leave/model"
	authModel "kantorku_backend/internals/features/users/auth/model"
	userModel "kantorku_backend/internals/features/users/user/model"
	schedulerModel "kantorku_backend/internals/scheduler/model"
)

// AllModels: daftar lengkap model untuk AutoMigrate. Dipakai oleh boot
// (DB_AUTO_MIGRATE=true) dan oleh testutil untuk sqlite in-memory.
func AllModels() []any {
	return []any{
		&userModel.UserModel{},
		&userModel.EmployeeModel{},
		&authModel.TokenBlacklistModel{},
		&authModel.RefreshTokenModel{},
		&sessionModel.WorkSessionModel{},
		&sessionModel.BreakIntervalModel{},
		&summaryModel.DailyAttendanceModel{},
		&summaryModel.ArchivedAttendanceModel{},
		&leaveModel.LeaveRequestModel{},
		&leaveModel.LeaveCoinModel{},
		&leaveModel.LeaveCoinTxnModel{},
		&quoteModel.QuoteModel{},
		&quoteModel.DailyQuoteModel{},
		&schedulerModel.JobStateModel{},
	}
}

func AutoMigrate(db *gorm.DB) error {
	log.Println("🛠  AutoMigrate schema...")
	if err := db.AutoMigrate(AllModels()...); err != nil {
		return err
	}
	log.Println("✅ AutoMigrate selesai.")
	return nil
}
