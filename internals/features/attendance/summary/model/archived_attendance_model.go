package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

/* =========================================================
   ARCHIVED ATTENDANCE (cold tier)
   ========================================================= */

// ArchivedAttendanceModel: salinan immutable dari baris hot yang sudah
// lewat window retensi. Kolom agregatnya identik dengan daily_attendance,
// ditambah waktu arsip dan back-reference ke identitas hot aslinya.
// Hanya TierManager yang menulis ke sini; purge menghapus setelah window
// dingin (default 365 hari).
type ArchivedAttendanceModel struct {
	ArchivedAttendanceID         uuid.UUID `gorm:"column:archived_attendance_id;type:uuid;primaryKey" json:"archived_attendance_id"`
	ArchivedAttendanceEmployeeID uuid.UUID `gorm:"column:archived_attendance_employee_id;type:uuid;not null;uniqueIndex:uq_archived_attendance_employee_date" json:"archived_attendance_employee_id"`
	ArchivedAttendanceDate       time.Time `gorm:"column:archived_attendance_date;type:date;not null;uniqueIndex:uq_archived_attendance_employee_date;index" json:"archived_attendance_date"`

	ArchivedAttendanceTotalWorkSeconds  int64 `gorm:"column:archived_attendance_total_work_seconds;not null;default:0" json:"archived_attendance_total_work_seconds"`
	ArchivedAttendanceTotalBreakSeconds int64 `gorm:"column:archived_attendance_total_break_seconds;not null;default:0" json:"archived_attendance_total_break_seconds"`
	ArchivedAttendanceSessionCount      int   `gorm:"column:archived_attendance_session_count;not null;default:0" json:"archived_attendance_session_count"`

	ArchivedAttendanceFirstClockIn *time.Time `gorm:"column:archived_attendance_first_clock_in;type:timestamptz" json:"archived_attendance_first_clock_in,omitempty"`
	ArchivedAttendanceLastClockOut *time.Time `gorm:"column:archived_attendance_last_clock_out;type:timestamptz" json:"archived_attendance_last_clock_out,omitempty"`

	ArchivedAttendanceStatus AttendanceStatus `gorm:"column:archived_attendance_status;type:varchar(20);not null" json:"archived_attendance_status"`

	ArchivedAttendanceArchivedAt time.Time `gorm:"column:archived_attendance_archived_at;type:timestamptz;not null" json:"archived_attendance_archived_at"`

	// Nullable: identitas hot asli, untuk audit. Tidak dipakai sebagai FK
	// keras karena baris hot-nya memang sudah dihapus.
	ArchivedAttendanceOriginalDailyID *uuid.UUID `gorm:"column:archived_attendance_original_daily_id;type:uuid" json:"archived_attendance_original_daily_id,omitempty"`

	CreatedAt time.Time `gorm:"column:created_at;type:timestamptz;autoCreateTime" json:"created_at"`
}

func (ArchivedAttendanceModel) TableName() string {
	return "archived_attendance"
}

func (a *ArchivedAttendanceModel) BeforeCreate(tx *gorm.DB) error {
	if a.ArchivedAttendanceID == uuid.Nil {
		a.ArchivedAttendanceID = uuid.New()
	}
	return nil
}
