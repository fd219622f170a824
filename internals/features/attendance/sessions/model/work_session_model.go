package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

/* =========================================================
   WORK SESSION (ledger mentah clock-in/clock-out)
   ========================================================= */

// WorkSessionModel: satu sesi kerja per clock-in. Maksimal satu sesi
// terbuka per karyawan; setelah ditutup clock_out >= clock_in. Baris tidak
// pernah dihapus karena jadi sumber recompute agregasi.
type WorkSessionModel struct {
	WorkSessionID         uuid.UUID  `gorm:"column:work_session_id;type:uuid;primaryKey" json:"work_session_id"`
	WorkSessionEmployeeID uuid.UUID  `gorm:"column:work_session_employee_id;type:uuid;not null;index:idx_work_sessions_employee_clock_in" json:"work_session_employee_id"`
	WorkSessionClockIn    time.Time  `gorm:"column:work_session_clock_in;type:timestamptz;not null;index:idx_work_sessions_employee_clock_in" json:"work_session_clock_in"`
	WorkSessionClockOut   *time.Time `gorm:"column:work_session_clock_out;type:timestamptz" json:"work_session_clock_out,omitempty"`

	// Turunan saat close: net = gross - break.
	WorkSessionWorkSeconds  int64 `gorm:"column:work_session_work_seconds;not null;default:0" json:"work_session_work_seconds"`
	WorkSessionBreakSeconds int64 `gorm:"column:work_session_break_seconds;not null;default:0" json:"work_session_break_seconds"`

	// Di-null-kan (bukan cascade delete) saat summary harinya diarsipkan.
	WorkSessionDailyAttendanceID *uuid.UUID `gorm:"column:work_session_daily_attendance_id;type:uuid;index" json:"work_session_daily_attendance_id,omitempty"`

	CreatedAt time.Time `gorm:"column:created_at;type:timestamptz;autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at;type:timestamptz;autoUpdateTime" json:"updated_at"`
}

func (WorkSessionModel) TableName() string {
	return "work_sessions"
}

func (s *WorkSessionModel) BeforeCreate(tx *gorm.DB) error {
	if s.WorkSessionID == uuid.Nil {
		s.WorkSessionID = uuid.New()
	}
	return nil
}

// IsOpen: sesi masih berjalan (belum clock-out).
func (s *WorkSessionModel) IsOpen() bool {
	return s.WorkSessionClockOut == nil
}
