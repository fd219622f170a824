package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

/* =========================================================
   STATUS ENUM
   ========================================================= */

type AttendanceStatus string

const (
	AttendanceStatusAbsent     AttendanceStatus = "absent"
	AttendanceStatusIncomplete AttendanceStatus = "incomplete"
	AttendanceStatusPartial    AttendanceStatus = "partial"
	AttendanceStatusComplete   AttendanceStatus = "complete"
	AttendanceStatusLeave      AttendanceStatus = "leave"
)

/* =========================================================
   DAILY ATTENDANCE (hot tier)
   ========================================================= */

// DailyAttendanceModel: satu baris agregat per (employee, tanggal lokal).
// Selalu ditulis full-replace oleh aggregator, tidak pernah increment,
// supaya recompute berulang konvergen ke hasil yang sama.
type DailyAttendanceModel struct {
	DailyAttendanceID         uuid.UUID `gorm:"column:daily_attendance_id;type:uuid;primaryKey" json:"daily_attendance_id"`
	DailyAttendanceEmployeeID uuid.UUID `gorm:"column:daily_attendance_employee_id;type:uuid;not null;uniqueIndex:uq_daily_attendance_employee_date" json:"daily_attendance_employee_id"`
	DailyAttendanceDate       time.Time `gorm:"column:daily_attendance_date;type:date;not null;uniqueIndex:uq_daily_attendance_employee_date" json:"daily_attendance_date"`

	DailyAttendanceTotalWorkSeconds  int64 `gorm:"column:daily_attendance_total_work_seconds;not null;default:0" json:"daily_attendance_total_work_seconds"`
	DailyAttendanceTotalBreakSeconds int64 `gorm:"column:daily_attendance_total_break_seconds;not null;default:0" json:"daily_attendance_total_break_seconds"`
	DailyAttendanceSessionCount      int   `gorm:"column:daily_attendance_session_count;not null;default:0" json:"daily_attendance_session_count"`

	DailyAttendanceFirstClockIn *time.Time `gorm:"column:daily_attendance_first_clock_in;type:timestamptz" json:"daily_attendance_first_clock_in,omitempty"`
	DailyAttendanceLastClockOut *time.Time `gorm:"column:daily_attendance_last_clock_out;type:timestamptz" json:"daily_attendance_last_clock_out,omitempty"`

	DailyAttendanceStatus AttendanceStatus `gorm:"column:daily_attendance_status;type:varchar(20);not null;default:'absent'" json:"daily_attendance_status"`

	CreatedAt time.Time `gorm:"column:created_at;type:timestamptz;autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at;type:timestamptz;autoUpdateTime" json:"updated_at"`
}

func (DailyAttendanceModel) TableName() string {
	return "daily_attendance"
}

func (d *DailyAttendanceModel) BeforeCreate(tx *gorm.DB) error {
	if d.DailyAttendanceID == uuid.Nil {
		d.DailyAttendanceID = uuid.New()
	}
	return nil
}
