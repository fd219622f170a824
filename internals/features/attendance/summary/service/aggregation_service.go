package service

import (
	"context"
	"errors"
	"hash/fnv"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"kantorku_backend/internals/configs"
	sessionModel "kantorku_backend/internals/features/attendance/sessions/model"
	"kantorku_backend/internals/features/attendance/summary/model"
	leaveModel "kantorku_backend/internals/features/leave/model"
	userModel "kantorku_backend/internals/features/users/user/model"
	"kantorku_backend/internals/helpers/timezone"
)

/* =========================================================
   DAILY AGGREGATOR
   =========================================================
   Derivasi penuh baris daily_attendance dari sesi mentah. Recompute
   selalu full replace, bukan increment, jadi aman dipanggil berulang
   untuk (karyawan, tanggal) yang sama.
*/

const stripeCount = 64

type AggregationService struct {
	DB  *gorm.DB
	Now func() time.Time

	// Serialisasi per (karyawan, tanggal). Kunci beda boleh jalan paralel.
	stripes [stripeCount]sync.Mutex
}

func NewAggregationService(db *gorm.DB) *AggregationService {
	return &AggregationService{DB: db, Now: time.Now}
}

func (s *AggregationService) stripeFor(employeeID uuid.UUID, date time.Time) *sync.Mutex {
	h := fnv.New32a()
	h.Write(employeeID[:])
	h.Write([]byte(timezone.FormatDate(date)))
	return &s.stripes[h.Sum32()%stripeCount]
}

/* =========================================================
   RECOMPUTE
   ========================================================= */

// Recompute membangun ulang agregat satu karyawan satu tanggal lokal.
// Sesi lintas midnight dipotong di batas hari: porsi kerja dan break
// dihitung dari overlap dengan window tanggal tsb.
func (s *AggregationService) Recompute(ctx context.Context, employeeID uuid.UUID, date time.Time) error {
	date = timezone.DateOf(date)

	mu := s.stripeFor(employeeID, date)
	mu.Lock()
	defer mu.Unlock()

	dayStart, dayEnd := timezone.DayWindow(date)
	now := s.Now().UTC()

	onLeave, err := s.hasApprovedLeave(ctx, employeeID, date)
	if err != nil {
		return err
	}

	var sessions []sessionModel.WorkSessionModel
	err = s.DB.WithContext(ctx).
		Where("work_session_employee_id = ? AND work_session_clock_in < ? AND (work_session_clock_out IS NULL OR work_session_clock_out > ?)",
			employeeID, dayEnd, dayStart).
		Order("work_session_clock_in ASC").
		Find(&sessions).Error
	if err != nil {
		return err
	}

	row := model.DailyAttendanceModel{
		DailyAttendanceEmployeeID: employeeID,
		DailyAttendanceDate:       date,
	}

	hasOpen := false
	for i := range sessions {
		sess := &sessions[i]
		row.DailyAttendanceSessionCount++

		// First-in/last-out di-clamp ke window hari; sesi yang mulai kemarin
		// tercatat first-in = batas hari, bukan jam aslinya.
		firstIn := sess.WorkSessionClockIn
		if firstIn.Before(dayStart) {
			firstIn = dayStart
		}
		if row.DailyAttendanceFirstClockIn == nil || firstIn.Before(*row.DailyAttendanceFirstClockIn) {
			row.DailyAttendanceFirstClockIn = &firstIn
		}

		if sess.WorkSessionClockOut == nil {
			hasOpen = true
			continue
		}

		gross := timezone.OverlapSeconds(date, sess.WorkSessionClockIn, *sess.WorkSessionClockOut)
		brk, err := s.breakOverlapSeconds(ctx, sess.WorkSessionID, date)
		if err != nil {
			return err
		}
		net := gross - brk
		if net < 0 {
			net = 0
		}
		row.DailyAttendanceTotalWorkSeconds += net
		row.DailyAttendanceTotalBreakSeconds += brk

		lastOut := *sess.WorkSessionClockOut
		if lastOut.After(dayEnd) {
			lastOut = dayEnd
		}
		if row.DailyAttendanceLastClockOut == nil || lastOut.After(*row.DailyAttendanceLastClockOut) {
			row.DailyAttendanceLastClockOut = &lastOut
		}
	}

	// Hari yang masih jalan tanpa jejak apa pun tidak dimaterialisasi;
	// penting saat cancel cuti tanggal depan supaya tidak ada baris sisa.
	if row.DailyAttendanceSessionCount == 0 && !onLeave && now.Before(dayEnd) {
		return s.DB.WithContext(ctx).
			Where("daily_attendance_employee_id = ? AND daily_attendance_date = ?", employeeID, date).
			Delete(&model.DailyAttendanceModel{}).Error
	}

	row.DailyAttendanceStatus = deriveStatus(onLeave, hasOpen, row.DailyAttendanceSessionCount,
		row.DailyAttendanceTotalWorkSeconds, dayEnd, now)

	return s.upsert(ctx, &row)
}

// deriveStatus: prioritas top-down, match pertama menang.
func deriveStatus(onLeave, hasOpen bool, sessionCount int, workSeconds int64, dayEnd, now time.Time) model.AttendanceStatus {
	threshold := int64(configs.FullDayHours) * 3600
	switch {
	case onLeave:
		return model.AttendanceStatusLeave
	case sessionCount == 0 && !now.Before(dayEnd):
		return model.AttendanceStatusAbsent
	case hasOpen || sessionCount == 0:
		// sessionCount == 0 di sini berarti harinya belum lewat.
		return model.AttendanceStatusIncomplete
	case workSeconds < threshold:
		return model.AttendanceStatusPartial
	default:
		return model.AttendanceStatusComplete
	}
}

func (s *AggregationService) hasApprovedLeave(ctx context.Context, employeeID uuid.UUID, date time.Time) (bool, error) {
	var n int64
	err := s.DB.WithContext(ctx).Model(&leaveModel.LeaveRequestModel{}).
		Where("leave_request_employee_id = ? AND leave_request_date = ? AND leave_request_status = ?",
			employeeID, date, leaveModel.LeaveStatusApproved).
		Count(&n).Error
	return n > 0, err
}

func (s *AggregationService) breakOverlapSeconds(ctx context.Context, sessionID uuid.UUID, date time.Time) (int64, error) {
	var breaks []sessionModel.BreakIntervalModel
	err := s.DB.WithContext(ctx).
		Where("break_interval_session_id = ? AND break_interval_end IS NOT NULL", sessionID).
		Find(&breaks).Error
	if err != nil {
		return 0, err
	}
	var total int64
	for _, b := range breaks {
		total += timezone.OverlapSeconds(date, b.BreakIntervalStart, *b.BreakIntervalEnd)
	}
	return total, nil
}

// upsert full replace di (employee, date). DO UPDATE menjaga PK baris lama
// tetap stabil, penting karena arsip menyimpan back-ref ke PK itu.
func (s *AggregationService) upsert(ctx context.Context, row *model.DailyAttendanceModel) error {
	return s.DB.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{
			{Name: "daily_attendance_employee_id"},
			{Name: "daily_attendance_date"},
		},
		DoUpdates: clause.AssignmentColumns([]string{
			"daily_attendance_total_work_seconds",
			"daily_attendance_total_break_seconds",
			"daily_attendance_session_count",
			"daily_attendance_first_clock_in",
			"daily_attendance_last_clock_out",
			"daily_attendance_status",
			"updated_at",
		}),
	}).Create(row).Error
}

/* =========================================================
   DAY ROLLOVER
   ========================================================= */

// FreezeDay dipanggil rollover tengah malam untuk tanggal yang baru
// ditutup: memastikan tiap karyawan aktif punya baris final (absent kalau
// kosong). Kegagalan per karyawan dicatat lalu lanjut.
func (s *AggregationService) FreezeDay(ctx context.Context, date time.Time) (int, error) {
	date = timezone.DateOf(date)

	var employeeIDs []uuid.UUID
	err := s.DB.WithContext(ctx).Model(&userModel.EmployeeModel{}).
		Where("employee_is_active = ?", true).
		Pluck("employee_id", &employeeIDs).Error
	if err != nil {
		return 0, err
	}

	frozen := 0
	for _, id := range employeeIDs {
		if err := s.Recompute(ctx, id, date); err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				return frozen, err
			}
			log.Printf("[AGGREGATE] freeze %s employee %s gagal: %v", timezone.FormatDate(date), id, err)
			continue
		}
		frozen++
	}
	return frozen, nil
}
