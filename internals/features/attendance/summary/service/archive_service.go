package service

import (
	"context"
	"fmt"
	"log"
	"sort"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"kantorku_backend/internals/apperr"
	sessionModel "kantorku_backend/internals/features/attendance/sessions/model"
	"kantorku_backend/internals/features/attendance/summary/model"
	"kantorku_backend/internals/helpers/timezone"
)

/* =========================================================
   TIER MANAGER
   =========================================================
   Memindahkan agregat tua dari tier hot ke arsip (move, bukan copy)
   dan menghapus arsip yang lewat retensi dingin. Kedua operasi
   idempotent: predicate seleksinya otomatis melewati baris yang
   sudah pindah / sudah hilang.
*/

type ArchiveService struct {
	DB  *gorm.DB
	Now func() time.Time
}

func NewArchiveService(db *gorm.DB) *ArchiveService {
	return &ArchiveService{DB: db, Now: time.Now}
}

/* =========================================================
   MIGRATE AGING (hot -> cold)
   ========================================================= */

// MigrateAging memindah baris hot bertanggal lebih tua dari window
// retensi. Satu transaksi per baris; baris gagal dicatat dan dilewati
// supaya satu baris korup tidak menggagalkan seluruh batch.
func (s *ArchiveService) MigrateAging(ctx context.Context, retentionDays int) (moved, failed int, err error) {
	cutoff := timezone.AddDays(timezone.Today(s.Now()), -retentionDays)

	var rows []model.DailyAttendanceModel
	if err := s.DB.WithContext(ctx).
		Where("daily_attendance_date < ?", cutoff).
		Order("daily_attendance_date ASC").
		Find(&rows).Error; err != nil {
		return 0, 0, err
	}

	for i := range rows {
		if err := s.migrateOne(ctx, &rows[i]); err != nil {
			failed++
			log.Printf("[ARCHIVE] migrate %s %s gagal: %v",
				rows[i].DailyAttendanceEmployeeID, timezone.FormatDate(rows[i].DailyAttendanceDate), err)
			continue
		}
		moved++
	}
	return moved, failed, nil
}

func (s *ArchiveService) migrateOne(ctx context.Context, row *model.DailyAttendanceModel) error {
	return s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		originalID := row.DailyAttendanceID
		archived := model.ArchivedAttendanceModel{
			ArchivedAttendanceEmployeeID:        row.DailyAttendanceEmployeeID,
			ArchivedAttendanceDate:              row.DailyAttendanceDate,
			ArchivedAttendanceTotalWorkSeconds:  row.DailyAttendanceTotalWorkSeconds,
			ArchivedAttendanceTotalBreakSeconds: row.DailyAttendanceTotalBreakSeconds,
			ArchivedAttendanceSessionCount:      row.DailyAttendanceSessionCount,
			ArchivedAttendanceFirstClockIn:      row.DailyAttendanceFirstClockIn,
			ArchivedAttendanceLastClockOut:      row.DailyAttendanceLastClockOut,
			ArchivedAttendanceStatus:            row.DailyAttendanceStatus,
			ArchivedAttendanceArchivedAt:        s.Now().UTC(),
			ArchivedAttendanceOriginalDailyID:   &originalID,
		}
		// Run sebelumnya bisa saja sudah menyalin tapi gagal menghapus hot;
		// DoNothing membuat rerun tetap mulus.
		if err := tx.Clauses(clause.OnConflict{
			Columns: []clause.Column{
				{Name: "archived_attendance_employee_id"},
				{Name: "archived_attendance_date"},
			},
			DoNothing: true,
		}).Create(&archived).Error; err != nil {
			return err
		}

		// Sesi yang masih menunjuk baris hot dilepas dulu, baru hot dihapus.
		if err := tx.Model(&sessionModel.WorkSessionModel{}).
			Where("work_session_daily_attendance_id = ?", originalID).
			Update("work_session_daily_attendance_id", nil).Error; err != nil {
			return err
		}

		return tx.Delete(&model.DailyAttendanceModel{}, "daily_attendance_id = ?", originalID).Error
	})
}

/* =========================================================
   PURGE EXPIRED (cold -> gone)
   ========================================================= */

// PurgeExpired hapus permanen arsip yang lebih tua dari window dingin.
func (s *ArchiveService) PurgeExpired(ctx context.Context, retentionDays int) (int64, error) {
	cutoff := timezone.AddDays(timezone.Today(s.Now()), -retentionDays)

	res := s.DB.WithContext(ctx).
		Where("archived_attendance_date < ?", cutoff).
		Delete(&model.ArchivedAttendanceModel{})
	return res.RowsAffected, res.Error
}

/* =========================================================
   CROSS-TIER SUMMARY
   ========================================================= */

type DaySummary struct {
	Date              time.Time              `json:"date"`
	Tier              string                 `json:"tier"`
	TotalWorkSeconds  int64                  `json:"total_work_seconds"`
	TotalBreakSeconds int64                  `json:"total_break_seconds"`
	SessionCount      int                    `json:"session_count"`
	FirstClockIn      *time.Time             `json:"first_clock_in,omitempty"`
	LastClockOut      *time.Time             `json:"last_clock_out,omitempty"`
	Status            model.AttendanceStatus `json:"status"`
}

type SummaryRollup struct {
	Days               int            `json:"days"`
	DaysPresent        int            `json:"days_present"`
	TotalWorkSeconds   int64          `json:"total_work_seconds"`
	TotalBreakSeconds  int64          `json:"total_break_seconds"`
	AverageWorkSeconds int64          `json:"average_work_seconds"`
	StatusCounts       map[string]int `json:"status_counts"`
}

type EmployeeSummary struct {
	EmployeeID uuid.UUID     `json:"employee_id"`
	From       time.Time     `json:"from"`
	To         time.Time     `json:"to"`
	Days       []DaySummary  `json:"days"`
	Rollup     SummaryRollup `json:"rollup"`
}

// GetSummary menggabungkan tier hot dan arsip jadi satu deret harian
// berbentuk seragam, urut tanggal. Caller tidak perlu tahu baris mana
// tinggal di mana.
func (s *ArchiveService) GetSummary(ctx context.Context, employeeID uuid.UUID, from, to time.Time) (*EmployeeSummary, error) {
	from = timezone.DateOf(from)
	to = timezone.DateOf(to)
	if to.Before(from) {
		return nil, fmt.Errorf("summary range %s..%s: %w",
			timezone.FormatDate(from), timezone.FormatDate(to), apperr.ErrInvalidRange)
	}

	byDate := map[string]DaySummary{}

	var cold []model.ArchivedAttendanceModel
	if err := s.DB.WithContext(ctx).
		Where("archived_attendance_employee_id = ? AND archived_attendance_date >= ? AND archived_attendance_date <= ?",
			employeeID, from, to).
		Find(&cold).Error; err != nil {
		return nil, err
	}
	for i := range cold {
		r := &cold[i]
		byDate[timezone.FormatDate(r.ArchivedAttendanceDate)] = DaySummary{
			Date:              r.ArchivedAttendanceDate,
			Tier:              "cold",
			TotalWorkSeconds:  r.ArchivedAttendanceTotalWorkSeconds,
			TotalBreakSeconds: r.ArchivedAttendanceTotalBreakSeconds,
			SessionCount:      r.ArchivedAttendanceSessionCount,
			FirstClockIn:      r.ArchivedAttendanceFirstClockIn,
			LastClockOut:      r.ArchivedAttendanceLastClockOut,
			Status:            r.ArchivedAttendanceStatus,
		}
	}

	var hot []model.DailyAttendanceModel
	if err := s.DB.WithContext(ctx).
		Where("daily_attendance_employee_id = ? AND daily_attendance_date >= ? AND daily_attendance_date <= ?",
			employeeID, from, to).
		Find(&hot).Error; err != nil {
		return nil, err
	}
	// Tanggal yang kebetulan ada di dua tier (migrasi setengah jalan)
	// dimenangkan baris hot karena itu yang paling mutakhir.
	for i := range hot {
		r := &hot[i]
		byDate[timezone.FormatDate(r.DailyAttendanceDate)] = DaySummary{
			Date:              r.DailyAttendanceDate,
			Tier:              "hot",
			TotalWorkSeconds:  r.DailyAttendanceTotalWorkSeconds,
			TotalBreakSeconds: r.DailyAttendanceTotalBreakSeconds,
			SessionCount:      r.DailyAttendanceSessionCount,
			FirstClockIn:      r.DailyAttendanceFirstClockIn,
			LastClockOut:      r.DailyAttendanceLastClockOut,
			Status:            r.DailyAttendanceStatus,
		}
	}

	if len(byDate) == 0 {
		return nil, fmt.Errorf("no attendance in range: %w", apperr.ErrNotFound)
	}

	out := &EmployeeSummary{EmployeeID: employeeID, From: from, To: to}
	out.Days = make([]DaySummary, 0, len(byDate))
	for _, d := range byDate {
		out.Days = append(out.Days, d)
	}
	sort.Slice(out.Days, func(i, j int) bool { return out.Days[i].Date.Before(out.Days[j].Date) })
	out.Rollup = rollup(out.Days)
	return out, nil
}

func rollup(days []DaySummary) SummaryRollup {
	r := SummaryRollup{StatusCounts: map[string]int{}}
	workedDays := 0
	for _, d := range days {
		r.Days++
		r.StatusCounts[string(d.Status)]++
		r.TotalWorkSeconds += d.TotalWorkSeconds
		r.TotalBreakSeconds += d.TotalBreakSeconds
		if d.SessionCount > 0 {
			r.DaysPresent++
		}
		if d.TotalWorkSeconds > 0 {
			workedDays++
		}
	}
	if workedDays > 0 {
		r.AverageWorkSeconds = r.TotalWorkSeconds / int64(workedDays)
	}
	return r
}
