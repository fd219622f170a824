package service

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"kantorku_backend/internals/apperr"
	sessionModel "kantorku_backend/internals/features/attendance/sessions/model"
	"kantorku_backend/internals/features/attendance/summary/model"
	"kantorku_backend/internals/helpers/timezone"
	"kantorku_backend/internals/testutil"
)

func newArchiver(t *testing.T, clk *testutil.Clock) (*ArchiveService, *gorm.DB) {
	t.Helper()
	db := testutil.OpenTestDB(t)
	svc := NewArchiveService(db)
	svc.Now = clk.NowFunc()
	return svc, db
}

func seedDaily(t *testing.T, db *gorm.DB, emp uuid.UUID, date time.Time, work int64, status model.AttendanceStatus) uuid.UUID {
	t.Helper()
	row := model.DailyAttendanceModel{
		DailyAttendanceEmployeeID:       emp,
		DailyAttendanceDate:             date,
		DailyAttendanceTotalWorkSeconds: work,
		DailyAttendanceSessionCount:     1,
		DailyAttendanceStatus:           status,
	}
	if err := db.Create(&row).Error; err != nil {
		t.Fatalf("seed daily: %v", err)
	}
	return row.DailyAttendanceID
}

func seedArchived(t *testing.T, db *gorm.DB, emp uuid.UUID, date time.Time, work int64, status model.AttendanceStatus) {
	t.Helper()
	row := model.ArchivedAttendanceModel{
		ArchivedAttendanceEmployeeID:       emp,
		ArchivedAttendanceDate:             date,
		ArchivedAttendanceTotalWorkSeconds: work,
		ArchivedAttendanceSessionCount:     1,
		ArchivedAttendanceStatus:           status,
		ArchivedAttendanceArchivedAt:       time.Now().UTC(),
	}
	if err := db.Create(&row).Error; err != nil {
		t.Fatalf("seed archived: %v", err)
	}
}

func TestMigrateAgingMovesOldRows(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, timezone.Location())
	clk := testutil.NewClock(now)
	svc, db := newArchiver(t, clk)
	emp := testutil.NewEmployee(t, db, "Putri Rahayu")

	today := timezone.Today(now)
	oldDate := timezone.AddDays(today, -31)
	youngDate := timezone.AddDays(today, -29)

	oldID := seedDaily(t, db, emp, oldDate, 4*3600, model.AttendanceStatusPartial)
	seedDaily(t, db, emp, youngDate, 8*3600, model.AttendanceStatusComplete)

	// Sesi lama masih menunjuk baris hot; migrasi harus melepasnya.
	sess := sessionModel.WorkSessionModel{
		WorkSessionEmployeeID:        emp,
		WorkSessionClockIn:           oldDate.Add(9 * time.Hour),
		WorkSessionDailyAttendanceID: &oldID,
	}
	if err := db.Create(&sess).Error; err != nil {
		t.Fatal(err)
	}

	moved, failed, err := svc.MigrateAging(ctx, 30)
	if err != nil {
		t.Fatal(err)
	}
	if moved != 1 || failed != 0 {
		t.Fatalf("moved=%d failed=%d, mau 1/0", moved, failed)
	}

	var archived model.ArchivedAttendanceModel
	if err := db.First(&archived, "archived_attendance_employee_id = ?", emp).Error; err != nil {
		t.Fatalf("baris arsip tidak ada: %v", err)
	}
	if !archived.ArchivedAttendanceDate.Equal(oldDate) {
		t.Errorf("tanggal arsip = %v, mau %v", archived.ArchivedAttendanceDate, oldDate)
	}
	if archived.ArchivedAttendanceTotalWorkSeconds != 4*3600 {
		t.Errorf("work arsip = %d, mau %d", archived.ArchivedAttendanceTotalWorkSeconds, 4*3600)
	}
	if archived.ArchivedAttendanceOriginalDailyID == nil || *archived.ArchivedAttendanceOriginalDailyID != oldID {
		t.Error("original_daily_id tidak menunjuk baris hot asli")
	}

	var hotCount int64
	if err := db.Model(&model.DailyAttendanceModel{}).Count(&hotCount).Error; err != nil {
		t.Fatal(err)
	}
	if hotCount != 1 {
		t.Fatalf("baris hot sisa = %d, mau 1 (yang muda saja)", hotCount)
	}

	var sessAfter sessionModel.WorkSessionModel
	if err := db.First(&sessAfter, "work_session_id = ?", sess.WorkSessionID).Error; err != nil {
		t.Fatal(err)
	}
	if sessAfter.WorkSessionDailyAttendanceID != nil {
		t.Error("referensi sesi ke baris hot harus di-null-kan")
	}

	// Rerun: predicate sudah tidak menangkap apa-apa.
	moved, failed, err = svc.MigrateAging(ctx, 30)
	if err != nil {
		t.Fatal(err)
	}
	if moved != 0 || failed != 0 {
		t.Errorf("rerun moved=%d failed=%d, mau 0/0", moved, failed)
	}
}

func TestMigrateAgingSkipsFailingRow(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, timezone.Location())
	clk := testutil.NewClock(now)
	svc, db := newArchiver(t, clk)
	blocked := testutil.NewEmployee(t, db, "Qori Amalia")
	healthy := testutil.NewEmployee(t, db, "Rudi Hartono")

	oldDate := timezone.AddDays(timezone.Today(now), -40)
	seedDaily(t, db, blocked, oldDate, 3600, model.AttendanceStatusPartial)
	seedDaily(t, db, healthy, oldDate, 7200, model.AttendanceStatusPartial)

	// Trigger mensimulasikan storage menolak persis satu baris.
	ddl := fmt.Sprintf(`CREATE TRIGGER block_one_archive BEFORE INSERT ON archived_attendance
WHEN NEW.archived_attendance_employee_id = '%s'
BEGIN SELECT RAISE(ABORT, 'simulated storage failure'); END`, blocked.String())
	if err := db.Exec(ddl).Error; err != nil {
		t.Fatalf("pasang trigger: %v", err)
	}

	moved, failed, err := svc.MigrateAging(ctx, 30)
	if err != nil {
		t.Fatal(err)
	}
	if moved != 1 || failed != 1 {
		t.Fatalf("moved=%d failed=%d, mau 1/1", moved, failed)
	}

	// Baris gagal tetap utuh di hot, tidak setengah pindah.
	var stuck model.DailyAttendanceModel
	if err := db.First(&stuck, "daily_attendance_employee_id = ?", blocked).Error; err != nil {
		t.Fatalf("baris gagal harus tetap di hot: %v", err)
	}

	// Setelah storage pulih, rerun memindahkan sisanya.
	if err := db.Exec(`DROP TRIGGER block_one_archive`).Error; err != nil {
		t.Fatal(err)
	}
	moved, failed, err = svc.MigrateAging(ctx, 30)
	if err != nil {
		t.Fatal(err)
	}
	if moved != 1 || failed != 0 {
		t.Errorf("rerun moved=%d failed=%d, mau 1/0", moved, failed)
	}
}

func TestMigrateResumesHalfMigratedRow(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, timezone.Location())
	clk := testutil.NewClock(now)
	svc, db := newArchiver(t, clk)
	emp := testutil.NewEmployee(t, db, "Sari Indah")

	oldDate := timezone.AddDays(timezone.Today(now), -35)
	seedDaily(t, db, emp, oldDate, 3600, model.AttendanceStatusPartial)
	// Run sebelumnya sempat menyalin ke arsip tapi gagal menghapus hot.
	seedArchived(t, db, emp, oldDate, 3600, model.AttendanceStatusPartial)

	moved, failed, err := svc.MigrateAging(ctx, 30)
	if err != nil {
		t.Fatal(err)
	}
	if moved != 1 || failed != 0 {
		t.Fatalf("moved=%d failed=%d, mau 1/0", moved, failed)
	}

	var hotCount, coldCount int64
	db.Model(&model.DailyAttendanceModel{}).Count(&hotCount)
	db.Model(&model.ArchivedAttendanceModel{}).Count(&coldCount)
	if hotCount != 0 || coldCount != 1 {
		t.Errorf("hot=%d cold=%d, mau 0/1", hotCount, coldCount)
	}
}

func TestPurgeExpiredRespectsWindow(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, timezone.Location())
	clk := testutil.NewClock(now)
	svc, db := newArchiver(t, clk)
	emp := testutil.NewEmployee(t, db, "Tono Mulyadi")

	today := timezone.Today(now)
	seedArchived(t, db, emp, timezone.AddDays(today, -366), 3600, model.AttendanceStatusPartial)
	seedArchived(t, db, emp, timezone.AddDays(today, -364), 3600, model.AttendanceStatusPartial)

	deleted, err := svc.PurgeExpired(ctx, 365)
	if err != nil {
		t.Fatal(err)
	}
	if deleted != 1 {
		t.Fatalf("deleted = %d, mau 1", deleted)
	}

	var remaining []model.ArchivedAttendanceModel
	if err := db.Find(&remaining).Error; err != nil {
		t.Fatal(err)
	}
	if len(remaining) != 1 {
		t.Fatalf("sisa arsip = %d, mau 1", len(remaining))
	}
	if !remaining[0].ArchivedAttendanceDate.Equal(timezone.AddDays(today, -364)) {
		t.Error("yang tersisa harus baris 364 hari")
	}
}

func TestGetSummaryMergesTiers(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, timezone.Location())
	clk := testutil.NewClock(now)
	svc, db := newArchiver(t, clk)
	emp := testutil.NewEmployee(t, db, "Umar Said")

	today := timezone.Today(now)
	hotDate := timezone.AddDays(today, -5)
	coldDate := timezone.AddDays(today, -40)
	seedDaily(t, db, emp, hotDate, 4*3600, model.AttendanceStatusPartial)
	seedArchived(t, db, emp, coldDate, 8*3600, model.AttendanceStatusComplete)

	sum, err := svc.GetSummary(ctx, emp, timezone.AddDays(today, -45), today)
	if err != nil {
		t.Fatal(err)
	}
	if len(sum.Days) != 2 {
		t.Fatalf("days = %d, mau 2", len(sum.Days))
	}
	if sum.Days[0].Tier != "cold" || !sum.Days[0].Date.Equal(coldDate) {
		t.Errorf("hari pertama harus arsip %s, dapat %s %s",
			timezone.FormatDate(coldDate), sum.Days[0].Tier, timezone.FormatDate(sum.Days[0].Date))
	}
	if sum.Days[1].Tier != "hot" || !sum.Days[1].Date.Equal(hotDate) {
		t.Errorf("hari kedua harus hot %s", timezone.FormatDate(hotDate))
	}

	if sum.Rollup.TotalWorkSeconds != 12*3600 {
		t.Errorf("total work = %d, mau %d", sum.Rollup.TotalWorkSeconds, 12*3600)
	}
	if sum.Rollup.DaysPresent != 2 {
		t.Errorf("days present = %d, mau 2", sum.Rollup.DaysPresent)
	}
	if sum.Rollup.AverageWorkSeconds != 6*3600 {
		t.Errorf("rata-rata = %d, mau %d", sum.Rollup.AverageWorkSeconds, 6*3600)
	}
	if sum.Rollup.StatusCounts["partial"] != 1 || sum.Rollup.StatusCounts["complete"] != 1 {
		t.Errorf("status counts = %v", sum.Rollup.StatusCounts)
	}

	t.Run("rentang kosong", func(t *testing.T) {
		_, err := svc.GetSummary(ctx, emp, timezone.AddDays(today, -400), timezone.AddDays(today, -390))
		if !errors.Is(err, apperr.ErrNotFound) {
			t.Fatalf("err = %v, mau ErrNotFound", err)
		}
	})

	t.Run("rentang terbalik", func(t *testing.T) {
		_, err := svc.GetSummary(ctx, emp, today, timezone.AddDays(today, -5))
		if !errors.Is(err, apperr.ErrInvalidRange) {
			t.Fatalf("err = %v, mau ErrInvalidRange", err)
		}
	})
}
