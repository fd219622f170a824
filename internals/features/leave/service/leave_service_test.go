package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"kantorku_backend/internals/apperr"
	summaryModel "kantorku_backend/internals/features/attendance/summary/model"
	summaryService "kantorku_backend/internals/features/attendance/summary/service"
	"kantorku_backend/internals/features/leave/model"
	"kantorku_backend/internals/helpers/timezone"
	"kantorku_backend/internals/testutil"
)

func newLeaveStack(t *testing.T, clk *testutil.Clock) (*LeaveService, *LeaveCoinService, *gorm.DB) {
	t.Helper()
	db := testutil.OpenTestDB(t)

	agg := summaryService.NewAggregationService(db)
	agg.Now = clk.NowFunc()

	leave := NewLeaveService(db, agg)
	leave.Now = clk.NowFunc()

	coins := NewLeaveCoinService(db)
	coins.Now = clk.NowFunc()
	return leave, coins, db
}

func seedCoin(t *testing.T, db *gorm.DB, emp uuid.UUID, grantedAt, expiresAt time.Time) uuid.UUID {
	t.Helper()
	coin := model.LeaveCoinModel{
		LeaveCoinEmployeeID: emp,
		LeaveCoinGrantedAt:  grantedAt.UTC(),
		LeaveCoinExpiresAt:  expiresAt.UTC(),
		LeaveCoinRemaining:  1,
	}
	if err := db.Create(&coin).Error; err != nil {
		t.Fatalf("seed coin: %v", err)
	}
	return coin.LeaveCoinID
}

func TestGrantMonthlyCapAndIdempotence(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	clk := testutil.NewClock(now)
	_, coins, db := newLeaveStack(t, clk)

	fresh := testutil.NewEmployee(t, db, "Vina Oktaviani")
	capped := testutil.NewEmployee(t, db, "Wawan Kurniawan")

	// Karyawan kedua sudah di plafon: 10 koin hidup dari bulan-bulan lalu.
	for i := 0; i < 10; i++ {
		granted := now.AddDate(0, -i-1, 0)
		seedCoin(t, db, capped, granted, granted.AddDate(0, 12, 0))
	}

	granted, skipped, err := coins.GrantMonthly(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if granted != 1 || skipped != 1 {
		t.Fatalf("granted=%d skipped=%d, mau 1/1", granted, skipped)
	}

	balance, err := coins.Balance(ctx, fresh)
	if err != nil {
		t.Fatal(err)
	}
	if balance != 1 {
		t.Fatalf("saldo = %d, mau 1", balance)
	}

	// Rerun di bulan yang sama: guard per bulan menahan grant dobel.
	granted, _, err = coins.GrantMonthly(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if granted != 0 {
		t.Fatalf("rerun granted = %d, mau 0", granted)
	}

	cappedBalance, _ := coins.Balance(ctx, capped)
	if cappedBalance != 10 {
		t.Fatalf("saldo plafon = %d, mau tetap 10", cappedBalance)
	}
}

func TestApproveConsumesEarliestExpiringCoin(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	clk := testutil.NewClock(now)
	leave, coins, db := newLeaveStack(t, clk)
	emp := testutil.NewEmployee(t, db, "Yanti Komala")
	admin := uuid.New()

	// Dua koin: yang lebih tua expiry-nya lebih dekat, harus kepakai duluan.
	soonID := seedCoin(t, db, emp, now.AddDate(0, -11, 0), now.AddDate(0, 1, 0))
	seedCoin(t, db, emp, now.AddDate(0, -1, 0), now.AddDate(0, 11, 0))

	date := timezone.AddDays(timezone.Today(now), 3)
	req, err := leave.Request(ctx, emp, date, "annual", "acara keluarga")
	if err != nil {
		t.Fatal(err)
	}

	approved, err := leave.Approve(ctx, req.LeaveRequestID, admin, "ok")
	if err != nil {
		t.Fatal(err)
	}
	if approved.LeaveRequestCoinID == nil || *approved.LeaveRequestCoinID != soonID {
		t.Error("koin yang dikonsumsi harus yang paling dekat expiry")
	}

	balance, _ := coins.Balance(ctx, emp)
	if balance != 1 {
		t.Fatalf("saldo = %d, mau 1", balance)
	}

	var txns []model.LeaveCoinTxnModel
	if err := db.Where("leave_coin_txn_employee_id = ? AND leave_coin_txn_type = ?", emp, model.LeaveCoinTxnConsume).
		Find(&txns).Error; err != nil {
		t.Fatal(err)
	}
	if len(txns) != 1 {
		t.Fatalf("jurnal consume = %d, mau 1", len(txns))
	}
}

func TestLeaveLifecycleDrivesDailyStatus(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	clk := testutil.NewClock(now)
	leave, coins, db := newLeaveStack(t, clk)
	emp := testutil.NewEmployee(t, db, "Zaki Maulana")
	admin := uuid.New()

	seedCoin(t, db, emp, now, now.AddDate(0, 12, 0))
	date := timezone.AddDays(timezone.Today(now), 2)

	req, err := leave.Request(ctx, emp, date, "annual", "mudik")
	if err != nil {
		t.Fatal(err)
	}

	if _, err := leave.Approve(ctx, req.LeaveRequestID, admin, ""); err != nil {
		t.Fatal(err)
	}

	var daily summaryModel.DailyAttendanceModel
	if err := db.First(&daily, "daily_attendance_date = ?", date).Error; err != nil {
		t.Fatalf("marker approved harus membuat baris daily: %v", err)
	}
	if daily.DailyAttendanceStatus != summaryModel.AttendanceStatusLeave {
		t.Fatalf("status = %s, mau leave", daily.DailyAttendanceStatus)
	}

	// Cancel: koin balik, marker dicopot, baris hari depan ikut hilang.
	if _, err := leave.Cancel(ctx, req.LeaveRequestID, emp); err != nil {
		t.Fatal(err)
	}

	balance, _ := coins.Balance(ctx, emp)
	if balance != 1 {
		t.Fatalf("saldo setelah cancel = %d, mau 1", balance)
	}

	err = db.First(&summaryModel.DailyAttendanceModel{}, "daily_attendance_date = ?", date).Error
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		t.Errorf("baris daily tanggal depan harus hilang setelah cancel, err = %v", err)
	}

	var restored []model.LeaveCoinTxnModel
	if err := db.Where("leave_coin_txn_employee_id = ? AND leave_coin_txn_type = ?", emp, model.LeaveCoinTxnRestore).
		Find(&restored).Error; err != nil {
		t.Fatal(err)
	}
	if len(restored) != 1 {
		t.Errorf("jurnal restore = %d, mau 1", len(restored))
	}
}

func TestRequestGuards(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	clk := testutil.NewClock(now)
	leave, _, db := newLeaveStack(t, clk)
	emp := testutil.NewEmployee(t, db, "Agus Salim")

	t.Run("tanpa saldo", func(t *testing.T) {
		_, err := leave.Request(ctx, emp, timezone.AddDays(timezone.Today(now), 1), "annual", "")
		if !errors.Is(err, apperr.ErrInsufficientCoins) {
			t.Fatalf("err = %v, mau ErrInsufficientCoins", err)
		}
	})

	seedCoin(t, db, emp, now, now.AddDate(0, 12, 0))

	t.Run("tanggal lewat", func(t *testing.T) {
		_, err := leave.Request(ctx, emp, timezone.AddDays(timezone.Today(now), -1), "annual", "")
		if !errors.Is(err, apperr.ErrInvalidRange) {
			t.Fatalf("err = %v, mau ErrInvalidRange", err)
		}
	})

	t.Run("dobel di tanggal sama", func(t *testing.T) {
		date := timezone.AddDays(timezone.Today(now), 5)
		if _, err := leave.Request(ctx, emp, date, "annual", ""); err != nil {
			t.Fatal(err)
		}
		_, err := leave.Request(ctx, emp, date, "annual", "")
		if !errors.Is(err, apperr.ErrDuplicate) {
			t.Fatalf("err = %v, mau ErrDuplicate", err)
		}
	})
}

func TestApproveWithoutBalanceRollsBack(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	clk := testutil.NewClock(now)
	leave, _, db := newLeaveStack(t, clk)
	emp := testutil.NewEmployee(t, db, "Bella Puspita")
	admin := uuid.New()

	// Saldo cukup saat request, lalu koinnya keburu expire sebelum approve.
	seedCoin(t, db, emp, now.AddDate(0, -12, 0).AddDate(0, 0, 1), now.Add(time.Hour))
	date := timezone.AddDays(timezone.Today(now), 3)
	req, err := leave.Request(ctx, emp, date, "annual", "")
	if err != nil {
		t.Fatal(err)
	}

	clk.Advance(2 * time.Hour)

	_, err = leave.Approve(ctx, req.LeaveRequestID, admin, "")
	if !errors.Is(err, apperr.ErrInsufficientCoins) {
		t.Fatalf("err = %v, mau ErrInsufficientCoins", err)
	}

	// Transaksi approve batal total: request tetap pending.
	var after model.LeaveRequestModel
	if err := db.First(&after, "leave_request_id = ?", req.LeaveRequestID).Error; err != nil {
		t.Fatal(err)
	}
	if after.LeaveRequestStatus != model.LeaveStatusPending {
		t.Errorf("status = %s, mau tetap pending", after.LeaveRequestStatus)
	}
}

func TestRejectAndDoubleDecision(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	clk := testutil.NewClock(now)
	leave, coins, db := newLeaveStack(t, clk)
	emp := testutil.NewEmployee(t, db, "Candra Wijaya")
	admin := uuid.New()

	seedCoin(t, db, emp, now, now.AddDate(0, 12, 0))
	date := timezone.AddDays(timezone.Today(now), 4)
	req, err := leave.Request(ctx, emp, date, "annual", "")
	if err != nil {
		t.Fatal(err)
	}

	rejected, err := leave.Reject(ctx, req.LeaveRequestID, admin, "tanggal sibuk")
	if err != nil {
		t.Fatal(err)
	}
	if rejected.LeaveRequestStatus != model.LeaveStatusRejected {
		t.Fatalf("status = %s, mau rejected", rejected.LeaveRequestStatus)
	}

	// Reject tidak menyentuh koin.
	balance, _ := coins.Balance(ctx, emp)
	if balance != 1 {
		t.Errorf("saldo = %d, mau 1", balance)
	}

	// Keputusan kedua atas request yang sama ditolak.
	_, err = leave.Approve(ctx, req.LeaveRequestID, admin, "")
	if !errors.Is(err, apperr.ErrConflict) {
		t.Fatalf("err = %v, mau ErrConflict", err)
	}
}

func TestExpireCoinsJournals(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	clk := testutil.NewClock(now)
	_, coins, db := newLeaveStack(t, clk)
	emp := testutil.NewEmployee(t, db, "Dewi Sartika")

	seedCoin(t, db, emp, now.AddDate(0, -13, 0), now.AddDate(0, -1, 0))
	seedCoin(t, db, emp, now.AddDate(0, -1, 0), now.AddDate(0, 11, 0))

	expired, err := coins.ExpireCoins(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if expired != 1 {
		t.Fatalf("expired = %d, mau 1", expired)
	}

	balance, _ := coins.Balance(ctx, emp)
	if balance != 1 {
		t.Errorf("saldo = %d, mau 1", balance)
	}

	var journal []model.LeaveCoinTxnModel
	if err := db.Where("leave_coin_txn_employee_id = ? AND leave_coin_txn_type = ?", emp, model.LeaveCoinTxnExpire).
		Find(&journal).Error; err != nil {
		t.Fatal(err)
	}
	if len(journal) != 1 {
		t.Errorf("jurnal expire = %d, mau 1", len(journal))
	}
}
