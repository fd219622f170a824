package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"kantorku_backend/internals/apperr"
	"kantorku_backend/internals/features/leave/model"
	userModel "kantorku_backend/internals/features/users/user/model"
	"kantorku_backend/internals/helpers/timezone"
)

/* =========================================================
   LEAVE COIN WALLET
   =========================================================
   Saldo cuti per karyawan: satu koin per bulan, plafon 10, umur koin
   12 bulan. Konsumsi FIFO by expiry (yang paling cepat hangus dipakai
   duluan). Semua mutasi dicatat ke jurnal leave_coin_txns.
*/

const (
	coinCap       = 10
	coinLifeMonth = 12
)

type LeaveCoinService struct {
	DB  *gorm.DB
	Now func() time.Time
}

func NewLeaveCoinService(db *gorm.DB) *LeaveCoinService {
	return &LeaveCoinService{DB: db, Now: time.Now}
}

/* =========================================================
   GRANT BULANAN (dipanggil scheduler tiap awal bulan)
   ========================================================= */

// GrantMonthly kasih satu koin ke tiap karyawan aktif yang saldonya di
// bawah plafon. Guard per bulan: karyawan yang sudah kebagian koin di
// bulan lokal berjalan dilewati, jadi rerun di bulan yang sama aman.
func (s *LeaveCoinService) GrantMonthly(ctx context.Context) (granted, skipped int, err error) {
	now := s.Now().UTC()
	monthStart, nextMonth := monthWindow(now)

	var employeeIDs []uuid.UUID
	if err := s.DB.WithContext(ctx).Model(&userModel.EmployeeModel{}).
		Where("employee_is_active = ?", true).
		Pluck("employee_id", &employeeIDs).Error; err != nil {
		return 0, 0, err
	}

	for _, id := range employeeIDs {
		ok, gerr := s.grantOne(ctx, id, now, monthStart, nextMonth)
		if gerr != nil {
			log.Printf("[COIN] grant %s gagal: %v", id, gerr)
			skipped++
			continue
		}
		if ok {
			granted++
		} else {
			skipped++
		}
	}
	return granted, skipped, nil
}

func (s *LeaveCoinService) grantOne(ctx context.Context, employeeID uuid.UUID, now, monthStart, nextMonth time.Time) (bool, error) {
	var granted bool
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var already int64
		if err := tx.Model(&model.LeaveCoinModel{}).
			Where("leave_coin_employee_id = ? AND leave_coin_granted_at >= ? AND leave_coin_granted_at < ?",
				employeeID, monthStart, nextMonth).
			Count(&already).Error; err != nil {
			return err
		}
		if already > 0 {
			return nil
		}

		balance, err := balanceIn(tx, employeeID, now)
		if err != nil {
			return err
		}
		if balance >= coinCap {
			return nil
		}

		coin := model.LeaveCoinModel{
			LeaveCoinEmployeeID: employeeID,
			LeaveCoinGrantedAt:  now,
			LeaveCoinExpiresAt:  now.AddDate(0, coinLifeMonth, 0),
			LeaveCoinRemaining:  1,
		}
		if err := tx.Create(&coin).Error; err != nil {
			return err
		}
		granted = true
		return journal(tx, employeeID, model.LeaveCoinTxnGrant, 1, "grant bulanan")
	})
	return granted, err
}

// monthWindow: [awal bulan lokal, awal bulan berikutnya) dalam UTC.
func monthWindow(now time.Time) (time.Time, time.Time) {
	lt := now.In(timezone.Location())
	start := time.Date(lt.Year(), lt.Month(), 1, 0, 0, 0, 0, lt.Location())
	return start.UTC(), start.AddDate(0, 1, 0).UTC()
}

/* =========================================================
   EXPIRE / BALANCE
   ========================================================= */

// ExpireCoins matikan koin yang lewat umur. Jalan bareng job bulanan.
func (s *LeaveCoinService) ExpireCoins(ctx context.Context) (int64, error) {
	now := s.Now().UTC()

	var stale []model.LeaveCoinModel
	if err := s.DB.WithContext(ctx).
		Where("leave_coin_remaining > 0 AND leave_coin_expires_at <= ?", now).
		Find(&stale).Error; err != nil {
		return 0, err
	}

	var expired int64
	for i := range stale {
		coin := &stale[i]
		err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			if err := tx.Model(coin).Update("leave_coin_remaining", 0).Error; err != nil {
				return err
			}
			return journal(tx, coin.LeaveCoinEmployeeID, model.LeaveCoinTxnExpire, -1, "koin lewat umur")
		})
		if err != nil {
			log.Printf("[COIN] expire %s gagal: %v", coin.LeaveCoinID, err)
			continue
		}
		expired++
	}
	return expired, nil
}

func (s *LeaveCoinService) Balance(ctx context.Context, employeeID uuid.UUID) (int, error) {
	return balanceIn(s.DB.WithContext(ctx), employeeID, s.Now().UTC())
}

func balanceIn(tx *gorm.DB, employeeID uuid.UUID, now time.Time) (int, error) {
	var n int64
	err := tx.Model(&model.LeaveCoinModel{}).
		Where("leave_coin_employee_id = ? AND leave_coin_remaining > 0 AND leave_coin_expires_at > ?", employeeID, now).
		Count(&n).Error
	return int(n), err
}

/* =========================================================
   CONSUME / RESTORE (dipanggil dalam transaksi approve/cancel)
   ========================================================= */

// consumeOne ambil satu koin FIFO by expiry. Dipanggil di dalam transaksi
// approve supaya koin dan status request komit bareng.
func consumeOne(tx *gorm.DB, employeeID uuid.UUID, now time.Time) (*model.LeaveCoinModel, error) {
	var coin model.LeaveCoinModel
	err := tx.Where("leave_coin_employee_id = ? AND leave_coin_remaining > 0 AND leave_coin_expires_at > ?", employeeID, now).
		Order("leave_coin_expires_at ASC").
		First(&coin).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("saldo koin cuti habis: %w", apperr.ErrInsufficientCoins)
	}
	if err != nil {
		return nil, err
	}

	if err := tx.Model(&coin).Update("leave_coin_remaining", 0).Error; err != nil {
		return nil, err
	}
	if err := journal(tx, employeeID, model.LeaveCoinTxnConsume, -1, "approve cuti"); err != nil {
		return nil, err
	}
	return &coin, nil
}

// restoreCoin hidupkan lagi koin yang tadinya dikonsumsi. Kalau koinnya
// keburu lewat umur, pengembalian dicatat di jurnal tapi saldo tidak naik.
func restoreCoin(tx *gorm.DB, employeeID uuid.UUID, coinID uuid.UUID, now time.Time) error {
	var coin model.LeaveCoinModel
	if err := tx.First(&coin, "leave_coin_id = ?", coinID).Error; err != nil {
		return err
	}

	if !coin.LeaveCoinExpiresAt.After(now) {
		return journal(tx, employeeID, model.LeaveCoinTxnAdjust, 0, "cancel cuti, koin sudah lewat umur")
	}

	if err := tx.Model(&coin).Update("leave_coin_remaining", 1).Error; err != nil {
		return err
	}
	return journal(tx, employeeID, model.LeaveCoinTxnRestore, 1, "cancel cuti")
}

func journal(tx *gorm.DB, employeeID uuid.UUID, typ model.LeaveCoinTxnType, amount int, note string) error {
	return tx.Create(&model.LeaveCoinTxnModel{
		LeaveCoinTxnEmployeeID: employeeID,
		LeaveCoinTxnType:       typ,
		LeaveCoinTxnAmount:     amount,
		LeaveCoinTxnNote:       note,
	}).Error
}

/* =========================================================
   WALLET VIEW
   ========================================================= */

type WalletView struct {
	Balance    int                       `json:"balance"`
	NextExpiry *time.Time                `json:"next_expiry,omitempty"`
	RecentTxns []model.LeaveCoinTxnModel `json:"recent_txns"`
}

func (s *LeaveCoinService) Wallet(ctx context.Context, employeeID uuid.UUID) (*WalletView, error) {
	now := s.Now().UTC()

	balance, err := balanceIn(s.DB.WithContext(ctx), employeeID, now)
	if err != nil {
		return nil, err
	}

	view := &WalletView{Balance: balance}

	var next model.LeaveCoinModel
	err = s.DB.WithContext(ctx).
		Where("leave_coin_employee_id = ? AND leave_coin_remaining > 0 AND leave_coin_expires_at > ?", employeeID, now).
		Order("leave_coin_expires_at ASC").
		First(&next).Error
	if err == nil {
		view.NextExpiry = &next.LeaveCoinExpiresAt
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	if err := s.DB.WithContext(ctx).
		Where("leave_coin_txn_employee_id = ?", employeeID).
		Order("created_at DESC").
		Limit(10).
		Find(&view.RecentTxns).Error; err != nil {
		return nil, err
	}
	return view, nil
}
