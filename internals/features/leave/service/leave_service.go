package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"kantorku_backend/internals/apperr"
	"kantorku_backend/internals/features/leave/model"
	"kantorku_backend/internals/helpers/timezone"
)

/* =========================================================
   LEAVE LIFECYCLE
   =========================================================
   request (pending) -> approve/reject oleh admin -> cancel oleh pemilik.
   Approve mengkonsumsi satu koin dan memasang leave marker yang dibaca
   aggregator; cancel atas cuti approved mengembalikan koinnya dan
   membatalkan markernya. Recompute tanggal terdampak dipicu setelah
   approve/cancel commit.
*/

type Recomputer interface {
	Recompute(ctx context.Context, employeeID uuid.UUID, date time.Time) error
}

type LeaveService struct {
	DB  *gorm.DB
	Agg Recomputer
	Now func() time.Time
}

func NewLeaveService(db *gorm.DB, agg Recomputer) *LeaveService {
	return &LeaveService{DB: db, Agg: agg, Now: time.Now}
}

/* =========================================================
   REQUEST / CANCEL (sisi karyawan)
   ========================================================= */

func (s *LeaveService) Request(ctx context.Context, employeeID uuid.UUID, date time.Time, leaveType, reason string) (*model.LeaveRequestModel, error) {
	date = timezone.DateOf(date)
	now := s.Now().UTC()

	if date.Before(timezone.Today(now)) {
		return nil, fmt.Errorf("tanggal cuti %s sudah lewat: %w", timezone.FormatDate(date), apperr.ErrInvalidRange)
	}

	// Guard saldo di muka; konsumsi beneran baru terjadi saat approve.
	balance, err := balanceIn(s.DB.WithContext(ctx), employeeID, now)
	if err != nil {
		return nil, err
	}
	if balance <= 0 {
		return nil, fmt.Errorf("tidak ada saldo koin cuti: %w", apperr.ErrInsufficientCoins)
	}

	var existing int64
	err = s.DB.WithContext(ctx).Model(&model.LeaveRequestModel{}).
		Where("leave_request_employee_id = ? AND leave_request_date = ? AND leave_request_status IN ?",
			employeeID, date, []model.LeaveStatus{model.LeaveStatusPending, model.LeaveStatusApproved}).
		Count(&existing).Error
	if err != nil {
		return nil, err
	}
	if existing > 0 {
		return nil, fmt.Errorf("sudah ada pengajuan cuti untuk %s: %w", timezone.FormatDate(date), apperr.ErrDuplicate)
	}

	if leaveType == "" {
		leaveType = "annual"
	}
	req := model.LeaveRequestModel{
		LeaveRequestEmployeeID: employeeID,
		LeaveRequestDate:       date,
		LeaveRequestType:       leaveType,
		LeaveRequestReason:     reason,
		LeaveRequestStatus:     model.LeaveStatusPending,
	}
	if err := s.DB.WithContext(ctx).Create(&req).Error; err != nil {
		return nil, err
	}
	return &req, nil
}

// Cancel oleh pemilik request. Pending tinggal dibatalkan; approved juga
// mengembalikan koin dan mencopot leave marker dari tanggalnya.
func (s *LeaveService) Cancel(ctx context.Context, requestID, employeeID uuid.UUID) (*model.LeaveRequestModel, error) {
	now := s.Now().UTC()

	var req model.LeaveRequestModel
	wasApproved := false
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&req, "leave_request_id = ?", requestID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("pengajuan cuti tidak ditemukan: %w", apperr.ErrNotFound)
			}
			return err
		}
		if req.LeaveRequestEmployeeID != employeeID {
			return fmt.Errorf("bukan pengajuan milik anda: %w", apperr.ErrForbidden)
		}

		switch req.LeaveRequestStatus {
		case model.LeaveStatusPending:
			// langsung batal, tidak ada koin yang terlibat
		case model.LeaveStatusApproved:
			if req.LeaveRequestDate.Before(timezone.Today(now)) {
				return fmt.Errorf("cuti %s sudah berjalan, tidak bisa dibatalkan: %w",
					timezone.FormatDate(req.LeaveRequestDate), apperr.ErrInvalidRange)
			}
			if req.LeaveRequestCoinID != nil {
				if err := restoreCoin(tx, employeeID, *req.LeaveRequestCoinID, now); err != nil {
					return err
				}
			}
			wasApproved = true
		default:
			return fmt.Errorf("pengajuan sudah %s: %w", req.LeaveRequestStatus, apperr.ErrConflict)
		}

		req.LeaveRequestStatus = model.LeaveStatusCancelled
		return tx.Model(&req).Update("leave_request_status", model.LeaveStatusCancelled).Error
	})
	if err != nil {
		return nil, err
	}

	if wasApproved {
		s.notifyRecompute(ctx, employeeID, req.LeaveRequestDate)
	}
	return &req, nil
}

/* =========================================================
   APPROVE / REJECT (sisi admin)
   ========================================================= */

func (s *LeaveService) Approve(ctx context.Context, requestID, adminUserID uuid.UUID, note string) (*model.LeaveRequestModel, error) {
	now := s.Now().UTC()

	var req model.LeaveRequestModel
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := lockPending(tx, requestID, &req); err != nil {
			return err
		}

		coin, err := consumeOne(tx, req.LeaveRequestEmployeeID, now)
		if err != nil {
			return err
		}

		req.LeaveRequestStatus = model.LeaveStatusApproved
		req.LeaveRequestCoinID = &coin.LeaveCoinID
		req.LeaveRequestDecisionMeta = decisionMeta(adminUserID, now, note)
		return tx.Model(&req).Updates(map[string]any{
			"leave_request_status":        model.LeaveStatusApproved,
			"leave_request_coin_id":       coin.LeaveCoinID,
			"leave_request_decision_meta": req.LeaveRequestDecisionMeta,
		}).Error
	})
	if err != nil {
		return nil, err
	}

	// Marker approved sudah komit; status hari itu sekarang leave.
	s.notifyRecompute(ctx, req.LeaveRequestEmployeeID, req.LeaveRequestDate)
	return &req, nil
}

func (s *LeaveService) Reject(ctx context.Context, requestID, adminUserID uuid.UUID, note string) (*model.LeaveRequestModel, error) {
	now := s.Now().UTC()

	var req model.LeaveRequestModel
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := lockPending(tx, requestID, &req); err != nil {
			return err
		}
		req.LeaveRequestStatus = model.LeaveStatusRejected
		req.LeaveRequestDecisionMeta = decisionMeta(adminUserID, now, note)
		return tx.Model(&req).Updates(map[string]any{
			"leave_request_status":        model.LeaveStatusRejected,
			"leave_request_decision_meta": req.LeaveRequestDecisionMeta,
		}).Error
	})
	if err != nil {
		return nil, err
	}
	return &req, nil
}

func lockPending(tx *gorm.DB, requestID uuid.UUID, req *model.LeaveRequestModel) error {
	if err := tx.First(req, "leave_request_id = ?", requestID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("pengajuan cuti tidak ditemukan: %w", apperr.ErrNotFound)
		}
		return err
	}
	if req.LeaveRequestStatus != model.LeaveStatusPending {
		return fmt.Errorf("pengajuan sudah %s: %w", req.LeaveRequestStatus, apperr.ErrConflict)
	}
	return nil
}

func decisionMeta(adminUserID uuid.UUID, at time.Time, note string) datatypes.JSONMap {
	meta := datatypes.JSONMap{
		"decided_by": adminUserID.String(),
		"decided_at": at.Format(time.RFC3339),
	}
	if note != "" {
		meta["note"] = note
	}
	return meta
}

/* =========================================================
   LIST
   ========================================================= */

func (s *LeaveService) ListByEmployee(ctx context.Context, employeeID uuid.UUID, limit int) ([]model.LeaveRequestModel, error) {
	if limit <= 0 || limit > 100 {
		limit = 30
	}
	var rows []model.LeaveRequestModel
	err := s.DB.WithContext(ctx).
		Where("leave_request_employee_id = ?", employeeID).
		Order("leave_request_date DESC").
		Limit(limit).
		Find(&rows).Error
	return rows, err
}

func (s *LeaveService) ListPending(ctx context.Context) ([]model.LeaveRequestModel, error) {
	var rows []model.LeaveRequestModel
	err := s.DB.WithContext(ctx).
		Where("leave_request_status = ?", model.LeaveStatusPending).
		Order("leave_request_date ASC").
		Find(&rows).Error
	return rows, err
}

func (s *LeaveService) notifyRecompute(ctx context.Context, employeeID uuid.UUID, date time.Time) {
	if s.Agg == nil {
		return
	}
	if err := s.Agg.Recompute(ctx, employeeID, date); err != nil {
		log.Printf("[LEAVE] recompute %s %s gagal: %v", employeeID, timezone.FormatDate(date), err)
	}
}
