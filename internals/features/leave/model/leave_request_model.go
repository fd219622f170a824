package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

/* =========================================================
   LEAVE REQUEST STATUS
   ========================================================= */

type LeaveStatus string

const (
	LeaveStatusPending   LeaveStatus = "pending"
	LeaveStatusApproved  LeaveStatus = "approved"
	LeaveStatusRejected  LeaveStatus = "rejected"
	LeaveStatusCancelled LeaveStatus = "cancelled"
)

/* =========================================================
   LEAVE REQUEST
   ========================================================= */

// LeaveRequestModel: pengajuan cuti per tanggal. Baris berstatus approved
// adalah leave marker yang dibaca aggregator saat menentukan status harian.
// Aggregator hanya membaca; yang menulis cuma flow approve/cancel di sini.
type LeaveRequestModel struct {
	LeaveRequestID         uuid.UUID   `gorm:"column:leave_request_id;type:uuid;primaryKey" json:"leave_request_id"`
	LeaveRequestEmployeeID uuid.UUID   `gorm:"column:leave_request_employee_id;type:uuid;not null;index:idx_leave_requests_employee_date" json:"leave_request_employee_id"`
	LeaveRequestDate       time.Time   `gorm:"column:leave_request_date;type:date;not null;index:idx_leave_requests_employee_date" json:"leave_request_date"`
	LeaveRequestType       string      `gorm:"column:leave_request_type;size:30;not null;default:'annual'" json:"leave_request_type"`
	LeaveRequestReason     string      `gorm:"column:leave_request_reason;type:text" json:"leave_request_reason"`
	LeaveRequestStatus     LeaveStatus `gorm:"column:leave_request_status;type:varchar(20);not null;default:'pending'" json:"leave_request_status"`

	// Koin yang dikonsumsi saat approve; dipakai lagi saat cancel untuk
	// mengembalikan koin yang tepat.
	LeaveRequestCoinID *uuid.UUID `gorm:"column:leave_request_coin_id;type:uuid" json:"leave_request_coin_id,omitempty"`

	// Jejak keputusan admin (siapa, kapan, catatan) sebagai jsonb.
	LeaveRequestDecisionMeta datatypes.JSONMap `gorm:"column:leave_request_decision_meta;type:jsonb" json:"leave_request_decision_meta,omitempty"`

	CreatedAt time.Time `gorm:"column:created_at;type:timestamptz;autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at;type:timestamptz;autoUpdateTime" json:"updated_at"`
}

func (LeaveRequestModel) TableName() string {
	return "leave_requests"
}

func (l *LeaveRequestModel) BeforeCreate(tx *gorm.DB) error {
	if l.LeaveRequestID == uuid.Nil {
		l.LeaveRequestID = uuid.New()
	}
	return nil
}
