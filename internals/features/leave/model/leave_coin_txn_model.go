package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

/* =========================================================
   LEAVE COIN TXN (jurnal mutasi saldo)
   ========================================================= */

type LeaveCoinTxnType string

const (
	LeaveCoinTxnGrant   LeaveCoinTxnType = "grant"
	LeaveCoinTxnConsume LeaveCoinTxnType = "consume"
	LeaveCoinTxnExpire  LeaveCoinTxnType = "expire"
	LeaveCoinTxnAdjust  LeaveCoinTxnType = "adjust"
	LeaveCoinTxnRestore LeaveCoinTxnType = "restore"
)

// LeaveCoinTxnModel: jurnal append-only; saldo tidak pernah di-derive dari
// sini (sumbernya leave_coins), jurnal murni untuk audit.
type LeaveCoinTxnModel struct {
	LeaveCoinTxnID         uuid.UUID        `gorm:"column:leave_coin_txn_id;type:uuid;primaryKey" json:"leave_coin_txn_id"`
	LeaveCoinTxnEmployeeID uuid.UUID        `gorm:"column:leave_coin_txn_employee_id;type:uuid;not null;index" json:"leave_coin_txn_employee_id"`
	LeaveCoinTxnType       LeaveCoinTxnType `gorm:"column:leave_coin_txn_type;type:varchar(20);not null" json:"leave_coin_txn_type"`
	LeaveCoinTxnAmount     int              `gorm:"column:leave_coin_txn_amount;not null" json:"leave_coin_txn_amount"`
	LeaveCoinTxnNote       string           `gorm:"column:leave_coin_txn_note;size:255" json:"leave_coin_txn_note"`
	CreatedAt              time.Time        `gorm:"column:created_at;type:timestamptz;autoCreateTime" json:"created_at"`
}

func (LeaveCoinTxnModel) TableName() string {
	return "leave_coin_txns"
}

func (l *LeaveCoinTxnModel) BeforeCreate(tx *gorm.DB) error {
	if l.LeaveCoinTxnID == uuid.Nil {
		l.LeaveCoinTxnID = uuid.New()
	}
	return nil
}
