package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

/* =========================================================
   LEAVE COIN (saldo per-grant, FIFO by expiry)
   ========================================================= */

// LeaveCoinModel: satu baris per grant bulanan. Remaining 1 selama belum
// dikonsumsi/expire. Konsumsi ambil yang paling dekat expiry dulu.
type LeaveCoinModel struct {
	LeaveCoinID         uuid.UUID `gorm:"column:leave_coin_id;type:uuid;primaryKey" json:"leave_coin_id"`
	LeaveCoinEmployeeID uuid.UUID `gorm:"column:leave_coin_employee_id;type:uuid;not null;index" json:"leave_coin_employee_id"`
	LeaveCoinGrantedAt  time.Time `gorm:"column:leave_coin_granted_at;type:timestamptz;not null" json:"leave_coin_granted_at"`
	LeaveCoinExpiresAt  time.Time `gorm:"column:leave_coin_expires_at;type:timestamptz;not null;index" json:"leave_coin_expires_at"`
	LeaveCoinRemaining  int       `gorm:"column:leave_coin_remaining;not null;default:1" json:"leave_coin_remaining"`
	CreatedAt           time.Time `gorm:"column:created_at;type:timestamptz;autoCreateTime" json:"created_at"`
	UpdatedAt           time.Time `gorm:"column:updated_at;type:timestamptz;autoUpdateTime" json:"updated_at"`
}

func (LeaveCoinModel) TableName() string {
	return "leave_coins"
}

func (l *LeaveCoinModel) BeforeCreate(tx *gorm.DB) error {
	if l.LeaveCoinID == uuid.Nil {
		l.LeaveCoinID = uuid.New()
	}
	return nil
}
