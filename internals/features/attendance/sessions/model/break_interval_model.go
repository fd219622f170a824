package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// BreakIntervalModel: jeda istirahat di dalam satu sesi kerja. Maksimal
// satu break terbuka per sesi; menutup sesi ikut menutup break yang
// masih menggantung.
type BreakIntervalModel struct {
	BreakIntervalID        uuid.UUID  `gorm:"column:break_interval_id;type:uuid;primaryKey" json:"break_interval_id"`
	BreakIntervalSessionID uuid.UUID  `gorm:"column:break_interval_session_id;type:uuid;not null;index" json:"break_interval_session_id"`
	BreakIntervalStart     time.Time  `gorm:"column:break_interval_start;type:timestamptz;not null" json:"break_interval_start"`
	BreakIntervalEnd       *time.Time `gorm:"column:break_interval_end;type:timestamptz" json:"break_interval_end,omitempty"`
	CreatedAt              time.Time  `gorm:"column:created_at;type:timestamptz;autoCreateTime" json:"created_at"`
}

func (BreakIntervalModel) TableName() string {
	return "break_intervals"
}

func (b *BreakIntervalModel) BeforeCreate(tx *gorm.DB) error {
	if b.BreakIntervalID == uuid.Nil {
		b.BreakIntervalID = uuid.New()
	}
	return nil
}

func (b *BreakIntervalModel) IsOpen() bool {
	return b.BreakIntervalEnd == nil
}
