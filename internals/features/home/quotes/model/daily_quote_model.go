package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// DailyQuoteModel: kutipan yang terikat ke satu tanggal lokal. Unique per
// tanggal supaya job rotasi idempotent walau jalan dua kali.
type DailyQuoteModel struct {
	DailyQuoteID      uuid.UUID `gorm:"column:daily_quote_id;type:uuid;primaryKey" json:"daily_quote_id"`
	DailyQuoteDate    time.Time `gorm:"column:daily_quote_date;type:date;not null;uniqueIndex" json:"daily_quote_date"`
	DailyQuoteQuoteID uuid.UUID `gorm:"column:daily_quote_quote_id;type:uuid;not null" json:"daily_quote_quote_id"`
	CreatedAt         time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
}

func (DailyQuoteModel) TableName() string {
	return "daily_quotes"
}

func (d *DailyQuoteModel) BeforeCreate(tx *gorm.DB) error {
	if d.DailyQuoteID == uuid.Nil {
		d.DailyQuoteID = uuid.New()
	}
	return nil
}
