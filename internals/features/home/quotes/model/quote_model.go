package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// QuoteModel: pool kutipan motivasi. DisplayOrder menentukan urutan rotasi
// harian; job rotasi memilih lewat cursor persisted, bukan index in-memory.
type QuoteModel struct {
	QuoteID      uuid.UUID `gorm:"column:quote_id;type:uuid;primaryKey" json:"quote_id"`
	QuoteText    string    `gorm:"column:quote_text;type:text;not null" json:"quote_text"`
	QuoteAuthor  string    `gorm:"column:quote_author;size:100" json:"quote_author"`
	IsPublished  bool      `gorm:"column:is_published;default:true" json:"is_published"`
	DisplayOrder int       `gorm:"column:display_order;index" json:"display_order"`
	CreatedAt    time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
}

func (QuoteModel) TableName() string {
	return "quotes"
}

func (q *QuoteModel) BeforeCreate(tx *gorm.DB) error {
	if q.QuoteID == uuid.Nil {
		q.QuoteID = uuid.New()
	}
	return nil
}
