package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// TokenBlacklistModel menyimpan token yang dicabut sebelum expiry alaminya,
// dikunci per jti supaya lookup hot path murah. Baris hanya berarti sampai
// ExpiredAt lewat; setelah itu disapu scheduler.
type TokenBlacklistModel struct {
	ID        uuid.UUID `gorm:"column:token_blacklist_id;type:uuid;primaryKey" json:"id"`
	TokenID   string    `gorm:"column:token_blacklist_token_id;size:64;not null;uniqueIndex" json:"token_id"`
	UserID    uuid.UUID `gorm:"column:token_blacklist_user_id;type:uuid;index" json:"user_id"`
	RevokedAt time.Time `gorm:"column:token_blacklist_revoked_at;not null" json:"revoked_at"`
	ExpiredAt time.Time `gorm:"column:token_blacklist_expired_at;not null;index" json:"expired_at"`
	Reason    string    `gorm:"column:token_blacklist_reason;size:50" json:"reason"`
}

// TableName memastikan nama tabel sesuai dengan skema database
func (TokenBlacklistModel) TableName() string {
	return "token_blacklist"
}

func (t *TokenBlacklistModel) BeforeCreate(tx *gorm.DB) error {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	return nil
}
