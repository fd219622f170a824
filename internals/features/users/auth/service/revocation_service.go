package service

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"kantorku_backend/internals/features/users/auth/model"
)

/* =========================================================
   REVOCATION REGISTRY
   =========================================================
   Gerbang jti untuk auth middleware. Kebenaran durable di tabel
   token_blacklist; hot path IsRevoked cuma menyentuh cache in-memory
   supaya tiap request tidak bayar satu roundtrip DB. Mirror Redis
   opsional untuk consumer lain yang mau baca status revocation tanpa
   akses DB kita.
*/

const redisKeyPrefix = "kantorku:revoked:"

type RevocationRegistry struct {
	DB  *gorm.DB
	RDB *redis.Client // boleh nil
	Now func() time.Time

	mu    sync.RWMutex
	cache map[string]time.Time // jti -> expiry alami
}

func NewRevocationRegistry(db *gorm.DB, rdb *redis.Client) *RevocationRegistry {
	return &RevocationRegistry{
		DB:    db,
		RDB:   rdb,
		Now:   time.Now,
		cache: make(map[string]time.Time),
	}
}

// WarmUp isi ulang cache dari DB, dipanggil sekali saat boot sebelum
// server menerima traffic. Tanpa ini, token yang dicabut sebelum restart
// akan lolos di hot path.
func (r *RevocationRegistry) WarmUp(ctx context.Context) (int, error) {
	now := r.Now().UTC()

	var rows []model.TokenBlacklistModel
	err := r.DB.WithContext(ctx).
		Select("token_blacklist_token_id", "token_blacklist_expired_at").
		Where("token_blacklist_expired_at > ?", now).
		Find(&rows).Error
	if err != nil {
		return 0, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	for _, row := range rows {
		r.cache[row.TokenID] = row.ExpiredAt
	}
	return len(rows), nil
}

// Revoke catat jti sebagai dicabut sampai expiry alaminya. Duplikat
// adalah no-op yang disengaja: mencabut token yang sudah dicabut tidak
// mengubah apa-apa dan tidak dianggap error.
func (r *RevocationRegistry) Revoke(ctx context.Context, tokenID string, userID uuid.UUID, expiresAt time.Time, reason string) error {
	if tokenID == "" {
		return nil
	}
	now := r.Now().UTC()
	expiresAt = expiresAt.UTC()
	if !expiresAt.After(now) {
		// Token sudah mati secara alami, tidak perlu baris baru.
		return nil
	}

	row := model.TokenBlacklistModel{
		TokenID:   tokenID,
		UserID:    userID,
		RevokedAt: now,
		ExpiredAt: expiresAt,
		Reason:    reason,
	}
	err := r.DB.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "token_blacklist_token_id"}},
		DoNothing: true,
	}).Create(&row).Error
	if err != nil {
		return err
	}

	r.mu.Lock()
	if _, exists := r.cache[tokenID]; !exists {
		r.cache[tokenID] = expiresAt
	}
	r.mu.Unlock()

	r.mirrorSet(ctx, tokenID, expiresAt.Sub(now))
	return nil
}

// IsRevoked adalah hot path per request: lookup map di bawah RLock,
// tanpa DB. Entry yang sudah lewat expiry dianggap tidak dicabut
// (tokennya toh sudah ditolak validasi exp).
func (r *RevocationRegistry) IsRevoked(tokenID string) bool {
	if tokenID == "" {
		return false
	}
	r.mu.RLock()
	expiry, ok := r.cache[tokenID]
	r.mu.RUnlock()
	return ok && expiry.After(r.Now().UTC())
}

// SweepExpired buang baris yang expiry alaminya sudah lewat, dari DB dan
// cache sekaligus. Dipanggil scheduler tiap beberapa menit.
func (r *RevocationRegistry) SweepExpired(ctx context.Context) (int64, error) {
	now := r.Now().UTC()

	res := r.DB.WithContext(ctx).
		Where("token_blacklist_expired_at <= ?", now).
		Delete(&model.TokenBlacklistModel{})
	if res.Error != nil {
		return 0, res.Error
	}

	r.mu.Lock()
	for jti, expiry := range r.cache {
		if !expiry.After(now) {
			delete(r.cache, jti)
		}
	}
	r.mu.Unlock()

	return res.RowsAffected, nil
}

// CacheSize dipakai health/debug endpoint.
func (r *RevocationRegistry) CacheSize() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.cache)
}

// mirrorSet tulis best-effort ke Redis; TTL mengikuti sisa umur token
// jadi key hilang sendiri tanpa perlu disapu.
func (r *RevocationRegistry) mirrorSet(ctx context.Context, tokenID string, ttl time.Duration) {
	if r.RDB == nil || ttl <= 0 {
		return
	}
	if err := r.RDB.Set(ctx, redisKeyPrefix+tokenID, "1", ttl).Err(); err != nil {
		log.Printf("[REVOKE] mirror redis %s gagal: %v", tokenID, err)
	}
}
