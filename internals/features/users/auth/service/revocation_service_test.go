package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"

	"kantorku_backend/internals/features/users/auth/model"
	"kantorku_backend/internals/testutil"
)

func newRegistry(t *testing.T, clk *testutil.Clock) (*RevocationRegistry, func() int64) {
	t.Helper()
	db := testutil.OpenTestDB(t)
	reg := NewRevocationRegistry(db, nil)
	reg.Now = clk.NowFunc()

	rowCount := func() int64 {
		var n int64
		if err := db.Model(&model.TokenBlacklistModel{}).Count(&n).Error; err != nil {
			t.Fatal(err)
		}
		return n
	}
	return reg, rowCount
}

func TestRevokeThenSweepLifecycle(t *testing.T) {
	ctx := context.Background()
	clk := testutil.NewClock(time.Date(2026, 3, 10, 10, 0, 0, 0, time.UTC))
	reg, rowCount := newRegistry(t, clk)

	jti := uuid.NewString()
	expiry := clk.Now().Add(2 * time.Hour)
	if err := reg.Revoke(ctx, jti, uuid.New(), expiry, "logout"); err != nil {
		t.Fatal(err)
	}

	if !reg.IsRevoked(jti) {
		t.Fatal("token baru dicabut harus kebaca revoked")
	}
	if reg.IsRevoked(uuid.NewString()) {
		t.Error("jti lain tidak boleh ikut revoked")
	}

	// Belum lewat expiry: sweep tidak boleh menyentuh.
	swept, err := reg.SweepExpired(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if swept != 0 || rowCount() != 1 {
		t.Fatalf("sweep dini: swept=%d rows=%d, mau 0/1", swept, rowCount())
	}

	clk.Advance(3 * time.Hour)
	if reg.IsRevoked(jti) {
		t.Error("lewat expiry alami, IsRevoked harus false walau belum disapu")
	}

	swept, err = reg.SweepExpired(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if swept != 1 {
		t.Fatalf("swept = %d, mau 1", swept)
	}
	if rowCount() != 0 {
		t.Error("baris blacklist harus hilang setelah sweep")
	}
	if reg.CacheSize() != 0 {
		t.Error("cache harus ikut dibersihkan")
	}
}

func TestDuplicateRevokeIsNoOp(t *testing.T) {
	ctx := context.Background()
	clk := testutil.NewClock(time.Date(2026, 3, 10, 10, 0, 0, 0, time.UTC))
	reg, rowCount := newRegistry(t, clk)

	jti := uuid.NewString()
	user := uuid.New()
	if err := reg.Revoke(ctx, jti, user, clk.Now().Add(time.Hour), "logout"); err != nil {
		t.Fatal(err)
	}
	// Cabut lagi dengan expiry beda: tetap no-op, baris pertama menang.
	if err := reg.Revoke(ctx, jti, user, clk.Now().Add(9*time.Hour), "logout ulang"); err != nil {
		t.Fatalf("revoke dobel harus no-op tanpa error, dapat %v", err)
	}

	if rowCount() != 1 {
		t.Fatalf("rows = %d, mau 1", rowCount())
	}
	if reg.CacheSize() != 1 {
		t.Fatalf("cache = %d, mau 1", reg.CacheSize())
	}
	if !reg.IsRevoked(jti) {
		t.Error("token tetap revoked setelah revoke dobel")
	}
}

func TestRevokeAlreadyExpiredTokenSkipsInsert(t *testing.T) {
	ctx := context.Background()
	clk := testutil.NewClock(time.Date(2026, 3, 10, 10, 0, 0, 0, time.UTC))
	reg, rowCount := newRegistry(t, clk)

	jti := uuid.NewString()
	if err := reg.Revoke(ctx, jti, uuid.New(), clk.Now().Add(-time.Minute), "telat"); err != nil {
		t.Fatal(err)
	}
	if rowCount() != 0 {
		t.Error("token kadaluarsa tidak perlu baris blacklist")
	}
	if reg.IsRevoked(jti) {
		t.Error("token kadaluarsa tidak dianggap revoked")
	}
}

func TestWarmUpRestoresCacheAfterRestart(t *testing.T) {
	ctx := context.Background()
	clk := testutil.NewClock(time.Date(2026, 3, 10, 10, 0, 0, 0, time.UTC))
	db := testutil.OpenTestDB(t)

	liveJTI := uuid.NewString()
	deadJTI := uuid.NewString()
	rows := []model.TokenBlacklistModel{
		{TokenID: liveJTI, UserID: uuid.New(), RevokedAt: clk.Now().Add(-time.Hour), ExpiredAt: clk.Now().Add(time.Hour)},
		{TokenID: deadJTI, UserID: uuid.New(), RevokedAt: clk.Now().Add(-3 * time.Hour), ExpiredAt: clk.Now().Add(-time.Hour)},
	}
	for i := range rows {
		if err := db.Create(&rows[i]).Error; err != nil {
			t.Fatal(err)
		}
	}

	// Registry baru = proses baru habis restart: cache kosong.
	reg := NewRevocationRegistry(db, nil)
	reg.Now = clk.NowFunc()
	if reg.IsRevoked(liveJTI) {
		t.Fatal("sebelum warm up cache memang kosong")
	}

	loaded, err := reg.WarmUp(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if loaded != 1 {
		t.Fatalf("loaded = %d, mau hanya 1 yang masih hidup", loaded)
	}
	if !reg.IsRevoked(liveJTI) {
		t.Error("jti hidup harus revoked setelah warm up")
	}
	if reg.IsRevoked(deadJTI) {
		t.Error("jti kadaluarsa tidak ikut dimuat")
	}
}
