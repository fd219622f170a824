package service

import (
	"context"
	"testing"
	"time"

	"gorm.io/gorm"

	"kantorku_backend/internals/features/home/quotes/model"
	"kantorku_backend/internals/testutil"
)

func newQuoteService(t *testing.T, clk *testutil.Clock) (*QuoteService, *gorm.DB) {
	t.Helper()
	db := testutil.OpenTestDB(t)
	svc := NewQuoteService(db)
	svc.Now = clk.NowFunc()
	return svc, db
}

func seedQuote(t *testing.T, db *gorm.DB, text string, order int) {
	t.Helper()
	q := model.QuoteModel{
		QuoteText:    text,
		QuoteAuthor:  "anon",
		IsPublished:  true,
		DisplayOrder: order,
	}
	if err := db.Create(&q).Error; err != nil {
		t.Fatalf("seed quote: %v", err)
	}
}

func TestRotateDailyWalksPoolInOrder(t *testing.T) {
	ctx := context.Background()
	clk := testutil.NewClock(time.Date(2026, 4, 1, 3, 0, 0, 0, time.UTC))
	svc, db := newQuoteService(t, clk)

	seedQuote(t, db, "pertama", 1)
	seedQuote(t, db, "kedua", 2)

	texts := make([]string, 0, 3)
	for i := 0; i < 3; i++ {
		view, err := svc.TodayQuote(ctx)
		if err != nil {
			t.Fatal(err)
		}
		texts = append(texts, view.Text)
		clk.Advance(24 * time.Hour)
	}

	// Dua kutipan, tiga hari: urutan display lalu wrap ke awal pool.
	want := []string{"pertama", "kedua", "pertama"}
	for i := range want {
		if texts[i] != want[i] {
			t.Errorf("hari %d = %q, mau %q", i, texts[i], want[i])
		}
	}
}

func TestRotateDailyIdempotentSameDay(t *testing.T) {
	ctx := context.Background()
	clk := testutil.NewClock(time.Date(2026, 4, 1, 3, 0, 0, 0, time.UTC))
	svc, db := newQuoteService(t, clk)

	seedQuote(t, db, "satu-satunya", 1)

	first, err := svc.RotateDaily(ctx)
	if err != nil {
		t.Fatal(err)
	}
	second, err := svc.RotateDaily(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if first.DailyQuoteID != second.DailyQuoteID {
		t.Error("rotasi ulang di hari yang sama harus mengembalikan baris yang sama")
	}

	var count int64
	if err := db.Model(&model.DailyQuoteModel{}).Count(&count).Error; err != nil {
		t.Fatal(err)
	}
	if count != 1 {
		t.Errorf("baris daily_quotes = %d, mau 1", count)
	}
}

func TestRotateDailyEmptyPool(t *testing.T) {
	ctx := context.Background()
	clk := testutil.NewClock(time.Date(2026, 4, 1, 3, 0, 0, 0, time.UTC))
	svc, _ := newQuoteService(t, clk)

	row, err := svc.RotateDaily(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if row != nil {
		t.Error("pool kosong harus no-op, bukan membuat baris")
	}
}

func TestRotateSkipsUnpublished(t *testing.T) {
	ctx := context.Background()
	clk := testutil.NewClock(time.Date(2026, 4, 1, 3, 0, 0, 0, time.UTC))
	svc, db := newQuoteService(t, clk)

	// Tag default:true membuat nilai false di-skip saat insert, jadi set
	// kolomnya eksplisit setelah create.
	draft := model.QuoteModel{QuoteText: "draft", DisplayOrder: 1}
	if err := db.Create(&draft).Error; err != nil {
		t.Fatal(err)
	}
	if err := db.Model(&draft).Update("is_published", false).Error; err != nil {
		t.Fatal(err)
	}
	seedQuote(t, db, "terbit", 2)

	view, err := svc.TodayQuote(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if view.Text != "terbit" {
		t.Errorf("text = %q, kutipan draft tidak boleh terpilih", view.Text)
	}
}
